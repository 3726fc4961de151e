package handlers

import (
	"encoding/json"
	"net/http"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/services"
)

type MarketplaceHandler struct {
	activityService *services.ActivityService
}

func NewMarketplaceHandler(activityService *services.ActivityService) *MarketplaceHandler {
	return &MarketplaceHandler{activityService: activityService}
}

func (h *MarketplaceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.MarketplaceFilter{
		Region:   q.Get("region"),
		Language: q.Get("language"),
		Type:     q.Get("type"),
		Price:    q.Get("price"),
		Search:   q.Get("search"),
	}

	activities, err := h.activityService.Marketplace(r.Context(), f)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}

func (h *MarketplaceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.PublishActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	activity, err := h.activityService.Publish(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity": activity,
		"message":  "Activity published successfully",
	})
}

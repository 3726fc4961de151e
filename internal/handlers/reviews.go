package handlers

import (
	"encoding/json"
	"net/http"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) ListByActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := parseID(w, r, "activityId")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForActivity(r.Context(), activityID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	review, err := h.reviewService.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"review":  review,
		"message": "Review created successfully",
	})
}

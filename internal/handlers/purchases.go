package handlers

import (
	"encoding/json"
	"net/http"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/services"
)

type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	purchase, err := h.purchaseService.Purchase(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"purchase": purchase,
		"message":  "Purchase successful",
	})
}

func (h *PurchaseHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "userId")
	if !ok {
		return
	}

	purchases, activities, err := h.purchaseService.ListUserPurchases(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"purchases":  purchases,
		"activities": activities,
	})
}

func (h *PurchaseHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "userId")
	if !ok {
		return
	}
	activityID, ok := parseID(w, r, "activityId")
	if !ok {
		return
	}

	purchased, err := h.purchaseService.HasPurchased(r.Context(), userID, activityID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"purchased": purchased})
}

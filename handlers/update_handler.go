package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nonZeroDayAPI/internal/types/update"
	"nonZeroDayAPI/middleware"
	"nonZeroDayAPI/services"
)

type UpdateHandler struct {
	updateService *services.UpdateService
}

func NewUpdateHandler(updateService *services.UpdateService) *UpdateHandler {
	return &UpdateHandler{
		updateService: updateService,
	}
}

// SubmitUpdate files today's proof of work for the authenticated user.
func (h *UpdateHandler) SubmitUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req update.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	up, err := h.updateService.Submit(ctx, clerkID, &req)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, up)
}

// GetMyUpdates lists the authenticated user's submissions, pending ones
// included.
func (h *UpdateHandler) GetMyUpdates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	updates, err := h.updateService.ListForUser(ctx, clerkID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updates)
}

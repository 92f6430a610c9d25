package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nonZeroDayAPI/internal/types/admin"
	"nonZeroDayAPI/internal/types/user"
	"nonZeroDayAPI/middleware"
	"nonZeroDayAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AdminHandler is the moderation surface: user approval, streak overrides,
// bulk actions and the update review queue. Routes using it sit behind the
// admin middleware.
type AdminHandler struct {
	adminService  *services.AdminService
	updateService *services.UpdateService
}

func NewAdminHandler(adminService *services.AdminService, updateService *services.UpdateService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		updateService: updateService,
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func (h *AdminHandler) GetPendingUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.adminService.ListPendingUsers(ctx)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req user.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.adminService.ApproveUser(ctx, id, req.InitialStreak)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.adminService.RejectUser(ctx, id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User rejected"})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.adminService.DeleteUser(ctx, id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// AdjustStreak force-sets one user's streak from a delta or absolute value.
func (h *AdminHandler) AdjustStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var adj user.StreakAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.adminService.AdjustStreak(ctx, id, &adj)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

// BulkAction applies increment, decrement or delete to a selected set of
// users. Partial failure is normal and visible in the per-id results.
func (h *AdminHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req admin.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	summary, err := h.adminService.Bulk(ctx, &req)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) GetPendingUpdates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.updateService.ListPending(ctx)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

// ApproveUpdate converts a pending submission into a counted streak day.
func (h *AdminHandler) ApproveUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid update id")
		return
	}

	up, err := h.updateService.Approve(ctx, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	middleware.RecordReview("approved")
	respondWithJSON(w, http.StatusOK, up)
}

func (h *AdminHandler) RejectUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid update id")
		return
	}

	if err := h.updateService.Reject(ctx, id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	middleware.RecordReview("rejected")
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Update rejected"})
}

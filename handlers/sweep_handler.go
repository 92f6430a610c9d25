package handlers

import (
	"context"
	"net/http"
	"time"

	"nonZeroDayAPI/internal/types/sweep"
	"nonZeroDayAPI/middleware"
)

// Sweeper runs one expiry pass over all active streaks.
type Sweeper interface {
	Run(ctx context.Context) (*sweep.Report, error)
}

// SweepHandler exposes the sweep as an externally scheduled trigger. The
// scheduler only has to GET the endpoint; all the work happens inside one
// bounded invocation.
type SweepHandler struct {
	sweeper Sweeper
}

func NewSweepHandler(sweeper Sweeper) *SweepHandler {
	return &SweepHandler{
		sweeper: sweeper,
	}
}

// ResetStreaks handles the periodic trigger. A failed sweep returns a
// non-2xx error body and changes nothing user-visible; the scheduler can
// simply call again.
func (h *SweepHandler) ResetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	start := time.Now()
	report, err := h.sweeper.Run(ctx)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	middleware.RecordSweep(report.Resets, time.Since(start))
	respondWithJSON(w, http.StatusOK, report)
}

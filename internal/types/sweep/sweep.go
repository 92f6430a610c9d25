package sweep

import "github.com/google/uuid"

// Report summarizes one sweep invocation.
type Report struct {
	Success  bool        `json:"success"`
	Checked  int         `json:"checked"`
	Resets   int         `json:"resets"`
	ResetIDs []uuid.UUID `json:"reset_ids"`
}

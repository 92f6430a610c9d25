package admin

import "github.com/google/uuid"

// BulkAction is one of the uniform operations applied to a selected set of
// users.
type BulkAction string

const (
	BulkIncrement BulkAction = "increment"
	BulkDecrement BulkAction = "decrement"
	BulkDelete    BulkAction = "delete"
)

// BulkRequest applies one action to every listed user.
type BulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Action BulkAction  `json:"action"`
}

// BulkResult is the per-user outcome of a bulk action. A failed member
// never reports success; the rest of the batch proceeds regardless.
type BulkResult struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// BulkSummary aggregates a whole bulk invocation.
type BulkSummary struct {
	Requested int          `json:"requested"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []BulkResult `json:"results"`
}

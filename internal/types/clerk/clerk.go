// Package clerk holds the webhook payload shapes delivered by the identity
// provider. Only the fields the sync path reads are declared.
package clerk

import "encoding/json"

// WebhookEvent is the envelope of every Clerk webhook delivery.
type WebhookEvent struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

// UserData is the payload of user.created / user.updated events.
type UserData struct {
	ID              string         `json:"id"`
	Username        string         `json:"username"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	ImageURL        string         `json:"image_url"`
	ProfileImageURL string         `json:"profile_image_url"`
	EmailAddresses  []EmailAddress `json:"email_addresses"`
}

// EmailAddress is one email entry attached to a Clerk user.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// DeletedData is the payload of user.deleted events.
type DeletedData struct {
	ID string `json:"id"`
}

package api

import "time"

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// Avatar is a resolved avatar variant.
// swagger:model
type Avatar struct {
	// URL is empty for placeholders.
	URL string `json:"url"`
	// Type is one of public, private or placeholder.
	Type        string `json:"type"`
	IsEncrypted bool   `json:"isEncrypted"`
	HasAccess   bool   `json:"hasAccess"`
	Error       string `json:"error,omitempty"`
}

// UploadResponse ...
// swagger:model
type UploadResponse struct {
	PublicBlobID  string    `json:"publicBlobId"`
	PrivateBlobID string    `json:"privateBlobId"`
	PolicyID      string    `json:"policyId"`
	Encrypted     bool      `json:"encrypted"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

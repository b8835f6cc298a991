package api

import (
	valid "github.com/asaskevich/govalidator"
)

// SettingsVersion is a version of Settings object.
const SettingsVersion = "v1"

// Multipart form fields of upload request.
const (
	PublicPart   = "public"
	PrivatePart  = "private"
	SettingsPart = "settings"
)

// Visibility values.
const (
	VisibilityMatchesOnly    = "matches_only"
	VisibilityPremiumMatches = "premium_matches"
)

// Permission actions.
const (
	ActionGrant  = "grant"
	ActionRevoke = "revoke"
)

// Validator interface provides method for validation.
type Validator interface {
	IsValid() bool
}

// Settings is owner-controlled avatar configuration.
// swagger:model
type Settings struct {
	Enabled       bool    `json:"enabled"`
	Visibility    string  `json:"visibility"`
	AllowDownload bool    `json:"allowDownload"`
	ExpiryDays    *uint32 `json:"expiryDays,omitempty"`
}

// MaxExpiryDays is the longest accepted avatar lifetime.
const MaxExpiryDays = 36500

// IsValid ...
func (s Settings) IsValid() bool {
	return valid.IsIn(s.Visibility, VisibilityMatchesOnly, VisibilityPremiumMatches) &&
		(s.ExpiryDays == nil || (*s.ExpiryDays > 0 && *s.ExpiryDays <= MaxExpiryDays))
}

// VersionedSettings is a wire form of Settings.
// swagger:model
type VersionedSettings struct {
	Version  string   `json:"version"`
	Settings Settings `json:"settings"`
}

// UploadRequest contains both avatar variants. Public one is served as is, private one is encrypted.
type UploadRequest struct {
	Public   []byte
	Private  []byte
	Settings Settings
}

// IsValid ...
func (r UploadRequest) IsValid() bool {
	return len(r.Public) != 0 && len(r.Private) != 0 && r.Settings.IsValid()
}

// PermissionRequest ...
// swagger:model
type PermissionRequest struct {
	Observer string `json:"observer"`
	Action   string `json:"action"`
}

// IsValid ...
func (r PermissionRequest) IsValid() bool {
	return r.Observer != "" && valid.IsIn(r.Action, ActionGrant, ActionRevoke)
}

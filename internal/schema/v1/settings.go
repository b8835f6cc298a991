// Package v1 contains the first typed version of avatar settings.
package v1

import (
	valid "github.com/asaskevich/govalidator"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/schema/types"
)

// Version ...
const Version types.Version = "v1"

// Settings is avatar settings object.
type Settings struct {
	Enabled       bool                `json:"enabled"`
	Visibility    entities.Visibility `json:"visibility"`
	AllowDownload bool                `json:"allowDownload"`
	ExpiryDays    *uint32             `json:"expiryDays,omitempty"`
}

var _ types.Settings = Settings{}

// FromEntity converts entities.AvatarSettings to v1.
func FromEntity(s entities.AvatarSettings) Settings {
	return Settings{
		Enabled:       s.Enabled,
		Visibility:    s.Visibility,
		AllowDownload: s.AllowDownload,
		ExpiryDays:    s.ExpiryDays,
	}
}

// Version ...
func (Settings) Version() types.Version {
	return Version
}

// Validate ...
func (s Settings) Validate() bool {
	if !valid.IsIn(string(s.Visibility),
		string(entities.VisibilityMatchesOnly),
		string(entities.VisibilityPremiumMatches),
	) {
		return false
	}

	return s.ExpiryDays == nil || (*s.ExpiryDays > 0 && *s.ExpiryDays <= entities.MaxExpiryDays)
}

// Entity ...
func (s Settings) Entity() entities.AvatarSettings {
	return entities.AvatarSettings{
		Enabled:       s.Enabled,
		Visibility:    s.Visibility,
		AllowDownload: s.AllowDownload,
		ExpiryDays:    s.ExpiryDays,
	}
}

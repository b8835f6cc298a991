package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Decentr-net/veil/internal/entities"
)

// legacySettings is a loose unversioned settings format written by older clients.
type legacySettings struct {
	Enabled       *bool           `json:"enabled"`
	Visibility    string          `json:"visibility"`
	AllowDownload bool            `json:"allowDownload"`
	ExpiryDays    json.RawMessage `json:"expiryDays"`
}

// nolint: gochecknoglobals
var legacyVisibility = map[string]entities.Visibility{
	"":                                     entities.VisibilityMatchesOnly,
	"public":                               entities.VisibilityMatchesOnly,
	"matches":                              entities.VisibilityMatchesOnly,
	"premium":                              entities.VisibilityPremiumMatches,
	string(entities.VisibilityMatchesOnly): entities.VisibilityMatchesOnly,
	string(entities.VisibilityPremiumMatches): entities.VisibilityPremiumMatches,
}

func migrateLegacy(b []byte) (entities.AvatarSettings, error) {
	var l legacySettings
	if err := json.Unmarshal(b, &l); err != nil {
		return entities.AvatarSettings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}

	out := entities.AvatarSettings{
		Enabled:       true,
		AllowDownload: l.AllowDownload,
	}

	if l.Enabled != nil {
		out.Enabled = *l.Enabled
	}

	v, ok := legacyVisibility[strings.ToLower(strings.TrimSpace(l.Visibility))]
	if !ok {
		return entities.AvatarSettings{}, fmt.Errorf("%w: unknown visibility %s", ErrInvalidSettings, l.Visibility)
	}
	out.Visibility = v

	days, err := parseLegacyExpiry(l.ExpiryDays)
	if err != nil {
		return entities.AvatarSettings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}
	out.ExpiryDays = days

	return out, nil
}

// parseLegacyExpiry accepts number, numeric string, null or nothing. Zero means never expires.
func parseLegacyExpiry(raw json.RawMessage) (*uint32, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil // nolint: nilnil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil // nolint: nilnil
		}
	} else {
		s = string(raw)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("expiry is not a number: %s", s)
	}

	switch {
	case v < 0:
		return nil, fmt.Errorf("negative expiry: %s", s)
	case v == 0:
		return nil, nil // nolint: nilnil
	case v > entities.MaxExpiryDays || v != math.Trunc(v):
		return nil, fmt.Errorf("invalid expiry: %s", s)
	}

	days := uint32(v)
	return &days, nil
}

// Package schema provides versioned avatar settings schemas and validation functions for it.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/schema/types"
	v1 "github.com/Decentr-net/veil/internal/schema/v1"
)

// nolint
type (
	Settings = types.Settings
	Version  = types.Version
)

// nolint
const (
	V1 = v1.Version
)

// CurrentVersion is a version used for encoding.
const CurrentVersion = V1

// ErrInvalidSettings is returned when settings can not be decoded or are invalid.
var ErrInvalidSettings = errors.New("invalid settings")

// nolint: gochecknoglobals
var (
	settingsSchemes = map[Version]Settings{
		V1: v1.Settings{},
	}
)

type envelope struct {
	Version  Version         `json:"version"`
	Settings json.RawMessage `json:"settings"`
}

// Encode encodes settings with the current version.
func Encode(s entities.AvatarSettings) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	b, err := json.Marshal(v1.FromEntity(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	return json.Marshal(envelope{
		Version:  CurrentVersion,
		Settings: b,
	})
}

// Decode decodes settings of any known version. Unversioned payloads are migrated from the legacy format.
func Decode(b []byte) (entities.AvatarSettings, error) {
	if len(b) > types.SizeLimit {
		return entities.AvatarSettings{}, fmt.Errorf("%w: too big", ErrInvalidSettings)
	}

	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return entities.AvatarSettings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}

	if e.Version == "" {
		return migrateLegacy(b)
	}

	t, ok := settingsSchemes[e.Version]
	if !ok {
		return entities.AvatarSettings{}, fmt.Errorf("%w: unknown version %s", ErrInvalidSettings, e.Version)
	}

	v := reflect.New(reflect.TypeOf(t))
	if e.Settings != nil {
		if err := json.Unmarshal(e.Settings, v.Interface()); err != nil {
			return entities.AvatarSettings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
		}
	}

	s := v.Elem().Interface().(Settings) // nolint: errcheck
	if !s.Validate() {
		return entities.AvatarSettings{}, fmt.Errorf("%w: validation failed", ErrInvalidSettings)
	}

	return s.Entity(), nil
}

// Validate checks settings against the current schema.
func Validate(s entities.AvatarSettings) error {
	if !v1.FromEntity(s).Validate() {
		return ErrInvalidSettings
	}
	return nil
}

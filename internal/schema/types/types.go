// Package types contains shared types and constants for schema package.
package types

import (
	"github.com/Decentr-net/veil/internal/entities"
)

// Version ...
type Version string

// SizeLimit is limit to encoded settings size.
const SizeLimit = 4 * 1024

// Validate ...
type Validate interface {
	Validate() bool
}

// Settings is interface for all versions of avatar settings.
type Settings interface {
	Validate

	Version() Version
	Entity() entities.AvatarSettings
}

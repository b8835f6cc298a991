// Package swagger contains models which are used only for swagger spec generation.
package swagger

import (
	"github.com/Decentr-net/veil/internal/schema"
	v1 "github.com/Decentr-net/veil/internal/schema/v1"
)

// swagger:model Settings
type SettingsInterface interface {
	// discriminator: true
	// swagger:name version
	Version() schema.Version
}

// SettingsV1 is the current settings object.
// swagger:model v1
type SettingsV1 struct {
	// swagger:allOf v1
	SettingsInterface

	Settings v1.Settings `json:"settings"`
}

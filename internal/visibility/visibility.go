// Package visibility decides if the private avatar variant may be shown.
package visibility

import (
	"github.com/Decentr-net/veil/internal/entities"
)

// CanShowPrivate returns true if observer with relationship rel and tier may see the private variant.
// Self view never reaches the evaluator.
func CanShowPrivate(s entities.AvatarSettings, rel entities.Relationship, tier entities.Tier) bool {
	if !s.Enabled {
		return false
	}

	if rel != entities.RelationshipMatched {
		return false
	}

	switch s.Visibility {
	case entities.VisibilityMatchesOnly:
		return true
	case entities.VisibilityPremiumMatches:
		return tier.IsElevated()
	default:
		return false
	}
}

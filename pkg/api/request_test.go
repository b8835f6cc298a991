package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uint32p(v uint32) *uint32 {
	return &v
}

func TestSettings_IsValid(t *testing.T) {
	assert.True(t, Settings{Visibility: VisibilityMatchesOnly}.IsValid())
	assert.True(t, Settings{Visibility: VisibilityPremiumMatches, ExpiryDays: uint32p(1)}.IsValid())
	assert.False(t, Settings{Visibility: VisibilityMatchesOnly, ExpiryDays: uint32p(0)}.IsValid())
	assert.True(t, Settings{Visibility: VisibilityMatchesOnly, ExpiryDays: uint32p(MaxExpiryDays)}.IsValid())
	assert.False(t, Settings{Visibility: VisibilityMatchesOnly, ExpiryDays: uint32p(MaxExpiryDays + 1)}.IsValid())
	assert.False(t, Settings{Visibility: "public"}.IsValid())
	assert.False(t, Settings{}.IsValid())
}

func TestPermissionRequest_IsValid(t *testing.T) {
	assert.True(t, PermissionRequest{Observer: "bob", Action: ActionGrant}.IsValid())
	assert.True(t, PermissionRequest{Observer: "bob", Action: ActionRevoke}.IsValid())
	assert.False(t, PermissionRequest{Action: ActionGrant}.IsValid())
	assert.False(t, PermissionRequest{Observer: "bob", Action: "allow"}.IsValid())
}

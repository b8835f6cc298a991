package entities

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvatarRecord_IsExpired(t *testing.T) {
	days := uint32(2)
	uploaded := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	tt := []struct {
		name     string
		record   AvatarRecord
		now      time.Time
		expected bool
	}{
		{
			name:     "never expires",
			record:   AvatarRecord{UploadedAt: &uploaded},
			now:      uploaded.Add(1000 * time.Hour),
			expected: false,
		},
		{
			name:     "not uploaded",
			record:   AvatarRecord{Settings: AvatarSettings{ExpiryDays: &days}},
			now:      uploaded,
			expected: false,
		},
		{
			name:     "fresh",
			record:   AvatarRecord{UploadedAt: &uploaded, Settings: AvatarSettings{ExpiryDays: &days}},
			now:      uploaded.Add(47 * time.Hour),
			expected: false,
		},
		{
			name:     "exactly at expiry",
			record:   AvatarRecord{UploadedAt: &uploaded, Settings: AvatarSettings{ExpiryDays: &days}},
			now:      uploaded.Add(48 * time.Hour),
			expected: true,
		},
		{
			name:     "expired",
			record:   AvatarRecord{UploadedAt: &uploaded, Settings: AvatarSettings{ExpiryDays: &days}},
			now:      uploaded.Add(72 * time.Hour),
			expected: true,
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.IsExpired(tc.now))
		})
	}
}

func TestAvatarSettings_ExpiresAt(t *testing.T) {
	uploaded := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := AvatarSettings{}.ExpiresAt(uploaded)
	assert.False(t, ok)

	for _, v := range []uint32{1, 110000, MaxExpiryDays, 200000, math.MaxUint32} {
		days := v
		at, ok := AvatarSettings{ExpiryDays: &days}.ExpiresAt(uploaded)
		assert.True(t, ok)
		assert.True(t, at.After(uploaded), "days=%d at=%s", days, at)
		assert.Equal(t, uploaded.AddDate(0, 0, int(days)), at)

		r := AvatarRecord{UploadedAt: &uploaded, Settings: AvatarSettings{ExpiryDays: &days}}
		assert.False(t, r.IsExpired(uploaded.Add(time.Hour)), "days=%d", days)
	}
}

func TestMatchStatus_IsKnown(t *testing.T) {
	assert.True(t, MatchStatusPending.IsKnown())
	assert.True(t, MatchStatusActive.IsKnown())
	assert.True(t, MatchStatusBlocked.IsKnown())
	assert.False(t, MatchStatus(2).IsKnown())
	assert.False(t, MatchStatus(4).IsKnown())
}

func TestTier_IsElevated(t *testing.T) {
	assert.True(t, TierPremium.IsElevated())
	assert.False(t, TierBasic.IsElevated())
	assert.False(t, Tier("").IsElevated())
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/storage"
)

var (
	public = entities.AvatarResult{
		URL:       publicURL,
		Type:      entities.ResultTypePublic,
		HasAccess: true,
	}
	private = entities.AvatarResult{
		URL:         privateURL,
		Type:        entities.ResultTypePrivate,
		IsEncrypted: true,
		HasAccess:   true,
	}
	noAvatar = entities.AvatarResult{
		Type: entities.ResultTypePlaceholder,
	}
	expired = entities.AvatarResult{
		Type:  entities.ResultTypePlaceholder,
		Error: ExpiredMessage,
	}
)

func (e *env) expectPrivateURL() *gomock.Call {
	return e.blobs.EXPECT().GetURL(gomock.Any(), privateBlob, gomock.Any()).Return(privateURL, nil)
}

func TestService_ResolveAvatar_NoPrivateVariant(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.PublicBlobID = "p1"
		r.PrivateBlobID = ""
	}), nil)

	for _, observer := range []string{bob, "", alice, carol} {
		assert.Equal(t, noAvatar, e.s.ResolveAvatar(ctx, alice, observer), observer)
	}
}

func TestService_ResolveAvatar_NotFound(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)

	assert.Equal(t, noAvatar, e.s.ResolveAvatar(ctx, alice, bob))
	// metadata absence is cached too
	assert.Equal(t, noAvatar, e.s.ResolveAvatar(ctx, alice, carol))
	assert.False(t, noAvatar.HasAccess)
}

func TestService_ResolveAvatar_MetadataFailure(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, errTest)

	r := e.s.ResolveAvatar(ctx, alice, bob)
	assert.Equal(t, entities.ResultTypePlaceholder, r.Type)
	assert.False(t, r.HasAccess)
	assert.Equal(t, unavailableMessage, r.Error)

	assert.Equal(t, []entities.EventType{entities.EventAvatarView, entities.EventResolveFailure}, e.recorder.types())
	assert.Equal(t, codeMetadataUnavailable, e.recorder.events[1].Code)

	// failure isn't cached as absence
	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, ""))
}

func TestService_ResolveAvatar_Expired(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		uploaded := now.Add(-8 * 24 * time.Hour)
		r.UploadedAt = &uploaded
		r.Settings.ExpiryDays = days(7)
	}), nil)

	// relationship and settings don't matter
	for _, observer := range []string{alice, bob, ""} {
		assert.Equal(t, expired, e.s.ResolveAvatar(ctx, alice, observer), observer)
	}
}

func TestService_ResolveAvatar_NotExpiredYet(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.Settings.ExpiryDays = days(7)
	}), nil)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, ""))
}

func TestService_ResolveAvatar_Self(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		// self view bypasses settings
		r.Settings.Enabled = false
	}), nil)
	e.expectPrivateURL()

	assert.Equal(t, private, e.s.ResolveAvatar(ctx, alice, alice))
}

func TestService_ResolveAvatar_Self_PrivateURLFailure(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.blobs.EXPECT().GetURL(gomock.Any(), privateBlob, gomock.Any()).Return("", errTest)

	r := e.s.ResolveAvatar(ctx, alice, alice)
	assert.Equal(t, entities.ResultTypePublic, r.Type)
	assert.Equal(t, publicURL, r.URL)
	assert.True(t, r.HasAccess)
	assert.Equal(t, privateUnavailableMessage, r.Error)
}

func TestService_ResolveAvatar_Anonymous(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)

	r := e.s.ResolveAvatar(ctx, alice, "")
	assert.Equal(t, public, r)
	assert.NotEqual(t, entities.ResultTypePrivate, r.Type)
}

func TestService_ResolveAvatar_OneDirectionalInterest(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return([]*entities.InterestRecord{
		{SourceID: bob, TargetID: alice, MatchStatus: entities.MatchStatusActive},
	}, nil)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_Matched(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(true, nil)
	e.expectPrivateURL()

	assert.Equal(t, private, e.s.ResolveAvatar(ctx, alice, bob))
	// idempotence within ttl
	assert.Equal(t, private, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_Blocked(t *testing.T) {
	for _, rr := range [][]*entities.InterestRecord{
		interests(entities.MatchStatusActive, entities.MatchStatusBlocked),
		interests(entities.MatchStatusBlocked, entities.MatchStatusActive),
		interests(entities.MatchStatusBlocked, entities.MatchStatusBlocked),
	} {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(rr, nil)

		r := e.s.ResolveAvatar(ctx, alice, bob)
		assert.Equal(t, public, r)
		assert.NotEqual(t, entities.ResultTypePrivate, r.Type)
	}
}

func TestService_ResolveAvatar_Disabled(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.Settings.Enabled = false
	}), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_Premium(t *testing.T) {
	tt := []struct {
		name     string
		tier     entities.Tier
		tierErr  error
		expected entities.AvatarResult
	}{
		{name: "basic", tier: entities.TierBasic, expected: public},
		{name: "premium", tier: entities.TierPremium, expected: private},
		{name: "tier failure", tier: entities.TierPremium, tierErr: errTest, expected: public},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)

			e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
				r.Settings.Visibility = entities.VisibilityPremiumMatches
			}), nil)
			e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusPending), nil)
			e.idx.EXPECT().GetTier(gomock.Any(), bob).Return(tc.tier, tc.tierErr)

			if tc.expected.Type == entities.ResultTypePrivate {
				e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(true, nil)
				e.expectPrivateURL()
			}

			assert.Equal(t, tc.expected, e.s.ResolveAvatar(ctx, alice, bob))
		})
	}
}

func TestService_ResolveAvatar_AccessNotGranted(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(false, nil)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
	assert.Equal(t, []entities.EventType{entities.EventAvatarView}, e.recorder.types())
}

func TestService_ResolveAvatar_GatewayUnavailable(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(false, gateway.ErrUnavailable)

	// outage isn't exposed to the observer
	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))

	require.Len(t, e.recorder.events, 2)
	assert.Equal(t, entities.EventResolveFailure, e.recorder.events[1].Type)
	assert.Equal(t, codeGatewayUnavailable, e.recorder.events[1].Code)
}

func TestService_ResolveAvatar_GatewayTimeout(t *testing.T) {
	e := newEnv(t)
	e.s.cfg.GatewayTimeout = 10 * time.Millisecond

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).DoAndReturn(func(ctx context.Context, _, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_PrivateURLFailure(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(true, nil)
	e.blobs.EXPECT().GetURL(gomock.Any(), privateBlob, gomock.Any()).Return("", errTest)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_RelationshipFailure(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(nil, errTest)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
	require.Len(t, e.recorder.events, 2)
	assert.Equal(t, codeRelationshipUnavailable, e.recorder.events[1].Code)
}

func TestService_ResolveAvatar_TemporaryPolicy(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.PolicyKind = entities.PolicyKindTemporary
		r.KeyID = ""
	}), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.expectPrivateURL()

	assert.Equal(t, entities.AvatarResult{
		URL:       privateURL,
		Type:      entities.ResultTypePrivate,
		HasAccess: true,
	}, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_UnknownMatchStatus(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatus(2), entities.MatchStatus(2)), nil)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

func TestService_ResolveAvatar_RevokeInvalidates(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil).Times(2)
	e.expectPrivateURL()

	gomock.InOrder(
		e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(true, nil),
		e.gw.EXPECT().VerifyAccess(gomock.Any(), "policy", bob).Return(false, nil),
	)
	e.producer.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(nil)

	require.Equal(t, private, e.s.ResolveAvatar(ctx, alice, bob))

	e.s.UpdatePermission(ctx, alice, bob, entities.PermissionRevoke)

	assert.Equal(t, public, e.s.ResolveAvatar(ctx, alice, bob))
}

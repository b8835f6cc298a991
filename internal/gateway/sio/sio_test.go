package sio

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/storage"
	"github.com/Decentr-net/veil/internal/storage/mock"
)

var (
	ctx     = context.Background()
	errTest = errors.New("test")
)

var key = [32]byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	0xf0, 0xe0, 0xd0, 0xc0, 0xb0, 0xa0, 0x90, 0x80, 0x70, 0x60, 0x50, 0x40, 0x30, 0x20, 0x10, 0x00,
}

var spec = entities.PolicySpec{
	Owner:     "owner",
	Rules:     []entities.Rule{gateway.WalletRule("match")},
	Threshold: 1,
}

func newTestGateway(t *testing.T) (*impl, *mock.MockPolicyStorage, *mock.MockTierStorage) {
	ctrl := gomock.NewController(t)

	ps := mock.NewMockPolicyStorage(ctrl)
	ts := mock.NewMockTierStorage(ctrl)

	return New(key, ps, ts).(*impl), ps, ts // nolint:errcheck
}

func TestImpl_Encrypt_Decrypt(t *testing.T) {
	g, ps, ts := newTestGateway(t)

	exp := make([]byte, 1<<20)
	_, err := rand.Read(exp)
	require.NoError(t, err)

	var policy *entities.AccessPolicy
	ps.EXPECT().CreatePolicy(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.AccessPolicy) error {
		policy = p
		return nil
	})

	sealed, err := g.Encrypt(ctx, exp, spec)
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, sealed.PolicyID, policy.ID)
	assert.Equal(t, entities.PolicyKindReal, policy.Kind)
	assert.Equal(t, "owner", policy.Owner)
	assert.True(t, policy.Active)
	assert.NotEqual(t, exp, sealed.Data)

	ps.EXPECT().GetPolicy(gomock.Any(), sealed.PolicyID).Return(policy, nil).Times(3)
	ts.EXPECT().GetTier(gomock.Any(), gomock.Any()).Return(entities.TierBasic, nil).Times(3)

	act, err := g.Decrypt(ctx, sealed.Data, sealed.KeyID, sealed.PolicyID, "match")
	require.NoError(t, err)
	assert.Equal(t, exp, act)

	_, err = g.Decrypt(ctx, sealed.Data, sealed.KeyID, sealed.PolicyID, "stranger")
	assert.ErrorIs(t, err, gateway.ErrAccessDenied)

	_, err = g.Decrypt(ctx, sealed.Data, "another key", sealed.PolicyID, "owner")
	assert.ErrorIs(t, err, gateway.ErrDecryptionFailure)
}

func TestImpl_Encrypt_Invalid(t *testing.T) {
	g, _, _ := newTestGateway(t)

	_, err := g.Encrypt(ctx, nil, spec)
	assert.ErrorIs(t, err, gateway.ErrEncryptionFailure)

	_, err = g.Encrypt(ctx, make([]byte, gateway.MaxPayloadSize+1), spec)
	assert.ErrorIs(t, err, gateway.ErrEncryptionFailure)
}

func TestImpl_Encrypt_PolicyStorageFailure(t *testing.T) {
	g, ps, _ := newTestGateway(t)

	ps.EXPECT().CreatePolicy(gomock.Any(), gomock.Any()).Return(errTest)

	_, err := g.Encrypt(ctx, []byte("avatar"), spec)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestImpl_VerifyAccess(t *testing.T) {
	policy := &entities.AccessPolicy{
		ID:        "policy",
		Owner:     "owner",
		Rules:     []entities.Rule{gateway.WalletRule("match"), gateway.SubscriptionRule(entities.TierPremium)},
		Threshold: 2,
		Active:    true,
	}

	t.Run("granted", func(t *testing.T) {
		g, ps, ts := newTestGateway(t)
		ps.EXPECT().GetPolicy(gomock.Any(), "policy").Return(policy, nil)
		ts.EXPECT().GetTier(gomock.Any(), "match").Return(entities.TierPremium, nil)

		ok, err := g.VerifyAccess(ctx, "policy", "match")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tier failure falls back to basic", func(t *testing.T) {
		g, ps, ts := newTestGateway(t)
		ps.EXPECT().GetPolicy(gomock.Any(), "policy").Return(policy, nil)
		ts.EXPECT().GetTier(gomock.Any(), "match").Return(entities.Tier(""), errTest)

		ok, err := g.VerifyAccess(ctx, "policy", "match")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown policy", func(t *testing.T) {
		g, ps, _ := newTestGateway(t)
		ps.EXPECT().GetPolicy(gomock.Any(), "policy").Return(nil, storage.ErrNotFound)

		ok, err := g.VerifyAccess(ctx, "policy", "match")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("storage failure", func(t *testing.T) {
		g, ps, _ := newTestGateway(t)
		ps.EXPECT().GetPolicy(gomock.Any(), "policy").Return(nil, errTest)

		ok, err := g.VerifyAccess(ctx, "policy", "match")
		assert.ErrorIs(t, err, gateway.ErrUnavailable)
		assert.False(t, ok)
	})
}

func TestImpl_Grant_Revoke_Deactivate(t *testing.T) {
	g, ps, _ := newTestGateway(t)

	ps.EXPECT().AddRule(gomock.Any(), "policy", gateway.WalletRule("bob")).Return(nil)
	ps.EXPECT().RemoveRule(gomock.Any(), "policy", gateway.WalletRule("bob")).Return(nil)
	ps.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)

	require.NoError(t, g.GrantAccess(ctx, "policy", "bob"))
	require.NoError(t, g.RevokeAccess(ctx, "policy", "bob"))
	require.NoError(t, g.DeactivatePolicy(ctx, "policy"))
}

func TestImpl_Grant_Revoke_Deactivate_StorageFailure(t *testing.T) {
	tt := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{
			name:        "connection refused",
			err:         errTest,
			unavailable: true,
		},
		{
			name:        "policy not found",
			err:         storage.ErrNotFound,
			unavailable: false,
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			g, ps, _ := newTestGateway(t)

			ps.EXPECT().AddRule(gomock.Any(), "policy", gateway.WalletRule("bob")).Return(tc.err)
			ps.EXPECT().RemoveRule(gomock.Any(), "policy", gateway.WalletRule("bob")).Return(tc.err)
			ps.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(tc.err)

			for _, err := range []error{
				g.GrantAccess(ctx, "policy", "bob"),
				g.RevokeAccess(ctx, "policy", "bob"),
				g.DeactivatePolicy(ctx, "policy"),
			} {
				require.Error(t, err)
				assert.Equal(t, tc.unavailable, errors.Is(err, gateway.ErrUnavailable), err.Error())
				assert.Equal(t, !tc.unavailable, errors.Is(err, storage.ErrNotFound), err.Error())
			}
		})
	}
}

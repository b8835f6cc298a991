package service

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/storage"
)

func (e *env) expectRead(data string) *gomock.Call {
	return e.blobs.EXPECT().Read(gomock.Any(), privateBlob).
		Return(ioutil.NopCloser(bytes.NewReader([]byte(data))), nil)
}

func TestService_ReceivePrivate_Owner(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.Settings.AllowDownload = false
		r.Settings.Enabled = false
	}), nil)
	e.expectRead("sealed")
	e.gw.EXPECT().Decrypt(gomock.Any(), []byte("sealed"), "key", "policy", alice).Return([]byte("plain"), nil)

	b, err := e.s.ReceivePrivate(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))
}

func TestService_ReceivePrivate_Matched(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusPending), nil)
	e.expectRead("sealed")
	e.gw.EXPECT().Decrypt(gomock.Any(), []byte("sealed"), "key", "policy", bob).Return([]byte("plain"), nil)

	b, err := e.s.ReceivePrivate(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))
}

func TestService_ReceivePrivate_StorageDeadline(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).
		DoAndReturn(func(ctx context.Context, _, _ string) ([]*entities.InterestRecord, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return interests(entities.MatchStatusActive, entities.MatchStatusPending), nil
		})
	e.blobs.EXPECT().Read(gomock.Any(), privateBlob).
		DoAndReturn(func(ctx context.Context, _ string) (io.ReadCloser, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return ioutil.NopCloser(bytes.NewReader([]byte("sealed"))), nil
		})
	e.gw.EXPECT().Decrypt(gomock.Any(), []byte("sealed"), "key", "policy", bob).Return([]byte("plain"), nil)

	b, err := e.s.ReceivePrivate(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))
}

func TestService_ReceivePrivate_Premium(t *testing.T) {
	premium := func(r *entities.AvatarRecord) {
		r.Settings.Visibility = entities.VisibilityPremiumMatches
	}

	t.Run("basic", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(premium), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
		e.idx.EXPECT().GetTier(gomock.Any(), bob).Return(entities.TierBasic, nil)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("premium", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(premium), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
		e.idx.EXPECT().GetTier(gomock.Any(), bob).Return(entities.TierPremium, nil)
		e.expectRead("sealed")
		e.gw.EXPECT().Decrypt(gomock.Any(), []byte("sealed"), "key", "policy", bob).Return([]byte("plain"), nil)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.NoError(t, err)
	})
}

func TestService_ReceivePrivate_Denied(t *testing.T) {
	t.Run("download is not allowed", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
			r.Settings.AllowDownload = false
		}), nil)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not matched", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusPending, entities.MatchStatusPending), nil)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("relationship failure", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(nil, errTest)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("gateway denies", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
		e.expectRead("sealed")
		e.gw.EXPECT().Decrypt(gomock.Any(), []byte("sealed"), "key", "policy", bob).Return(nil, gateway.ErrAccessDenied)

		_, err := e.s.ReceivePrivate(ctx, alice, bob)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_ReceivePrivate_TemporaryPolicy(t *testing.T) {
	e := newEnv(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(func(r *entities.AvatarRecord) {
		r.PolicyKind = entities.PolicyKindTemporary
		r.KeyID = ""
	}), nil)
	e.idx.EXPECT().GetInterests(gomock.Any(), bob, alice).Return(interests(entities.MatchStatusActive, entities.MatchStatusActive), nil)
	e.expectRead("plain")

	b, err := e.s.ReceivePrivate(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))
}

func TestService_ReceivePrivate_NotFound(t *testing.T) {
	tt := []struct {
		name string
		rec  *entities.AvatarRecord
	}{
		{name: "no avatar"},
		{name: "incomplete", rec: record(func(r *entities.AvatarRecord) { r.PrivateBlobID = "" })},
		{name: "expired", rec: record(func(r *entities.AvatarRecord) { r.Settings.ExpiryDays = days(1) })},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)

			if tc.rec == nil {
				e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
			} else {
				e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(tc.rec, nil)
			}

			_, err := e.s.ReceivePrivate(ctx, alice, alice)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestService_ReceivePrivate_Errors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.s.ReceivePrivate(ctx, alice, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("metadata", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, errTest)

		_, err := e.s.ReceivePrivate(ctx, alice, alice)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("blob is missing", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.blobs.EXPECT().Read(gomock.Any(), privateBlob).Return(nil, storage.ErrNotFound)

		_, err := e.s.ReceivePrivate(ctx, alice, alice)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blob read", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.blobs.EXPECT().Read(gomock.Any(), privateBlob).Return(nil, errTest)

		_, err := e.s.ReceivePrivate(ctx, alice, alice)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.expectRead("sealed")
		e.gw.EXPECT().Decrypt(gomock.Any(), gomock.Any(), "key", "policy", alice).Return(nil, gateway.ErrUnavailable)

		_, err := e.s.ReceivePrivate(ctx, alice, alice)
		assert.ErrorIs(t, err, gateway.ErrUnavailable)
	})
}

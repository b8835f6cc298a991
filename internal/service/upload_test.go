package service

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/storage"
)

func settings() entities.AvatarSettings {
	return entities.AvatarSettings{
		Enabled:       true,
		Visibility:    entities.VisibilityPremiumMatches,
		AllowDownload: true,
		ExpiryDays:    days(7),
	}
}

func TestService_RecordUpload_Validation(t *testing.T) {
	e := newEnv(t)
	e.s.cfg.MaxImageSize = 1024

	img := pngImage(t)

	tt := []struct {
		name string
		p    UploadParams
	}{
		{
			name: "empty subject",
			p:    UploadParams{Public: img, Private: img, Settings: settings()},
		},
		{
			name: "invalid visibility",
			p: UploadParams{SubjectID: alice, Public: img, Private: img, Settings: entities.AvatarSettings{
				Enabled:    true,
				Visibility: "everyone",
			}},
		},
		{
			name: "zero expiry",
			p: UploadParams{SubjectID: alice, Public: img, Private: img, Settings: entities.AvatarSettings{
				Enabled:    true,
				Visibility: entities.VisibilityMatchesOnly,
				ExpiryDays: days(0),
			}},
		},
		{
			name: "too long expiry",
			p: UploadParams{SubjectID: alice, Public: img, Private: img, Settings: entities.AvatarSettings{
				Enabled:    true,
				Visibility: entities.VisibilityMatchesOnly,
				ExpiryDays: days(entities.MaxExpiryDays + 1),
			}},
		},
		{
			name: "public is not an image",
			p:    UploadParams{SubjectID: alice, Public: []byte("text"), Private: img, Settings: settings()},
		},
		{
			name: "empty private",
			p:    UploadParams{SubjectID: alice, Public: img, Settings: settings()},
		},
		{
			name: "too big",
			p:    UploadParams{SubjectID: alice, Public: img, Private: append(img, make([]byte, 1024)...), Settings: settings()},
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.s.RecordUpload(ctx, tc.p)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func isPublicPath(path string) bool {
	return strings.HasPrefix(path, alice+"/") && strings.HasSuffix(path, "/public")
}

func TestService_RecordUpload(t *testing.T) {
	e := newEnv(t)
	img := pngImage(t)

	e.cache.PutResult(alice, bob, entities.AvatarResult{Type: entities.ResultTypePublic}, cache.TTLPublic)
	e.cache.PutMeta(alice, nil)
	e.cache.PutResult(bob, alice, entities.AvatarResult{Type: entities.ResultTypePublic}, cache.TTLPublic)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
	e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return([]string{bob, carol}, nil)
	e.gw.EXPECT().Encrypt(gomock.Any(), img, entities.PolicySpec{
		Owner: alice,
		Rules: []entities.Rule{
			gateway.WalletRule(bob),
			gateway.WalletRule(carol),
			gateway.SubscriptionRule(entities.TierPremium),
			gateway.TimeRule(now.Add(7 * 24 * time.Hour)),
		},
		Threshold: 3,
	}).Return(&gateway.Sealed{Data: []byte("sealed"), PolicyID: "policy", KeyID: "key"}, nil)

	var publicPath, privatePath string
	e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), int64(len(img)), gomock.Any(), "image/png").
		DoAndReturn(func(_ context.Context, _ io.Reader, _ int64, path, _ string) error {
			publicPath = path
			return nil
		})
	e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), int64(6), gomock.Any(), sealedContentType).
		DoAndReturn(func(_ context.Context, r io.Reader, _ int64, path, _ string) error {
			b, err := ioutil.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "sealed", string(b))
			privatePath = path
			return nil
		})

	var saved *entities.AvatarRecord
	e.idx.EXPECT().SetAvatar(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *entities.AvatarRecord) error {
		saved = r
		return nil
	})

	rec, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
	require.NoError(t, err)

	assert.True(t, isPublicPath(publicPath), publicPath)
	assert.Equal(t, strings.TrimSuffix(publicPath, "/public")+"/private", privatePath)

	assert.Equal(t, &entities.AvatarRecord{
		SubjectID:     alice,
		PublicBlobID:  publicPath,
		PrivateBlobID: privatePath,
		PolicyID:      "policy",
		PolicyKind:    entities.PolicyKindReal,
		KeyID:         "key",
		UploadedAt:    &now,
		Settings:      settings(),
	}, rec)
	assert.Equal(t, rec, saved)

	_, ok := e.cache.GetResult(alice, bob)
	assert.False(t, ok)
	_, ok = e.cache.GetMeta(alice)
	assert.False(t, ok)
	_, ok = e.cache.GetResult(bob, alice)
	assert.True(t, ok)

	assert.Equal(t, []entities.EventType{entities.EventAvatarUpload}, e.recorder.types())
}

func TestService_RecordUpload_Reupload(t *testing.T) {
	e := newEnv(t)
	img := pngImage(t)

	old := record()

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(old, nil)
	e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return(nil, errTest)
	e.gw.EXPECT().Encrypt(gomock.Any(), img, entities.PolicySpec{Owner: alice, Threshold: 1}).
		Return(&gateway.Sealed{Data: []byte("sealed"), PolicyID: "policy2", KeyID: "key2"}, nil)
	e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	e.idx.EXPECT().SetAvatar(gomock.Any(), gomock.Any()).Return(nil)

	e.gw.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(errTest)
	e.blobs.EXPECT().Delete(gomock.Any(), publicBlob).Return(errTest)
	e.blobs.EXPECT().Delete(gomock.Any(), privateBlob).Return(nil)

	rec, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: entities.AvatarSettings{
		Enabled:    true,
		Visibility: entities.VisibilityMatchesOnly,
	}})
	require.NoError(t, err)
	assert.Equal(t, "policy2", rec.PolicyID)
	assert.NotEqual(t, publicBlob, rec.PublicBlobID)
}

func TestService_RecordUpload_TemporaryPolicy(t *testing.T) {
	e := newEnv(t, withTemporaryPolicies)
	img := pngImage(t)

	e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
	e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return([]string{bob}, nil)
	e.gw.EXPECT().Encrypt(gomock.Any(), img, gomock.Any()).Return(nil, fmt.Errorf("%w: timeout", gateway.ErrUnavailable))

	var policy *entities.AccessPolicy
	e.idx.EXPECT().CreatePolicy(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entities.AccessPolicy) error {
		policy = p
		return nil
	})

	e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), int64(len(img)), gomock.Any(), "image/png").Return(nil)
	e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), int64(len(img)), gomock.Any(), sealedContentType).Return(nil)
	e.idx.EXPECT().SetAvatar(gomock.Any(), gomock.Any()).Return(nil)

	rec, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
	require.NoError(t, err)

	require.NotNil(t, policy)
	assert.Equal(t, entities.PolicyKindTemporary, policy.Kind)
	assert.Equal(t, alice, policy.Owner)
	assert.True(t, policy.Active)
	assert.EqualValues(t, 3, policy.Threshold)

	assert.Equal(t, policy.ID, rec.PolicyID)
	assert.Equal(t, entities.PolicyKindTemporary, rec.PolicyKind)
	assert.Empty(t, rec.KeyID)
}

func TestService_RecordUpload_EncryptionFailure(t *testing.T) {
	tt := []struct {
		name string
		err  error
	}{
		{name: "unavailable", err: gateway.ErrUnavailable},
		{name: "failure", err: gateway.ErrEncryptionFailure},
		{name: "unknown", err: errTest},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			img := pngImage(t)

			e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
			e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return(nil, nil)
			e.gw.EXPECT().Encrypt(gomock.Any(), img, gomock.Any()).Return(nil, tc.err)

			_, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
			assert.ErrorIs(t, err, ErrEncryptionFailure)
		})
	}
}

func TestService_RecordUpload_StorageFailure(t *testing.T) {
	img := pngImage(t)
	sealed := &gateway.Sealed{Data: []byte("sealed"), PolicyID: "policy", KeyID: "key"}

	t.Run("get avatar", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, errTest)

		_, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("public write", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
		e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return(nil, nil)
		e.gw.EXPECT().Encrypt(gomock.Any(), img, gomock.Any()).Return(sealed, nil)
		e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "image/png").Return(errTest)
		e.gw.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)

		_, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("private write", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
		e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return(nil, nil)
		e.gw.EXPECT().Encrypt(gomock.Any(), img, gomock.Any()).Return(sealed, nil)
		e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "image/png").Return(nil)
		e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), sealedContentType).Return(errTest)
		e.gw.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)
		e.blobs.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, path string) error {
			assert.True(t, isPublicPath(path), path)
			return nil
		})

		_, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("save", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
		e.idx.EXPECT().ListMatches(gomock.Any(), alice).Return(nil, nil)
		e.gw.EXPECT().Encrypt(gomock.Any(), img, gomock.Any()).Return(sealed, nil)
		e.blobs.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		e.idx.EXPECT().SetAvatar(gomock.Any(), gomock.Any()).Return(errTest)
		e.gw.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)
		e.blobs.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		_, err := e.s.RecordUpload(ctx, UploadParams{SubjectID: alice, Public: img, Private: img, Settings: settings()})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestService_DeleteAvatar(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, storage.ErrNotFound)
		assert.ErrorIs(t, e.s.DeleteAvatar(ctx, alice), ErrNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(nil, errTest)
		assert.ErrorIs(t, e.s.DeleteAvatar(ctx, alice), ErrStorageFailure)
	})

	t.Run("real policy", func(t *testing.T) {
		e := newEnv(t)

		e.cache.PutMeta(alice, record())
		e.cache.PutResult(alice, bob, public, cache.TTLPublic)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().DeleteAvatar(gomock.Any(), alice).Return(nil)
		e.gw.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)
		e.blobs.EXPECT().Delete(gomock.Any(), publicBlob).Return(errTest)
		e.blobs.EXPECT().Delete(gomock.Any(), privateBlob).Return(nil)

		require.NoError(t, e.s.DeleteAvatar(ctx, alice))

		_, ok := e.cache.GetMeta(alice)
		assert.False(t, ok)
		_, ok = e.cache.GetResult(alice, bob)
		assert.False(t, ok)

		assert.Equal(t, []entities.EventType{entities.EventAvatarDelete}, e.recorder.types())
	})

	t.Run("temporary policy", func(t *testing.T) {
		e := newEnv(t)

		rec := record(func(r *entities.AvatarRecord) {
			r.PolicyKind = entities.PolicyKindTemporary
		})

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(rec, nil)
		e.idx.EXPECT().DeleteAvatar(gomock.Any(), alice).Return(nil)
		e.idx.EXPECT().DeactivatePolicy(gomock.Any(), "policy").Return(nil)
		e.blobs.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		require.NoError(t, e.s.DeleteAvatar(ctx, alice))
	})

	t.Run("concurrently deleted", func(t *testing.T) {
		e := newEnv(t)

		e.idx.EXPECT().GetAvatar(gomock.Any(), alice).Return(record(), nil)
		e.idx.EXPECT().DeleteAvatar(gomock.Any(), alice).Return(storage.ErrNotFound)

		assert.ErrorIs(t, e.s.DeleteAvatar(ctx, alice), ErrNotFound)
	})
}

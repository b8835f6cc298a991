package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/schema"
	"github.com/Decentr-net/veil/internal/storage"
)

const sealedContentType = "application/octet-stream"

// RecordUpload ...
func (s *service) RecordUpload(ctx context.Context, p UploadParams) (*entities.AvatarRecord, error) {
	if p.SubjectID == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrValidation)
	}

	if err := schema.Validate(p.Settings); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if err := s.validateImage(p.Public); err != nil {
		return nil, fmt.Errorf("%w: public variant: %s", ErrValidation, err.Error())
	}

	if err := s.validateImage(p.Private); err != nil {
		return nil, fmt.Errorf("%w: private variant: %s", ErrValidation, err.Error())
	}

	l := log.WithField("subject", p.SubjectID)

	old, err := s.idx.GetAvatar(ctx, p.SubjectID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: failed to get avatar: %s", ErrStorageFailure, err.Error())
	}

	now := s.now().UTC()

	rec := entities.AvatarRecord{
		SubjectID:  p.SubjectID,
		UploadedAt: &now,
		Settings:   p.Settings,
	}

	payload, err := s.seal(ctx, l, &rec, p.Private)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s/%s", p.SubjectID, uuid.New().String())
	rec.PublicBlobID, rec.PrivateBlobID = base+"/public", base+"/private"

	if err := s.blobs.Write(ctx, bytes.NewReader(p.Public), int64(len(p.Public)), rec.PublicBlobID, http.DetectContentType(p.Public)); err != nil {
		s.deactivate(ctx, l, &rec)
		return nil, fmt.Errorf("%w: failed to write public variant: %s", ErrStorageFailure, err.Error())
	}

	if err := s.blobs.Write(ctx, bytes.NewReader(payload), int64(len(payload)), rec.PrivateBlobID, sealedContentType); err != nil {
		s.deactivate(ctx, l, &rec)
		s.deleteBlobs(ctx, l, rec.PublicBlobID)
		return nil, fmt.Errorf("%w: failed to write private variant: %s", ErrStorageFailure, err.Error())
	}

	if err := s.idx.SetAvatar(ctx, &rec); err != nil {
		s.deactivate(ctx, l, &rec)
		s.deleteBlobs(ctx, l, rec.PublicBlobID, rec.PrivateBlobID)
		return nil, fmt.Errorf("%w: failed to save avatar: %s", ErrStorageFailure, err.Error())
	}

	s.cache.InvalidateSubject(ctx, p.SubjectID)

	if old != nil {
		s.cdn.Forget(old.PublicBlobID, old.PrivateBlobID)
		s.deactivate(ctx, l, old)
		s.deleteBlobs(ctx, l, old.PublicBlobID, old.PrivateBlobID)
	}

	s.recorder.Record(entities.Event{
		Type:      entities.EventAvatarUpload,
		SubjectID: p.SubjectID,
	})

	l.WithField("policy", rec.PolicyID).Info("avatar uploaded")

	return &rec, nil
}

// seal encrypts private variant under a new policy and fills policy fields of rec.
// With temporary policies allowed, gateway outage results in a temporary policy and plain payload.
func (s *service) seal(ctx context.Context, l *logrus.Entry, rec *entities.AvatarRecord, data []byte) ([]byte, error) {
	spec := s.policySpec(ctx, l, rec)

	gctx, cancel := withTimeout(ctx, s.cfg.GatewayTimeout)
	sealed, err := s.gw.Encrypt(gctx, data, spec)
	cancel()

	switch {
	case err == nil:
		rec.PolicyID, rec.PolicyKind, rec.KeyID = sealed.PolicyID, entities.PolicyKindReal, sealed.KeyID
		return sealed.Data, nil
	case errors.Is(err, gateway.ErrUnavailable) && s.cfg.AllowTemporaryPolicies:
		l.WithError(err).Warn("gateway is unavailable, use temporary policy")
	case errors.Is(err, gateway.ErrEncryptionFailure):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %s", gateway.ErrEncryptionFailure, err.Error())
	}

	p := entities.AccessPolicy{
		ID:        uuid.New().String(),
		Kind:      entities.PolicyKindTemporary,
		Owner:     spec.Owner,
		Rules:     spec.Rules,
		Threshold: spec.Threshold,
		Active:    true,
	}

	if err := s.idx.CreatePolicy(ctx, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to create temporary policy: %s", ErrStorageFailure, err.Error())
	}

	rec.PolicyID, rec.PolicyKind, rec.KeyID = p.ID, entities.PolicyKindTemporary, ""

	return data, nil
}

// policySpec returns policy entitling the subject's current matches.
// Premium visibility adds subscription rule and expiry adds time rule, each raising the threshold.
func (s *service) policySpec(ctx context.Context, l *logrus.Entry, rec *entities.AvatarRecord) entities.PolicySpec {
	spec := entities.PolicySpec{
		Owner:     rec.SubjectID,
		Threshold: 1,
	}

	sctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	matches, err := s.idx.ListMatches(sctx, rec.SubjectID)
	cancel()
	if err != nil {
		l.WithError(err).Error("failed to list matches, policy is created without them")
	}

	for _, v := range matches {
		spec.Rules = append(spec.Rules, gateway.WalletRule(v))
	}

	if rec.Settings.Visibility == entities.VisibilityPremiumMatches {
		spec.Rules = append(spec.Rules, gateway.SubscriptionRule(entities.TierPremium))
		spec.Threshold++
	}

	if deadline, ok := rec.Settings.ExpiresAt(*rec.UploadedAt); ok {
		spec.Rules = append(spec.Rules, gateway.TimeRule(deadline))
		spec.Threshold++
	}

	return spec
}

func (s *service) validateImage(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty image") // nolint:goerr113
	}

	if len(b) > s.cfg.MaxImageSize {
		return fmt.Errorf("image is bigger than %d bytes", s.cfg.MaxImageSize) // nolint:goerr113
	}

	if _, err := imaging.Decode(bytes.NewReader(b)); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}

	return nil
}

// deactivate makes policy of rec unsatisfiable. Failures are logged.
func (s *service) deactivate(ctx context.Context, l *logrus.Entry, rec *entities.AvatarRecord) {
	if rec.PolicyID == "" {
		return
	}

	var err error
	if rec.PolicyKind == entities.PolicyKindTemporary {
		err = s.idx.DeactivatePolicy(ctx, rec.PolicyID)
	} else {
		gctx, cancel := withTimeout(ctx, s.cfg.GatewayTimeout)
		err = s.gw.DeactivatePolicy(gctx, rec.PolicyID)
		cancel()
	}

	if err != nil {
		l.WithError(err).WithField("policy", rec.PolicyID).Error("failed to deactivate policy")
	}
}

// deleteBlobs removes blobs. Failures are logged.
func (s *service) deleteBlobs(ctx context.Context, l *logrus.Entry, ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}

		if err := s.blobs.Delete(ctx, id); err != nil {
			l.WithError(err).WithField("blob", id).Error("failed to delete blob")
		}
	}
}

// DeleteAvatar ...
func (s *service) DeleteAvatar(ctx context.Context, subject string) error {
	l := log.WithField("subject", subject)

	rec, err := s.idx.GetAvatar(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: failed to get avatar: %s", ErrStorageFailure, err.Error())
	}

	if err := s.idx.DeleteAvatar(ctx, subject); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: failed to delete avatar: %s", ErrStorageFailure, err.Error())
	}

	s.cache.InvalidateSubject(ctx, subject)
	s.cdn.Forget(rec.PublicBlobID, rec.PrivateBlobID)

	s.deactivate(ctx, l, rec)
	s.deleteBlobs(ctx, l, rec.PublicBlobID, rec.PrivateBlobID)

	s.recorder.Record(entities.Event{
		Type:      entities.EventAvatarDelete,
		SubjectID: subject,
	})

	l.Info("avatar deleted")

	return nil
}

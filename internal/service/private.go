package service

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/storage"
	"github.com/Decentr-net/veil/internal/visibility"
)

// ReceivePrivate ...
func (s *service) ReceivePrivate(ctx context.Context, subject, observer string) ([]byte, error) {
	if subject == "" || observer == "" {
		return nil, fmt.Errorf("%w: empty subject or observer", ErrValidation)
	}

	l := log.WithFields(logrus.Fields{
		"subject":  subject,
		"observer": observer,
	})

	rec, err := s.getMeta(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get avatar: %s", ErrStorageFailure, err.Error())
	}

	if rec == nil || !rec.IsComplete() || rec.IsExpired(s.now()) {
		return nil, ErrNotFound
	}

	if observer != subject {
		if !rec.Settings.AllowDownload {
			return nil, ErrAccessDenied
		}

		rctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
		rel, err := s.rel.Classify(rctx, observer, subject)
		cancel()

		if err != nil {
			l.WithError(err).Error("failed to classify relationship")
		}

		tier := entities.TierBasic
		if rel == entities.RelationshipMatched && rec.Settings.Visibility == entities.VisibilityPremiumMatches {
			tier = s.getTier(ctx, l, observer)
		}

		if !visibility.CanShowPrivate(rec.Settings, rel, tier) {
			return nil, ErrAccessDenied
		}
	}

	data, err := s.readBlob(ctx, rec.PrivateBlobID)
	if err != nil {
		return nil, err
	}

	if rec.PolicyKind == entities.PolicyKindTemporary {
		return data, nil
	}

	ctx, cancel := withTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	out, err := s.gw.Decrypt(ctx, data, rec.KeyID, rec.PolicyID, observer)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return out, nil
}

func (s *service) readBlob(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	r, err := s.blobs.Read(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to read blob: %s", ErrStorageFailure, err.Error())
	}
	defer r.Close() // nolint

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read blob: %s", ErrStorageFailure, err.Error())
	}

	return data, nil
}

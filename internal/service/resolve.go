package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/visibility"
)

// failure codes are reported to telemetry and metrics only.
const (
	codeMetadataUnavailable     = "metadata_unavailable"
	codeRelationshipUnavailable = "relationship_unavailable"
	codeGatewayUnavailable      = "gateway_unavailable"
	codePrivateURLFailure       = "private_url_failure"
	codePublicURLFailure        = "public_url_failure"
	codeExpired                 = "expired"
)

const (
	unavailableMessage        = "Avatar is temporarily unavailable"
	privateUnavailableMessage = "Private avatar is temporarily unavailable"
)

type resolution struct {
	result entities.AvatarResult
	ttl    cache.TTLClass
	code   string
}

func placeholder(ttl cache.TTLClass, msg, code string) resolution {
	return resolution{
		result: entities.AvatarResult{Type: entities.ResultTypePlaceholder, Error: msg},
		ttl:    ttl,
		code:   code,
	}
}

// ResolveAvatar ...
func (s *service) ResolveAvatar(ctx context.Context, subject, observer string) entities.AvatarResult {
	if r, ok := s.cache.GetResult(subject, observer); ok {
		s.metrics.CacheLookup("result", true)
		return r
	}
	s.metrics.CacheLookup("result", false)

	res := s.resolve(ctx, subject, observer)

	s.cache.PutResult(subject, observer, res.result, res.ttl)

	s.metrics.Resolved(string(res.result.Type))
	s.recorder.Record(entities.Event{
		Type:       entities.EventAvatarView,
		SubjectID:  subject,
		ObserverID: observer,
		Result:     res.result.Type,
	})

	if res.code != "" {
		s.metrics.ResolveFailed(res.code)
		s.recorder.Record(entities.Event{
			Type:       entities.EventResolveFailure,
			SubjectID:  subject,
			ObserverID: observer,
			Result:     res.result.Type,
			Code:       res.code,
		})
	}

	return res.result
}

func (s *service) resolve(ctx context.Context, subject, observer string) resolution {
	l := log.WithFields(logrus.Fields{
		"subject":  subject,
		"observer": observer,
	})

	rec, err := s.getMeta(ctx, subject)
	if err != nil {
		l.WithError(err).Error("failed to get avatar")
		return placeholder(cache.TTLShort, unavailableMessage, codeMetadataUnavailable)
	}

	// avatar without private variant is an unfinished upload
	if rec == nil || !rec.IsComplete() {
		return placeholder(cache.TTLDefault, "", "")
	}

	if rec.IsExpired(s.now()) {
		return placeholder(cache.TTLShort, ExpiredMessage, codeExpired)
	}

	if observer == subject {
		return s.resolveSelf(ctx, l, rec)
	}

	if observer == "" {
		return s.public(ctx, l, rec, cache.TTLPublic, "")
	}

	rctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	rel, err := s.rel.Classify(rctx, observer, subject)
	cancel()

	code := ""
	if err != nil {
		l.WithError(err).Error("failed to classify relationship")
		code = codeRelationshipUnavailable
	}

	tier := entities.TierBasic
	if rel == entities.RelationshipMatched && rec.Settings.Visibility == entities.VisibilityPremiumMatches {
		tier = s.getTier(ctx, l, observer)
	}

	l = l.WithField("relationship", rel.String())

	if !visibility.CanShowPrivate(rec.Settings, rel, tier) {
		ttl := cache.TTLPublic
		if code != "" {
			ttl = cache.TTLShort
		}
		return s.public(ctx, l, rec, ttl, code)
	}

	if rec.PolicyKind != entities.PolicyKindTemporary {
		gctx, cancel := withTimeout(ctx, s.cfg.GatewayTimeout)
		granted, err := s.gw.VerifyAccess(gctx, rec.PolicyID, observer)
		cancel()

		if err != nil {
			l.WithError(err).Error("failed to verify access")
			return s.public(ctx, l, rec, cache.TTLShort, codeGatewayUnavailable)
		}

		if !granted {
			l.Debug("access is not granted by policy")
			return s.public(ctx, l, rec, cache.TTLPrivate, "")
		}
	}

	u, err := s.privateURL(ctx, rec)
	if err != nil {
		l.WithError(err).Error("failed to get private url")
		return s.public(ctx, l, rec, cache.TTLShort, codePrivateURLFailure)
	}

	return resolution{
		result: entities.AvatarResult{
			URL:         u,
			Type:        entities.ResultTypePrivate,
			IsEncrypted: rec.PolicyKind != entities.PolicyKindTemporary,
			HasAccess:   true,
		},
		ttl: cache.TTLPrivate,
	}
}

func (s *service) resolveSelf(ctx context.Context, l *logrus.Entry, rec *entities.AvatarRecord) resolution {
	u, err := s.privateURL(ctx, rec)
	if err != nil {
		l.WithError(err).Error("failed to get private url for self view")

		res := s.public(ctx, l, rec, cache.TTLShort, codePrivateURLFailure)
		if res.result.Type == entities.ResultTypePublic {
			res.result.Error = privateUnavailableMessage
		}
		return res
	}

	return resolution{
		result: entities.AvatarResult{
			URL:         u,
			Type:        entities.ResultTypePrivate,
			IsEncrypted: rec.PolicyKind != entities.PolicyKindTemporary,
			HasAccess:   true,
		},
		ttl: cache.TTLPrivate,
	}
}

// public returns public variant. Error of the result is left empty, so it can't tell why private variant isn't shown.
func (s *service) public(ctx context.Context, l *logrus.Entry, rec *entities.AvatarRecord, ttl cache.TTLClass, code string) resolution {
	ctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	u, err := s.cdn.PublicURL(ctx, rec.PublicBlobID, s.cfg.CDN)
	if err != nil {
		l.WithError(err).Error("failed to get public url")
		return placeholder(cache.TTLShort, unavailableMessage, codePublicURLFailure)
	}

	return resolution{
		result: entities.AvatarResult{
			URL:       u,
			Type:      entities.ResultTypePublic,
			HasAccess: true,
		},
		ttl:  ttl,
		code: code,
	}
}

func (s *service) privateURL(ctx context.Context, rec *entities.AvatarRecord) (string, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	return s.cdn.PrivateURL(ctx, rec.PrivateBlobID)
}

func (s *service) getTier(ctx context.Context, l *logrus.Entry, observer string) entities.Tier {
	ctx, cancel := withTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	tier, err := s.idx.GetTier(ctx, observer)
	if err != nil {
		l.WithError(err).Warn("failed to get tier, fallback to basic")
		return entities.TierBasic
	}

	return tier
}

package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/producer"
)

// UpdatePermission ...
func (s *service) UpdatePermission(ctx context.Context, subject, observer string, action entities.PermissionAction) {
	l := log.WithFields(logrus.Fields{
		"subject":  subject,
		"observer": observer,
		"action":   action,
	})

	if subject == "" || observer == "" || subject == observer || !action.IsValid() {
		l.Warn("invalid permission update")
		return
	}

	// cached results of the pair must be dropped before the update is acknowledged
	s.cache.InvalidatePair(ctx, subject, observer)

	eventType := entities.EventPermissionGrant
	if action == entities.PermissionRevoke {
		eventType = entities.EventPermissionRevoke
	}
	s.recorder.Record(entities.Event{
		Type:       eventType,
		SubjectID:  subject,
		ObserverID: observer,
	})

	rec, err := s.getMeta(ctx, subject)
	if err != nil {
		l.WithError(err).Error("failed to get avatar")
		return
	}

	if rec == nil || rec.PolicyID == "" {
		l.Debug("subject has no policy")
		return
	}

	// temporary policies trust relationship classification
	if rec.PolicyKind == entities.PolicyKindTemporary {
		return
	}

	task := producer.PermissionTask{
		SubjectID:  subject,
		ObserverID: observer,
		PolicyID:   rec.PolicyID,
		Action:     action,
		CreatedAt:  s.now().UTC(),
	}

	if s.producer != nil {
		err = s.producer.Produce(ctx, &task)
		s.metrics.PermissionTask(string(action), err)
		if err != nil {
			l.WithError(err).Error("failed to enqueue permission task")
		}
		return
	}

	if err := s.applyPermission(ctx, &task); err != nil {
		l.WithError(err).Error("failed to apply permission")
	}

	// results resolved against the old policy while it was being changed
	s.cache.InvalidatePair(ctx, subject, observer)
}

func (s *service) applyPermission(ctx context.Context, t *producer.PermissionTask) error {
	ctx, cancel := withTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	if t.Action == entities.PermissionGrant {
		return s.gw.GrantAccess(ctx, t.PolicyID, t.ObserverID)
	}
	return s.gw.RevokeAccess(ctx, t.PolicyID, t.ObserverID)
}

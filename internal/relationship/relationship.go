// Package relationship classifies relationship between two subjects using their interest records.
package relationship

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/storage"
)

var log = logrus.WithField("package", "relationship")

// Resolver classifies relationships.
type Resolver struct {
	s storage.InterestStorage
}

// New returns new instance of Resolver.
func New(s storage.InterestStorage) *Resolver {
	return &Resolver{
		s: s,
	}
}

// Classify returns relationship between observer and subject.
// Storage failure is never fatal: NotMatched is returned alongside the error for the caller to log.
func (r *Resolver) Classify(ctx context.Context, observer, subject string) (entities.Relationship, error) {
	if observer == "" || subject == "" || observer == subject {
		return entities.RelationshipNotMatched, nil
	}

	rr, err := r.s.GetInterests(ctx, observer, subject)
	if err != nil {
		return entities.RelationshipNotMatched, fmt.Errorf("failed to get interests: %w", err)
	}

	return Classify(rr, observer, subject), nil
}

// Classify is a pure classification of interest records between observer and subject.
// Records which do not connect observer and subject are ignored.
func Classify(rr []*entities.InterestRecord, observer, subject string) entities.Relationship {
	var (
		forward, backward *entities.InterestRecord
	)

	for _, v := range rr {
		switch {
		case v == nil:
			continue
		case v.SourceID == observer && v.TargetID == subject:
			forward = v
		case v.SourceID == subject && v.TargetID == observer:
			backward = v
		default:
			continue
		}

		if !v.MatchStatus.IsKnown() {
			log.WithFields(logrus.Fields{
				"source": v.SourceID,
				"target": v.TargetID,
				"status": v.MatchStatus,
			}).Warn("unknown match status")
		}
	}

	if isBlocked(forward) || isBlocked(backward) {
		return entities.RelationshipBlocked
	}

	if forward != nil && backward != nil && (isActive(forward) || isActive(backward)) {
		return entities.RelationshipMatched
	}

	return entities.RelationshipNotMatched
}

func isBlocked(r *entities.InterestRecord) bool {
	return r != nil && r.MatchStatus == entities.MatchStatusBlocked
}

func isActive(r *entities.InterestRecord) bool {
	return r != nil && r.MatchStatus == entities.MatchStatusActive
}

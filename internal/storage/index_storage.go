package storage

import (
	"context"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/health"
)

//go:generate mockgen -destination=./mock/index_storage.go -package=mock -source=index_storage.go

// AvatarStorage provides access to avatar metadata.
type AvatarStorage interface {
	GetAvatar(ctx context.Context, subject string) (*entities.AvatarRecord, error)
	SetAvatar(ctx context.Context, r *entities.AvatarRecord) error
	DeleteAvatar(ctx context.Context, subject string) error
}

// InterestStorage provides read access to relationship state.
type InterestStorage interface {
	// GetInterests returns interest records of both directions between a and b.
	GetInterests(ctx context.Context, a, b string) ([]*entities.InterestRecord, error)
	// ListMatches returns counterparts matched with subject.
	ListMatches(ctx context.Context, subject string) ([]string, error)
}

// PolicyStorage keeps access policies.
type PolicyStorage interface {
	CreatePolicy(ctx context.Context, p *entities.AccessPolicy) error
	GetPolicy(ctx context.Context, id string) (*entities.AccessPolicy, error)
	AddRule(ctx context.Context, policyID string, r entities.Rule) error
	RemoveRule(ctx context.Context, policyID string, r entities.Rule) error
	DeactivatePolicy(ctx context.Context, id string) error
}

// TierStorage provides observers' entitlement tiers.
type TierStorage interface {
	GetTier(ctx context.Context, address string) (entities.Tier, error)
}

// EventStorage keeps telemetry events.
type EventStorage interface {
	SaveEvents(ctx context.Context, ee []*entities.Event) error
}

// IndexStorage is the relational storage of the service.
type IndexStorage interface {
	health.Pinger

	AvatarStorage
	InterestStorage
	PolicyStorage
	TierStorage
	EventStorage

	InTx(ctx context.Context, f func(s IndexStorage) error) error
}

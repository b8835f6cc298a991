// Package producer contains the interface of producer.
package producer

import (
	"context"
	"time"

	"github.com/Decentr-net/veil/internal/entities"
)

//go:generate mockgen -destination=./mock/producer.go -package=mock -source=producer.go

// PermissionTask is a deferred grant or revoke of observer's access to subject's private avatar.
type PermissionTask struct {
	SubjectID  string                    `json:"subject"`
	ObserverID string                    `json:"observer"`
	PolicyID   string                    `json:"policyId"`
	Action     entities.PermissionAction `json:"action"`
	CreatedAt  time.Time                 `json:"createdAt"`
}

// Producer ...
type Producer interface {
	Produce(ctx context.Context, t *PermissionTask) error
}

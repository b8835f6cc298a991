// Package gateway contains the interface of the threshold encryption gateway.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/health"
)

//go:generate mockgen -destination=./mock/gateway.go -package=mock -source=gateway.go

// MaxPayloadSize is the biggest payload which can be encrypted.
const MaxPayloadSize = 10 << 20

// nolint
var (
	// ErrAccessDenied is returned when address does not satisfy the policy.
	ErrAccessDenied = errors.New("access denied")
	// ErrEncryptionFailure is returned when payload can not be encrypted.
	ErrEncryptionFailure = errors.New("encryption failure")
	// ErrDecryptionFailure is returned on malformed ciphertext.
	ErrDecryptionFailure = errors.New("decryption failure")
	// ErrUnavailable is returned when gateway can not be reached.
	ErrUnavailable = errors.New("gateway is unavailable")
)

// Sealed is an encrypted payload with its policy and key ids.
type Sealed struct {
	Data     []byte
	PolicyID string
	KeyID    string
}

// Gateway encrypts payloads under access policies and releases them to addresses satisfying the policy.
type Gateway interface {
	health.Pinger

	// Encrypt creates policy by spec and encrypts data under it.
	Encrypt(ctx context.Context, data []byte, spec entities.PolicySpec) (*Sealed, error)
	// VerifyAccess returns true if address satisfies the policy. Transport failures are returned as ErrUnavailable.
	VerifyAccess(ctx context.Context, policyID, address string) (bool, error)
	// Decrypt returns plain payload if address satisfies the policy.
	Decrypt(ctx context.Context, data []byte, keyID, policyID, address string) ([]byte, error)
	// GrantAccess adds wallet rule for address into the policy. It's idempotent.
	GrantAccess(ctx context.Context, policyID, address string) error
	// RevokeAccess removes wallet rule for address from the policy. It's idempotent.
	RevokeAccess(ctx context.Context, policyID, address string) error
	// DeactivatePolicy makes policy unsatisfiable.
	DeactivatePolicy(ctx context.Context, policyID string) error
}

// ValidatePayload checks payload size limits.
func ValidatePayload(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrEncryptionFailure)
	}

	if len(data) > MaxPayloadSize {
		return fmt.Errorf("%w: payload is too big", ErrEncryptionFailure)
	}

	return nil
}

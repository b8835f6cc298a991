// Package sio contains minio/sio implementation of gateway.Gateway interface.
// Policies are kept in the policy storage, payloads are sealed with per-key DARE keys derived from the master key.
package sio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/sio"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/hkdf"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/storage"
)

var log = logrus.WithField("package", "sio")

var _ gateway.Gateway = &impl{}

type impl struct {
	master []byte

	ps storage.PolicyStorage
	ts storage.TierStorage

	now func() time.Time
}

// New returns minio/sio implementation of gateway.Gateway interface.
func New(master [32]byte, ps storage.PolicyStorage, ts storage.TierStorage) gateway.Gateway {
	return &impl{
		master: master[:],
		ps:     ps,
		ts:     ts,
		now:    time.Now,
	}
}

// Ping ...
func (i *impl) Ping(_ context.Context) error {
	return nil
}

func (i *impl) config(keyID, policyID string) (sio.Config, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, i.master, []byte(keyID), []byte(policyID)), key); err != nil {
		return sio.Config{}, fmt.Errorf("failed to derive key: %w", err)
	}

	return sio.Config{
		MinVersion: sio.Version20,
		Key:        key,
	}, nil
}

// Encrypt creates policy by spec and encrypts data under it.
func (i *impl) Encrypt(ctx context.Context, data []byte, spec entities.PolicySpec) (*gateway.Sealed, error) {
	if err := gateway.ValidatePayload(data); err != nil {
		return nil, err
	}

	policyID, keyID := uuid.New().String(), uuid.New().String()

	cfg, err := i.config(keyID, policyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gateway.ErrEncryptionFailure, err.Error())
	}

	var buf bytes.Buffer
	if _, err := sio.Encrypt(&buf, bytes.NewReader(data), cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", gateway.ErrEncryptionFailure, err.Error())
	}

	if err := i.ps.CreatePolicy(ctx, &entities.AccessPolicy{
		ID:        policyID,
		Kind:      entities.PolicyKindReal,
		Owner:     spec.Owner,
		Rules:     spec.Rules,
		Threshold: spec.Threshold,
		Active:    true,
		CreatedAt: i.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to create policy: %s", gateway.ErrUnavailable, err.Error())
	}

	return &gateway.Sealed{
		Data:     buf.Bytes(),
		PolicyID: policyID,
		KeyID:    keyID,
	}, nil
}

// VerifyAccess returns true if address satisfies the policy.
func (i *impl) VerifyAccess(ctx context.Context, policyID, address string) (bool, error) {
	p, err := i.ps.GetPolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to get policy: %s", gateway.ErrUnavailable, err.Error())
	}

	tier, err := i.ts.GetTier(ctx, address)
	if err != nil {
		log.WithError(err).WithField("address", address).Warn("failed to get tier, fallback to basic")
		tier = entities.TierBasic
	}

	return gateway.Evaluate(p, address, tier, i.now()), nil
}

// Decrypt returns plain payload if address satisfies the policy.
func (i *impl) Decrypt(ctx context.Context, data []byte, keyID, policyID, address string) ([]byte, error) {
	ok, err := i.VerifyAccess(ctx, policyID, address)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, gateway.ErrAccessDenied
	}

	cfg, err := i.config(keyID, policyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gateway.ErrDecryptionFailure, err.Error())
	}

	var buf bytes.Buffer
	if _, err := sio.Decrypt(&buf, bytes.NewReader(data), cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", gateway.ErrDecryptionFailure, err.Error())
	}

	return buf.Bytes(), nil
}

// GrantAccess adds wallet rule for address into the policy.
func (i *impl) GrantAccess(ctx context.Context, policyID, address string) error {
	if err := i.ps.AddRule(ctx, policyID, gateway.WalletRule(address)); err != nil {
		return storageError("failed to add rule", err)
	}
	return nil
}

// RevokeAccess removes wallet rule for address from the policy.
func (i *impl) RevokeAccess(ctx context.Context, policyID, address string) error {
	if err := i.ps.RemoveRule(ctx, policyID, gateway.WalletRule(address)); err != nil {
		return storageError("failed to remove rule", err)
	}
	return nil
}

// DeactivatePolicy ...
func (i *impl) DeactivatePolicy(ctx context.Context, policyID string) error {
	if err := i.ps.DeactivatePolicy(ctx, policyID); err != nil {
		return storageError("failed to deactivate policy", err)
	}
	return nil
}

// storageError marks policy storage failures except missing policy as ErrUnavailable, so they can be retried.
func storageError(msg string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %s", gateway.ErrUnavailable, msg, err.Error())
}

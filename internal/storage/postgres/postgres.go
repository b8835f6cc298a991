// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/schema"
	"github.com/Decentr-net/veil/internal/storage"
)

var log = logrus.WithField("package", "postgres")

// errNestedTx is returned when InTx is called inside a transaction.
var errNestedTx = errors.New("can not start transaction inside transaction")

type pg struct {
	ext sqlx.ExtContext
}

type avatarDTO struct {
	Subject       string      `db:"subject"`
	PublicBlobID  string      `db:"public_blob_id"`
	PrivateBlobID string      `db:"private_blob_id"`
	PolicyID      string      `db:"policy_id"`
	PolicyKind    string      `db:"policy_kind"`
	KeyID         string      `db:"key_id"`
	UploadedAt    pq.NullTime `db:"uploaded_at"`
	Settings      []byte      `db:"settings"`
}

type interestDTO struct {
	Source      string `db:"source"`
	Target      string `db:"target"`
	MatchStatus int16  `db:"match_status"`
}

type policyDTO struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Owner     string    `db:"owner"`
	Threshold int       `db:"threshold"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

type ruleDTO struct {
	PolicyID  string `db:"policy_id"`
	Type      string `db:"type"`
	Value     string `db:"value"`
	Operation string `db:"operation"`
}

type eventDTO struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	Subject   string    `db:"subject"`
	Observer  string    `db:"observer"`
	Result    string    `db:"result"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}

// New creates new instance of pg.
func New(db *sql.DB) storage.IndexStorage {
	return pg{
		ext: sqlx.NewDb(db, "postgres"),
	}
}

// Ping is part of health.Pinger interface.
func (s pg) Ping(ctx context.Context) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return nil
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	return nil
}

// InTx runs f inside transaction. Transaction is rolled back when f returns error.
func (s pg) InTx(ctx context.Context, f func(s storage.IndexStorage) error) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return errNestedTx
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.WithError(err).Error("failed to rollback tx")
		}
	}()

	if err := f(pg{ext: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	return nil
}

func (s pg) GetAvatar(ctx context.Context, subject string) (*entities.AvatarRecord, error) {
	var a avatarDTO
	if err := sqlx.GetContext(ctx, s.ext, &a, `
		SELECT
			subject, public_blob_id, private_blob_id, policy_id, policy_kind, key_id, uploaded_at, settings
		FROM avatar
		WHERE subject = $1
	`, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toAvatarRecord(&a)
}

func (s pg) SetAvatar(ctx context.Context, r *entities.AvatarRecord) error {
	settings, err := schema.Encode(r.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	a := avatarDTO{
		Subject:       r.SubjectID,
		PublicBlobID:  r.PublicBlobID,
		PrivateBlobID: r.PrivateBlobID,
		PolicyID:      r.PolicyID,
		PolicyKind:    string(r.PolicyKind),
		KeyID:         r.KeyID,
		Settings:      settings,
	}
	if r.UploadedAt != nil {
		a.UploadedAt = pq.NullTime{Time: r.UploadedAt.UTC(), Valid: true}
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext, `
		INSERT INTO avatar(subject, public_blob_id, private_blob_id, policy_id, policy_kind, key_id, uploaded_at, settings)
		VALUES(:subject, :public_blob_id, :private_blob_id, :policy_id, :policy_kind, :key_id, :uploaded_at, :settings)
		ON CONFLICT(subject) DO UPDATE SET
			public_blob_id=excluded.public_blob_id,
			private_blob_id=excluded.private_blob_id,
			policy_id=excluded.policy_id,
			policy_kind=excluded.policy_kind,
			key_id=excluded.key_id,
			uploaded_at=excluded.uploaded_at,
			settings=excluded.settings,
			updated_at=now()
	`, a); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) DeleteAvatar(ctx context.Context, subject string) error {
	res, err := s.ext.ExecContext(ctx, `DELETE FROM avatar WHERE subject = $1`, subject)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return expectAffected(res)
}

func (s pg) GetInterests(ctx context.Context, a, b string) ([]*entities.InterestRecord, error) {
	var ii []*interestDTO
	if err := sqlx.SelectContext(ctx, s.ext, &ii, `
		SELECT source, target, match_status
		FROM interest
		WHERE (source = $1 AND target = $2) OR (source = $2 AND target = $1)
		ORDER BY source
	`, a, b); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.InterestRecord, len(ii))
	for i, v := range ii {
		out[i] = &entities.InterestRecord{
			SourceID:    v.Source,
			TargetID:    v.Target,
			MatchStatus: entities.MatchStatus(v.MatchStatus),
		}
	}

	return out, nil
}

// ListMatches returns counterparts which have records in both directions with subject,
// at least one of them is active and none is blocked.
func (s pg) ListMatches(ctx context.Context, subject string) ([]string, error) {
	var out []string
	if err := sqlx.SelectContext(ctx, s.ext, &out, `
		SELECT o.source
		FROM interest o
		JOIN interest i ON i.source = o.target AND i.target = o.source
		WHERE o.target = $1
			AND (o.match_status = $2 OR i.match_status = $2)
			AND o.match_status <> $3 AND i.match_status <> $3
		ORDER BY o.source
	`, subject, entities.MatchStatusActive, entities.MatchStatusBlocked); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return out, nil
}

// CreatePolicy stores policy with its rules atomically.
func (s pg) CreatePolicy(ctx context.Context, p *entities.AccessPolicy) error {
	if _, ok := s.ext.(*sqlx.DB); ok {
		return s.InTx(ctx, func(tx storage.IndexStorage) error {
			return tx.CreatePolicy(ctx, p)
		})
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext, `
		INSERT INTO policy(id, kind, owner, threshold, active)
		VALUES(:id, :kind, :owner, :threshold, :active)
	`, policyDTO{
		ID:        p.ID,
		Kind:      string(p.Kind),
		Owner:     p.Owner,
		Threshold: int(p.Threshold),
		Active:    p.Active,
	}); err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	for _, r := range p.Rules {
		if err := s.AddRule(ctx, p.ID, r); err != nil {
			return err
		}
	}

	return nil
}

func (s pg) GetPolicy(ctx context.Context, id string) (*entities.AccessPolicy, error) {
	var p policyDTO
	if err := sqlx.GetContext(ctx, s.ext, &p, `
		SELECT id, kind, owner, threshold, active, created_at
		FROM policy
		WHERE id = $1
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query policy: %w", err)
	}

	var rr []*ruleDTO
	if err := sqlx.SelectContext(ctx, s.ext, &rr, `
		SELECT policy_id, type, value, operation
		FROM policy_rule
		WHERE policy_id = $1
		ORDER BY id
	`, id); err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}

	out := entities.AccessPolicy{
		ID:        p.ID,
		Kind:      entities.PolicyKind(p.Kind),
		Owner:     p.Owner,
		Rules:     make([]entities.Rule, len(rr)),
		Threshold: uint(p.Threshold),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
	for i, v := range rr {
		out.Rules[i] = entities.Rule{
			Type:      entities.RuleType(v.Type),
			Value:     v.Value,
			Operation: entities.RuleOperation(v.Operation),
		}
	}

	return &out, nil
}

// AddRule adds rule to policy. Adding existing rule is no-op.
func (s pg) AddRule(ctx context.Context, policyID string, r entities.Rule) error {
	op := r.Operation
	if op == "" {
		op = entities.RuleOperationAllow
	}

	res, err := sqlx.NamedExecContext(ctx, s.ext, `
		INSERT INTO policy_rule(policy_id, type, value, operation)
		SELECT :policy_id, :type, :value, :operation
		WHERE EXISTS (SELECT 1 FROM policy WHERE id = :policy_id)
		ON CONFLICT(policy_id, type, value) DO NOTHING
	`, ruleDTO{
		PolicyID:  policyID,
		Type:      string(r.Type),
		Value:     r.Value,
		Operation: string(op),
	})
	if err != nil {
		return fmt.Errorf("failed to add rule: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.policyExists(ctx, policyID)
	}

	return nil
}

// RemoveRule removes rule from policy. Removing absent rule is no-op.
func (s pg) RemoveRule(ctx context.Context, policyID string, r entities.Rule) error {
	if _, err := s.ext.ExecContext(ctx, `
		DELETE FROM policy_rule WHERE policy_id = $1 AND type = $2 AND value = $3
	`, policyID, r.Type, r.Value); err != nil {
		return fmt.Errorf("failed to remove rule: %w", err)
	}

	return nil
}

func (s pg) DeactivatePolicy(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, `UPDATE policy SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return expectAffected(res)
}

// GetTier returns tier of active subscription. Address without subscription is basic.
func (s pg) GetTier(ctx context.Context, address string) (entities.Tier, error) {
	var tier string
	if err := sqlx.GetContext(ctx, s.ext, &tier, `
		SELECT tier
		FROM subscription
		WHERE address = $1 AND (expires_at IS NULL OR expires_at > $2)
	`, address, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.TierBasic, nil
		}
		return entities.TierBasic, fmt.Errorf("failed to query: %w", err)
	}

	return entities.Tier(tier), nil
}

func (s pg) SaveEvents(ctx context.Context, ee []*entities.Event) error {
	if len(ee) == 0 {
		return nil
	}

	dd := make([]eventDTO, len(ee))
	for i, v := range ee {
		dd[i] = eventDTO{
			ID:        v.ID,
			Type:      string(v.Type),
			Subject:   v.SubjectID,
			Observer:  v.ObserverID,
			Result:    string(v.Result),
			Code:      v.Code,
			CreatedAt: v.CreatedAt.UTC(),
		}
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext, `
		INSERT INTO avatar_event(id, type, subject, observer, result, code, created_at)
		VALUES(:id, :type, :subject, :observer, :result, :code, :created_at)
	`, dd); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) policyExists(ctx context.Context, id string) error {
	var exists bool
	if err := sqlx.GetContext(ctx, s.ext, &exists, `SELECT EXISTS (SELECT 1 FROM policy WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}

	if !exists {
		return storage.ErrNotFound
	}

	return nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func toAvatarRecord(a *avatarDTO) (*entities.AvatarRecord, error) {
	settings, err := schema.Decode(a.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings of %s: %w", a.Subject, err)
	}

	out := entities.AvatarRecord{
		SubjectID:     a.Subject,
		PublicBlobID:  a.PublicBlobID,
		PrivateBlobID: a.PrivateBlobID,
		PolicyID:      a.PolicyID,
		PolicyKind:    entities.PolicyKind(a.PolicyKind),
		KeyID:         a.KeyID,
		Settings:      settings,
	}

	if a.UploadedAt.Valid {
		t := a.UploadedAt.Time.UTC()
		out.UploadedAt = &t
	}

	return &out, nil
}

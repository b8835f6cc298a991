// Package entities contains service-wide models.
package entities

import (
	"time"
)

// Visibility defines who may see the private variant of an avatar.
type Visibility string

// nolint
const (
	VisibilityMatchesOnly    Visibility = "matches_only"
	VisibilityPremiumMatches Visibility = "premium_matches"
)

// IsValid ...
func (v Visibility) IsValid() bool {
	return v == VisibilityMatchesOnly || v == VisibilityPremiumMatches
}

// AvatarSettings is owner-controlled avatar configuration.
type AvatarSettings struct {
	Enabled       bool
	Visibility    Visibility
	AllowDownload bool
	// ExpiryDays is nil when the avatar never expires.
	ExpiryDays *uint32
}

// MaxExpiryDays is the longest accepted avatar lifetime.
const MaxExpiryDays = 36500

// ExpiresAt returns the moment the avatar uploaded at uploadedAt expires.
// The second value is false when the avatar never expires.
func (s AvatarSettings) ExpiresAt(uploadedAt time.Time) (time.Time, bool) {
	if s.ExpiryDays == nil {
		return time.Time{}, false
	}

	return uploadedAt.UTC().AddDate(0, 0, int(*s.ExpiryDays)), true
}

// AvatarRecord contains per-subject avatar metadata.
// Empty strings mean the field is absent.
type AvatarRecord struct {
	SubjectID     string
	PublicBlobID  string
	PrivateBlobID string
	PolicyID      string
	PolicyKind    PolicyKind
	KeyID         string
	UploadedAt    *time.Time
	Settings      AvatarSettings
}

// IsComplete returns true if both variants are present.
func (r *AvatarRecord) IsComplete() bool {
	return r.PublicBlobID != "" && r.PrivateBlobID != ""
}

// IsExpired returns true if the avatar expiry is set and already passed at now.
func (r *AvatarRecord) IsExpired(now time.Time) bool {
	if r.UploadedAt == nil {
		return false
	}

	at, ok := r.Settings.ExpiresAt(*r.UploadedAt)
	return ok && !now.Before(at)
}

// MatchStatus is a status of directional interest record.
type MatchStatus uint8

// Value 2 is not assigned. It is treated as an unknown status which is neither active nor blocked.
const (
	MatchStatusPending MatchStatus = 0
	MatchStatusActive  MatchStatus = 1
	MatchStatusBlocked MatchStatus = 3
)

// IsKnown ...
func (s MatchStatus) IsKnown() bool {
	switch s {
	case MatchStatusPending, MatchStatusActive, MatchStatusBlocked:
		return true
	default:
		return false
	}
}

// InterestRecord is a directional "like".
type InterestRecord struct {
	SourceID    string
	TargetID    string
	MatchStatus MatchStatus
}

// Relationship is a tri-state classification of two subjects relationship.
type Relationship uint8

// nolint
const (
	RelationshipNotMatched Relationship = iota
	RelationshipMatched
	RelationshipBlocked
)

func (r Relationship) String() string {
	switch r {
	case RelationshipMatched:
		return "matched"
	case RelationshipBlocked:
		return "blocked"
	default:
		return "not_matched"
	}
}

// Tier is an observer's entitlement tier.
type Tier string

// nolint
const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// IsElevated returns true for tiers which unlock premium visibility.
func (t Tier) IsElevated() bool {
	return t == TierPremium
}

// RuleType ...
type RuleType string

// nolint
const (
	RuleTypeWallet       RuleType = "wallet"
	RuleTypeSubscription RuleType = "subscription"
	RuleTypeTime         RuleType = "time"
)

// RuleOperation ...
type RuleOperation string

// RuleOperationAllow is the only supported operation.
const RuleOperationAllow RuleOperation = "allow"

// Rule is a single access policy condition.
// Value is an address for wallet rules, a tier for subscription rules and RFC-3339 deadline for time rules.
type Rule struct {
	Type      RuleType      `json:"type"`
	Value     string        `json:"value"`
	Operation RuleOperation `json:"operation"`
}

// PolicyKind tells if the policy is backed by the encryption service.
type PolicyKind string

// nolint
const (
	PolicyKindReal      PolicyKind = "real"
	PolicyKindTemporary PolicyKind = "temporary"
)

// PolicySpec is a set of rules used to create a policy.
// Owner always has access to the policy's payload.
type PolicySpec struct {
	Owner     string `json:"owner"`
	Rules     []Rule `json:"rules"`
	Threshold uint   `json:"threshold"`
}

// AccessPolicy ...
type AccessPolicy struct {
	ID        string
	Kind      PolicyKind
	Owner     string
	Rules     []Rule
	Threshold uint
	Active    bool
	CreatedAt time.Time
}

// ResultType ...
type ResultType string

// nolint
const (
	ResultTypePublic      ResultType = "public"
	ResultTypePrivate     ResultType = "private"
	ResultTypePlaceholder ResultType = "placeholder"
)

// AvatarResult is the outcome of avatar resolution.
type AvatarResult struct {
	URL         string     `json:"url"`
	Type        ResultType `json:"type"`
	IsEncrypted bool       `json:"isEncrypted"`
	HasAccess   bool       `json:"hasAccess"`
	Error       string     `json:"error,omitempty"`
}

// PermissionAction ...
type PermissionAction string

// nolint
const (
	PermissionGrant  PermissionAction = "grant"
	PermissionRevoke PermissionAction = "revoke"
)

// IsValid ...
func (a PermissionAction) IsValid() bool {
	return a == PermissionGrant || a == PermissionRevoke
}

// EventType ...
type EventType string

// nolint
const (
	EventAvatarView       EventType = "avatar_view"
	EventResolveFailure   EventType = "avatar_resolve_failure"
	EventAvatarUpload     EventType = "avatar_upload"
	EventAvatarDelete     EventType = "avatar_delete"
	EventPermissionGrant  EventType = "permission_grant"
	EventPermissionRevoke EventType = "permission_revoke"
)

// Event is an access/engagement telemetry event.
type Event struct {
	ID         string
	Type       EventType
	SubjectID  string
	ObserverID string
	Result     ResultType
	Code       string
	CreatedAt  time.Time
}

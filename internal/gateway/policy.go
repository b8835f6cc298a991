package gateway

import (
	"time"

	"github.com/Decentr-net/veil/internal/entities"
)

// WalletRule returns rule which is satisfied by address.
func WalletRule(address string) entities.Rule {
	return entities.Rule{Type: entities.RuleTypeWallet, Value: address, Operation: entities.RuleOperationAllow}
}

// SubscriptionRule returns rule which is satisfied by observers of tier.
func SubscriptionRule(tier entities.Tier) entities.Rule {
	return entities.Rule{Type: entities.RuleTypeSubscription, Value: string(tier), Operation: entities.RuleOperationAllow}
}

// TimeRule returns rule which is satisfied until deadline.
func TimeRule(deadline time.Time) entities.Rule {
	return entities.Rule{Type: entities.RuleTypeTime, Value: deadline.UTC().Format(time.RFC3339), Operation: entities.RuleOperationAllow}
}

// Evaluate returns true if address with tier satisfies policy at now.
// Owner always satisfies an active policy. Otherwise at least threshold rules must be satisfied, wallet rules count once.
func Evaluate(p *entities.AccessPolicy, address string, tier entities.Tier, now time.Time) bool {
	if p == nil || !p.Active || address == "" {
		return false
	}

	if address == p.Owner {
		return true
	}

	var (
		satisfied uint
		wallet    bool
	)

	for _, r := range p.Rules {
		if r.Operation != entities.RuleOperationAllow {
			continue
		}

		switch r.Type {
		case entities.RuleTypeWallet:
			if !wallet && r.Value == address {
				wallet = true
				satisfied++
			}
		case entities.RuleTypeSubscription:
			if entities.Tier(r.Value) == tier || (tier.IsElevated() && entities.Tier(r.Value) == entities.TierBasic) {
				satisfied++
			}
		case entities.RuleTypeTime:
			deadline, err := time.Parse(time.RFC3339, r.Value)
			if err == nil && now.Before(deadline) {
				satisfied++
			}
		}
	}

	threshold := p.Threshold
	if threshold == 0 {
		threshold = 1
	}

	return satisfied >= threshold
}

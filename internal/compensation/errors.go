package compensation

import "errors"

var (
	// ErrConfiguration means the sales rep has no tier, so no rate can be looked up.
	ErrConfiguration = errors.New("representative has no tier assigned")

	// ErrRuleNotFound means no PlanTierRule exists for the (plan, tier) pair.
	ErrRuleNotFound = errors.New("no commission rule configured for this plan and tier")

	// ErrConsistency means plan, product, business unit and sales rep do not line up.
	ErrConsistency = errors.New("sale references are inconsistent")
)

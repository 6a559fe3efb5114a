package domain

import (
	"fmt"
)

// SubscriptionPlan is the customer's subscription tier.
type SubscriptionPlan string

const (
	PlanOneMonth     SubscriptionPlan = "1_month"
	PlanSixMonths    SubscriptionPlan = "6_months"
	PlanTwelveMonths SubscriptionPlan = "12_months"
	PlanNone         SubscriptionPlan = "none"
)

// ParsePlan validates a stored plan value.
func ParsePlan(s string) (SubscriptionPlan, error) {
	switch p := SubscriptionPlan(s); p {
	case PlanOneMonth, PlanSixMonths, PlanTwelveMonths, PlanNone:
		return p, nil
	default:
		return "", fmt.Errorf("unknown subscription plan %q", s)
	}
}

// Weights are the score component weights for a plan. They sum to 1.
type Weights struct {
	Guides  float64
	Address float64
	URLs    float64
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Guides + w.Address + w.URLs
}

// Weights returns the score weights for the plan. The one-month plan does not
// include URL removal, so its weight is split between guides and address.
func (p SubscriptionPlan) Weights() Weights {
	if p == PlanOneMonth {
		return Weights{Guides: 0.5, Address: 0.5, URLs: 0}
	}
	return Weights{Guides: 1.0 / 3, Address: 1.0 / 3, URLs: 1.0 / 3}
}

// IncludesURLRemoval reports whether URL removal counts towards the score.
func (p SubscriptionPlan) IncludesURLRemoval() bool {
	return p != PlanOneMonth
}

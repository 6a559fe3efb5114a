package domain

import (
	"math"
)

// ComponentScores are the three score components, each in [0,1].
type ComponentScores struct {
	Guides  float64
	Address float64
	URLs    float64
}

// IndividualScores are the component scores as whole percentages.
type IndividualScores struct {
	Guides  int `json:"guides"`
	Address int `json:"address"`
	URLs    int `json:"urls"`
}

// PrivacyScore is the weighted score shown to the customer.
type PrivacyScore struct {
	Total      int              `json:"total"`
	Individual IndividualScores `json:"individual"`
}

// Percent converts a [0,1] ratio to a whole percentage, rounding halves up.
func Percent(ratio float64) int {
	return int(math.Round(100 * ratio))
}

// GuidesScore is the share of catalog guides the customer completed. An
// empty catalog counts as fully complete.
func GuidesScore(catalog []Guide, completed GuideSet) float64 {
	total := UniqueGuideCount(catalog)
	if total == 0 {
		return 1
	}
	return float64(CountCompleted(catalog, completed)) / float64(total)
}

// AddressScore is 1 when the address is active and 0 otherwise.
func AddressScore(address *AddressRecord) float64 {
	if address.IsActive() {
		return 1
	}
	return 0
}

// URLsScore is the share of submitted URLs that reached the terminal step.
// Plans without URL removal, and customers with nothing submitted, score 1.
func URLsScore(urls []IncomingURL, plan SubscriptionPlan) float64 {
	if !plan.IncludesURLRemoval() || len(urls) == 0 {
		return 1
	}
	approved := 0
	for i := range urls {
		if urls[i].IsApproved() {
			approved++
		}
	}
	return float64(approved) / float64(len(urls))
}

// Components computes the three raw component scores.
func Components(catalog []Guide, urls []IncomingURL, progress ChecklistProgress, address *AddressRecord, plan SubscriptionPlan) ComponentScores {
	return ComponentScores{
		Guides:  GuidesScore(catalog, progress.CompletedGuides),
		Address: AddressScore(address),
		URLs:    URLsScore(urls, plan),
	}
}

// Weighted returns the plan-weighted sum of the components.
func (c ComponentScores) Weighted(w Weights) float64 {
	return w.Guides*c.Guides + w.Address*c.Address + w.URLs*c.URLs
}

// CalculateScore computes the customer's privacy score. It is pure: the same
// inputs always give the same score.
func CalculateScore(catalog []Guide, urls []IncomingURL, progress ChecklistProgress, address *AddressRecord, plan SubscriptionPlan) PrivacyScore {
	c := Components(catalog, urls, progress, address, plan)
	return PrivacyScore{
		Total: Percent(c.Weighted(plan.Weights())),
		Individual: IndividualScores{
			Guides:  Percent(c.Guides),
			Address: Percent(c.Address),
			URLs:    Percent(c.URLs),
		},
	}
}

package domain

import (
	"time"
)

// Customer is a subscriber of the privacy service. Customers are created by
// the signup flow and never deleted here.
type Customer struct {
	ID              string           `json:"id"`
	Plan            SubscriptionPlan `json:"subscription_plan"`
	CompletedGuides GuideSet         `json:"-"`
	ChecklistStep   int              `json:"checklist_step"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TotalChecklistSteps is the number of onboarding checklist steps.
const TotalChecklistSteps = 4

// Checklist step indexes.
const (
	StepPasswordUpdated = iota
	StepSitesSelected
	StepURLsSubmitted
	StepIdentification
)

// SiteID identifies a people-search site the customer wants to be removed from.
type SiteID string

// ChecklistProgress is a customer's onboarding state. One row per customer,
// created on first interaction and updated in place afterwards.
type ChecklistProgress struct {
	CustomerID      string
	PasswordUpdated bool
	SelectedSites   Set[SiteID]
	RemovalURLs     Set[string]
	Address         string
	PersonalNumber  string
	CompletedGuides GuideSet
	UpdatedAt       time.Time
}

// EmptyProgress is the progress of a customer who has not started the checklist.
func EmptyProgress(customerID string) ChecklistProgress {
	return ChecklistProgress{CustomerID: customerID}
}

// HasIdentification reports whether both address and personal number are set.
func (p ChecklistProgress) HasIdentification() bool {
	return strings.TrimSpace(p.Address) != "" && strings.TrimSpace(p.PersonalNumber) != ""
}

// IsStepComplete reports whether checklist step i is done. Out of range
// indexes are never complete.
func (p ChecklistProgress) IsStepComplete(i int) bool {
	switch i {
	case StepPasswordUpdated:
		return p.PasswordUpdated
	case StepSitesSelected:
		return p.SelectedSites.Len() > 0
	case StepURLsSubmitted:
		return p.RemovalURLs.Len() > 0
	case StepIdentification:
		return p.HasIdentification()
	default:
		return false
	}
}

// Steps returns the completion vector, one entry per step.
func (p ChecklistProgress) Steps() []bool {
	out := make([]bool, TotalChecklistSteps)
	for i := range out {
		out[i] = p.IsStepComplete(i)
	}
	return out
}

// CompletedSteps counts finished steps.
func (p ChecklistProgress) CompletedSteps() int {
	n := 0
	for i := 0; i < TotalChecklistSteps; i++ {
		if p.IsStepComplete(i) {
			n++
		}
	}
	return n
}

// CurrentStep is the first incomplete step, or TotalChecklistSteps when all
// steps are done.
func (p ChecklistProgress) CurrentStep() int {
	for i := 0; i < TotalChecklistSteps; i++ {
		if !p.IsStepComplete(i) {
			return i
		}
	}
	return TotalChecklistSteps
}

// Progress is a completed/total ratio.
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
	Percent   int     `json:"percent"`
}

// OverallProgress returns the share of completed checklist steps.
func (p ChecklistProgress) OverallProgress() Progress {
	done := p.CompletedSteps()
	fraction := float64(done) / TotalChecklistSteps
	return Progress{
		Completed: done,
		Total:     TotalChecklistSteps,
		Fraction:  fraction,
		Percent:   int(math.Round(fraction * 100)),
	}
}

// Reminder is a notification item for an incomplete checklist step. Key is
// a translation key; the client renders the text.
type Reminder struct {
	Step int       `json:"step"`
	Key  string    `json:"key"`
	At   time.Time `json:"at"`
}

// ReminderKey returns the translation key for step i (zero based). Keys are
// numbered from 1 to match the step numbers customers see.
func ReminderKey(i int) string {
	return fmt.Sprintf("step.%d.title", i+1)
}

// Reminders lists one reminder per incomplete step, stamped with the time
// the progress was last updated. Progress that was never saved is stamped
// with now.
func (p ChecklistProgress) Reminders(now time.Time) []Reminder {
	at := p.UpdatedAt
	if at.IsZero() {
		at = now
	}
	out := make([]Reminder, 0, TotalChecklistSteps)
	for i := 0; i < TotalChecklistSteps; i++ {
		if p.IsStepComplete(i) {
			continue
		}
		out = append(out, Reminder{Step: i, Key: ReminderKey(i), At: at})
	}
	return out
}

// ChecklistSummary is the read view returned to clients and cached.
type ChecklistSummary struct {
	Steps           []bool     `json:"steps"`
	CurrentStep     int        `json:"current_step"`
	Progress        Progress   `json:"progress"`
	Reminders       []Reminder `json:"reminders"`
	SelectedSites   []SiteID   `json:"selected_sites"`
	RemovalURLs     []string   `json:"removal_urls"`
	CompletedGuides []GuideID  `json:"completed_guides"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Summary builds the read view as of now. The personal number is never
// included.
func (p ChecklistProgress) Summary(now time.Time) ChecklistSummary {
	return ChecklistSummary{
		Steps:           p.Steps(),
		CurrentStep:     p.CurrentStep(),
		Progress:        p.OverallProgress(),
		Reminders:       p.Reminders(now),
		SelectedSites:   p.SelectedSites.Sorted(),
		RemovalURLs:     p.RemovalURLs.Sorted(),
		CompletedGuides: p.CompletedGuides.Sorted(),
		UpdatedAt:       p.UpdatedAt,
	}
}

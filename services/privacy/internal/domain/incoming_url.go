package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
)

// StatusStep is a stage in the deindexing lifecycle of a submitted URL.
type StatusStep string

// Status steps in lifecycle order.
const (
	StatusReceived         StatusStep = "received"
	StatusCaseStarted      StatusStep = "case_started"
	StatusRequestSubmitted StatusStep = "request_submitted"
	StatusRemovalApproved  StatusStep = "removal_approved"
)

// TerminalStep is the step at which a URL counts as removed.
const TerminalStep = StatusRemovalApproved

// ErrStatusMismatch means a URL's status is not the step of its last
// history entry.
var ErrStatusMismatch = errors.New("status does not match last history entry")

// Steps returns the lifecycle in order. The slice is a copy.
func Steps() []StatusStep {
	return []StatusStep{
		StatusReceived,
		StatusCaseStarted,
		StatusRequestSubmitted,
		StatusRemovalApproved,
	}
}

// Index returns the ordinal of s in the lifecycle.
func (s StatusStep) Index() (int, error) {
	for i, step := range Steps() {
		if step == s {
			return i, nil
		}
	}
	return -1, apperrors.UnknownStatus(string(s))
}

// LabelKey is the translation key for the step's label.
func (s StatusStep) LabelKey() string {
	return "status." + string(s)
}

// ParseStatusStep validates a status string.
func ParseStatusStep(s string) (StatusStep, error) {
	step := StatusStep(s)
	if _, err := step.Index(); err != nil {
		return "", err
	}
	return step, nil
}

// StatusEntry is one history record: the URL entered Step at At.
type StatusEntry struct {
	Step StatusStep `json:"step"`
	At   time.Time  `json:"at"`
}

// IncomingURL is a URL a customer submitted for deindexing. History is
// append-only and never moves backwards; Status mirrors its last entry.
type IncomingURL struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	URL        string        `json:"url"`
	Status     StatusStep    `json:"status"`
	History    []StatusEntry `json:"status_history"`
	CreatedAt  time.Time     `json:"created_at"`
}

// MaxURLLength bounds a submitted URL.
const MaxURLLength = 2048

// NormalizeURL checks that raw is an absolute http(s) URL and returns it with
// surrounding space removed, the scheme and host lower-cased and any fragment
// dropped.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.InvalidInput("url is required")
	}
	if len(raw) > MaxURLLength {
		return "", apperrors.InvalidInput(fmt.Sprintf("url must be at most %d characters", MaxURLLength))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", apperrors.InvalidInput(fmt.Sprintf("url %q is malformed", raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperrors.InvalidInput(fmt.Sprintf("url %q must use http or https", raw))
	}
	if u.Host == "" {
		return "", apperrors.InvalidInput(fmt.Sprintf("url %q has no host", raw))
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// NewIncomingURL returns a URL in the received step with one history entry.
func NewIncomingURL(id, customerID, url string, at time.Time) *IncomingURL {
	return &IncomingURL{
		ID:         id,
		CustomerID: customerID,
		URL:        url,
		Status:     StatusReceived,
		History:    []StatusEntry{{Step: StatusReceived, At: at}},
		CreatedAt:  at,
	}
}

// CurrentStepIndex returns the ordinal of the current status.
func (u *IncomingURL) CurrentStepIndex() (int, error) {
	return u.Status.Index()
}

// IsStepActive reports whether step i has been reached.
func (u *IncomingURL) IsStepActive(i int) (bool, error) {
	current, err := u.CurrentStepIndex()
	if err != nil {
		return false, err
	}
	return i >= 0 && i <= current, nil
}

// IsStepCurrent reports whether step i is the current step.
func (u *IncomingURL) IsStepCurrent(i int) (bool, error) {
	current, err := u.CurrentStepIndex()
	if err != nil {
		return false, err
	}
	return i == current, nil
}

// IsApproved reports whether the URL reached the terminal step.
func (u *IncomingURL) IsApproved() bool {
	return u.Status == TerminalStep
}

// TimestampFor returns when the URL most recently entered step.
func (u *IncomingURL) TimestampFor(step StatusStep) (time.Time, bool) {
	for i := len(u.History) - 1; i >= 0; i-- {
		if u.History[i].Step == step {
			return u.History[i].At, true
		}
	}
	return time.Time{}, false
}

// StepSlot is one cell of the status grid. Future steps keep their slot but
// carry no label or timestamp.
type StepSlot struct {
	Index    int        `json:"index"`
	Step     StatusStep `json:"step"`
	LabelKey string     `json:"label_key,omitempty"`
	At       *time.Time `json:"at,omitempty"`
	Active   bool       `json:"active"`
	Current  bool       `json:"current"`
}

// StepGrid returns one slot per lifecycle step.
func (u *IncomingURL) StepGrid() ([]StepSlot, error) {
	current, err := u.CurrentStepIndex()
	if err != nil {
		return nil, err
	}

	steps := Steps()
	grid := make([]StepSlot, len(steps))
	for i, step := range steps {
		slot := StepSlot{Index: i, Step: step}
		if i <= current {
			slot.Active = true
			slot.Current = i == current
			slot.LabelKey = step.LabelKey()
			if at, ok := u.TimestampFor(step); ok {
				slot.At = &at
			}
		}
		grid[i] = slot
	}
	return grid, nil
}

// ValidateHistory checks that every entry is a known step, that steps never
// decrease and that Status matches the last entry.
func (u *IncomingURL) ValidateHistory() error {
	if _, err := u.CurrentStepIndex(); err != nil {
		return err
	}
	if len(u.History) == 0 {
		return fmt.Errorf("%w: status %q with empty history", ErrStatusMismatch, u.Status)
	}

	prev := -1
	var prevStep StatusStep
	for _, e := range u.History {
		idx, err := e.Step.Index()
		if err != nil {
			return err
		}
		if idx < prev {
			return apperrors.StatusRegression(string(prevStep), string(e.Step))
		}
		prev, prevStep = idx, e.Step
	}

	if last := u.History[len(u.History)-1].Step; last != u.Status {
		return fmt.Errorf("%w: status %q, last entry %q", ErrStatusMismatch, u.Status, last)
	}
	return nil
}

// Advance records that the URL entered step at the given time. Recording the
// current step again changes nothing and returns false. Moving to an earlier
// step is refused with a StatusRegression error.
func (u *IncomingURL) Advance(step StatusStep, at time.Time) (bool, error) {
	target, err := step.Index()
	if err != nil {
		return false, err
	}
	current, err := u.CurrentStepIndex()
	if err != nil {
		return false, err
	}

	switch {
	case target < current:
		return false, apperrors.StatusRegression(string(u.Status), string(step))
	case target == current:
		return false, nil
	}

	u.History = append(u.History, StatusEntry{Step: step, At: at})
	u.Status = step
	return true, nil
}

// IncomingURLView is a URL with its status grid, as listed to the customer.
type IncomingURLView struct {
	IncomingURL
	Grid []StepSlot `json:"grid"`
}

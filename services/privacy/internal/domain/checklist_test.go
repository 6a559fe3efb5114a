package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProgress() ChecklistProgress {
	return ChecklistProgress{
		CustomerID:      "cust-1",
		PasswordUpdated: true,
		SelectedSites:   NewSet[SiteID]("ratsit", "mrkoll"),
		RemovalURLs:     NewSet("https://example.se/a"),
		Address:         "Storgatan 1",
		PersonalNumber:  "19900101-0017",
	}
}

func TestIsStepComplete_EachStep(t *testing.T) {
	p := EmptyProgress("cust-1")
	for i := 0; i < TotalChecklistSteps; i++ {
		assert.False(t, p.IsStepComplete(i), "step %d", i)
	}

	full := fullProgress()
	for i := 0; i < TotalChecklistSteps; i++ {
		assert.True(t, full.IsStepComplete(i), "step %d", i)
	}
}

func TestIsStepComplete_OutOfRange(t *testing.T) {
	full := fullProgress()
	assert.False(t, full.IsStepComplete(-1))
	assert.False(t, full.IsStepComplete(TotalChecklistSteps))
}

func TestIsStepComplete_IdentificationNeedsBoth(t *testing.T) {
	p := ChecklistProgress{Address: "Storgatan 1"}
	assert.False(t, p.IsStepComplete(StepIdentification))

	p = ChecklistProgress{PersonalNumber: "19900101-0017", Address: "   "}
	assert.False(t, p.IsStepComplete(StepIdentification))
}

func TestOverallProgress(t *testing.T) {
	p := ChecklistProgress{PasswordUpdated: true, SelectedSites: NewSet[SiteID]("ratsit")}

	got := p.OverallProgress()
	assert.Equal(t, Progress{Completed: 2, Total: 4, Fraction: 0.5, Percent: 50}, got)
	assert.Equal(t, []bool{true, true, false, false}, p.Steps())
	assert.Equal(t, StepURLsSubmitted, p.CurrentStep())
}

func TestCurrentStep_AllDone(t *testing.T) {
	assert.Equal(t, TotalChecklistSteps, fullProgress().CurrentStep())
}

func TestReminders_IncompleteStepsOnly(t *testing.T) {
	updated := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := ChecklistProgress{PasswordUpdated: true, RemovalURLs: NewSet("https://example.se/a"), UpdatedAt: updated}

	got := p.Reminders(updated.Add(time.Hour))
	assert.Equal(t, []Reminder{
		{Step: StepSitesSelected, Key: "step.2.title", At: updated},
		{Step: StepIdentification, Key: "step.4.title", At: updated},
	}, got)

	assert.Empty(t, fullProgress().Reminders(updated))
}

func TestReminders_UnsavedProgressStampedWithNow(t *testing.T) {
	now := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

	got := EmptyProgress("cust-1").Reminders(now)
	require.Len(t, got, TotalChecklistSteps)
	for _, r := range got {
		assert.Equal(t, now, r.At, r.Key)
	}
}

func TestSummary_OmitsPersonalNumber(t *testing.T) {
	s := fullProgress().Summary(time.Now())

	assert.Equal(t, 100, s.Progress.Percent)
	assert.Equal(t, []SiteID{"mrkoll", "ratsit"}, s.SelectedSites)
	assert.Equal(t, []string{"https://example.se/a"}, s.RemovalURLs)
	assert.NotNil(t, s.CompletedGuides)
	assert.Empty(t, s.Reminders)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_ZeroValueIsEmpty(t *testing.T) {
	var s Set[GuideID]
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Has("g1"))
	assert.Equal(t, []GuideID{}, s.Sorted())
}

func TestSet_DuplicatesCollapse(t *testing.T) {
	s := NewSet[GuideID]("g1", "g2", "g1")
	assert.Equal(t, 2, s.Len())
}

func TestSet_ToggleIsInvolutive(t *testing.T) {
	original := NewSet[GuideID]("g1", "g2")

	for _, id := range []GuideID{"g1", "g3"} {
		once, _ := original.Toggle(id)
		twice, _ := once.Toggle(id)
		assert.True(t, original.Equal(twice), "toggle %s twice", id)
		assert.False(t, original.Equal(once))
	}
}

func TestSet_ToggleReportsMembership(t *testing.T) {
	s := NewSet[GuideID]("g1")

	added, member := s.Toggle("g2")
	assert.True(t, member)
	assert.True(t, added.Has("g2"))

	removed, member := s.Toggle("g1")
	assert.False(t, member)
	assert.False(t, removed.Has("g1"))

	assert.True(t, s.Has("g1"), "receiver is unchanged")
}

func TestSet_StringsAndEqual(t *testing.T) {
	a := NewSet[SiteID]("ratsit", "eniro")

	assert.Equal(t, []string{"eniro", "ratsit"}, a.Strings())
	assert.True(t, SetFromStrings[SiteID]([]string{"ratsit", "eniro"}).Equal(a))
	assert.False(t, NewSet[SiteID]("ratsit").Equal(a))
}

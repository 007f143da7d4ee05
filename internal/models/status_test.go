// internal/models/status_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedNextStatuses_Table(t *testing.T) {
	tests := []struct {
		current Status
		allowed []Status
	}{
		{StatusApplied, []Status{StatusHRInterview, StatusRejected, StatusWithdrawn}},
		{StatusHRInterview, []Status{StatusTechInterview, StatusRejected}},
		{StatusTechInterview, []Status{StatusCaseStudy, StatusOffer, StatusRejected}},
		{StatusCaseStudy, []Status{StatusOffer, StatusRejected}},
		{StatusOffer, []Status{StatusWithdrawn}},
		{StatusRejected, []Status{}},
		{StatusWithdrawn, []Status{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			assert.Equal(t, tt.allowed, AllowedNextStatuses(tt.current))
		})
	}
}

func TestCanTransition_NoShortcuts(t *testing.T) {
	// The funnel must be walked stage by stage.
	assert.False(t, CanTransition(StatusApplied, StatusTechInterview))
	assert.False(t, CanTransition(StatusApplied, StatusCaseStudy))
	assert.False(t, CanTransition(StatusApplied, StatusOffer))
	assert.True(t, CanTransition(StatusApplied, StatusHRInterview))
}

func TestCanTransition_NothingTargetsApplied(t *testing.T) {
	for _, from := range AllStatuses() {
		assert.False(t, CanTransition(from, StatusApplied), "from=%s", from)
	}
}

func TestCanTransition_TerminalStatesAbsorb(t *testing.T) {
	for _, to := range AllStatuses() {
		assert.False(t, CanTransition(StatusRejected, to), "to=%s", to)
		assert.False(t, CanTransition(StatusWithdrawn, to), "to=%s", to)
	}
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusWithdrawn.IsTerminal())
	assert.False(t, StatusOffer.IsTerminal())
}

func TestCanTransition_OfferOnlyWithdraws(t *testing.T) {
	assert.True(t, CanTransition(StatusOffer, StatusWithdrawn))
	assert.False(t, CanTransition(StatusOffer, StatusRejected))
	assert.False(t, CanTransition(StatusOffer, StatusTechInterview))
}

func TestCanTransition_FullFunnelWalk(t *testing.T) {
	path := []Status{StatusApplied, StatusHRInterview, StatusTechInterview, StatusOffer, StatusWithdrawn}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("HR_INTERVIEW")
	require.NoError(t, err)
	assert.Equal(t, StatusHRInterview, s)

	// Input is normalized before matching.
	s, err = ParseStatus("hr_interview")
	require.NoError(t, err)
	assert.Equal(t, StatusHRInterview, s)

	s, err = ParseStatus("  offer ")
	require.NoError(t, err)
	assert.Equal(t, StatusOffer, s)

	_, err = ParseStatus("PHONE_SCREEN")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestParseStatus_AcceptsWholeEnumeration(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestValidJobType(t *testing.T) {
	assert.True(t, ValidJobType("remote"))
	assert.True(t, ValidJobType("hybrid"))
	assert.True(t, ValidJobType("onsite"))
	assert.False(t, ValidJobType("office"))
	assert.False(t, ValidJobType(""))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationProgress_StartsAtPersonalInfo(t *testing.T) {
	p := NewApplicationProgress()
	assert.Equal(t, SectionPersonalInfo, p.Current)
	assert.Equal(t, 1, p.StepNumber())
	assert.Equal(t, 5, p.TotalSteps())
	assert.False(t, p.Submitted())
}

func TestApplicationProgress_ForwardWalk(t *testing.T) {
	p := NewApplicationProgress()

	expected := []FormSection{
		SectionEmploymentDetails,
		SectionBankDetails,
		SectionDocuments,
		SectionReview,
	}
	for i, section := range expected {
		require.NoError(t, p.Next())
		assert.Equal(t, section, p.Current)
		assert.Equal(t, i+2, p.StepNumber())
	}

	// Review is the last section reachable via Next; finishing requires Submit.
	assert.Error(t, p.Next())
	assert.Equal(t, SectionReview, p.Current)
}

func TestApplicationProgress_Previous(t *testing.T) {
	p := NewApplicationProgress()
	require.NoError(t, p.Next())
	require.NoError(t, p.Next())
	assert.Equal(t, SectionBankDetails, p.Current)

	require.NoError(t, p.Previous())
	assert.Equal(t, SectionEmploymentDetails, p.Current)
	require.NoError(t, p.Previous())
	assert.Equal(t, SectionPersonalInfo, p.Current)

	// Cannot step back past the first section.
	assert.Error(t, p.Previous())
	assert.Equal(t, SectionPersonalInfo, p.Current)
}

func TestApplicationProgress_SubmitOnlyFromReview(t *testing.T) {
	p := NewApplicationProgress()
	for _, section := range []FormSection{
		SectionPersonalInfo,
		SectionEmploymentDetails,
		SectionBankDetails,
		SectionDocuments,
	} {
		p.Current = section
		assert.Error(t, p.Submit(), "submit from %s should fail", section)
	}

	p.Current = SectionReview
	require.NoError(t, p.Submit())
	assert.True(t, p.Submitted())
	assert.Equal(t, 0, p.StepNumber())
}

func TestApplicationProgress_SubmittedIsTerminal(t *testing.T) {
	p := &ApplicationProgress{Current: SectionSubmitted}
	assert.Error(t, p.Next())
	assert.Error(t, p.Previous())
	assert.Error(t, p.Submit())
	assert.Equal(t, SectionSubmitted, p.Current)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{LoanStatusPending, LoanStatusUnderReview, true},
		{LoanStatusPending, LoanStatusCancelled, true},
		{LoanStatusPending, LoanStatusApproved, false},
		{LoanStatusUnderReview, LoanStatusApproved, true},
		{LoanStatusUnderReview, LoanStatusOTPRequired, true},
		{LoanStatusOTPRequired, LoanStatusApproved, true},
		{LoanStatusApproved, LoanStatusOverdue, true},
		{LoanStatusApproved, LoanStatusPaid, true},
		{LoanStatusOverdue, LoanStatusApproved, true},
		{LoanStatusRejected, LoanStatusApproved, false},
		{LoanStatusPaid, LoanStatusApproved, false},
		{LoanStatusCancelled, LoanStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

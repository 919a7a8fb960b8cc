package domain

import (
	"fmt"
)

// FormSection identifies one stage of the multi-step loan application.
type FormSection string

const (
	SectionPersonalInfo      FormSection = "personalInfo"
	SectionEmploymentDetails FormSection = "employmentDetails"
	SectionBankDetails       FormSection = "bankDetails"
	SectionDocuments         FormSection = "documents"
	SectionReview            FormSection = "review"

	// SectionSubmitted is the terminal state reached by Submit.
	SectionSubmitted FormSection = "submitted"
)

// sectionOrder is the linear flow of the application form. Only
// single-step forward and backward moves are allowed; no section is
// skippable.
var sectionOrder = []FormSection{
	SectionPersonalInfo,
	SectionEmploymentDetails,
	SectionBankDetails,
	SectionDocuments,
	SectionReview,
}

// transitions is the explicit table of allowed moves per section.
var transitions = map[FormSection][]FormSection{
	SectionPersonalInfo:      {SectionEmploymentDetails},
	SectionEmploymentDetails: {SectionPersonalInfo, SectionBankDetails},
	SectionBankDetails:       {SectionEmploymentDetails, SectionDocuments},
	SectionDocuments:         {SectionBankDetails, SectionReview},
	SectionReview:            {SectionDocuments, SectionSubmitted},
	SectionSubmitted:         {},
}

// ApplicationProgress tracks which section of the application form is
// active. A fresh instance always starts at personalInfo; partial progress
// is not persisted across sessions.
type ApplicationProgress struct {
	Current FormSection `json:"current"`
}

// NewApplicationProgress starts a new application at the first section.
func NewApplicationProgress() *ApplicationProgress {
	return &ApplicationProgress{Current: SectionPersonalInfo}
}

// canMove checks the transition table.
func (p *ApplicationProgress) canMove(to FormSection) bool {
	for _, allowed := range transitions[p.Current] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Next advances to the following section. It fails on review (use Submit)
// and after submission.
func (p *ApplicationProgress) Next() error {
	idx := p.index()
	if idx < 0 || idx == len(sectionOrder)-1 {
		return fmt.Errorf("cannot advance from section %q", p.Current)
	}
	target := sectionOrder[idx+1]
	if !p.canMove(target) {
		return fmt.Errorf("transition from %q to %q not allowed", p.Current, target)
	}
	p.Current = target
	return nil
}

// Previous steps back to the preceding section.
func (p *ApplicationProgress) Previous() error {
	idx := p.index()
	if idx <= 0 {
		return fmt.Errorf("cannot go back from section %q", p.Current)
	}
	target := sectionOrder[idx-1]
	if !p.canMove(target) {
		return fmt.Errorf("transition from %q to %q not allowed", p.Current, target)
	}
	p.Current = target
	return nil
}

// Submit finishes the application. Only valid from the review section.
func (p *ApplicationProgress) Submit() error {
	if !p.canMove(SectionSubmitted) {
		return fmt.Errorf("cannot submit from section %q", p.Current)
	}
	p.Current = SectionSubmitted
	return nil
}

// Submitted reports whether the application has reached the terminal state.
func (p *ApplicationProgress) Submitted() bool {
	return p.Current == SectionSubmitted
}

// StepNumber returns the 1-based position of the active section, or 0 once
// submitted. Drives the progress indicator.
func (p *ApplicationProgress) StepNumber() int {
	if idx := p.index(); idx >= 0 {
		return idx + 1
	}
	return 0
}

// TotalSteps is the number of form sections before submission.
func (p *ApplicationProgress) TotalSteps() int {
	return len(sectionOrder)
}

func (p *ApplicationProgress) index() int {
	for i, s := range sectionOrder {
		if s == p.Current {
			return i
		}
	}
	return -1
}

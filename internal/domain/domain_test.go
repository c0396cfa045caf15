package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillValidateMessages(t *testing.T) {
	err := Skill{Name: "Go", Kind: SkillHard, Level: 9}.Validate()
	require.Error(t, err)
	// Numeric bounds are not reported as character lengths.
	assert.Contains(t, err.Error(), "at most 5")
	assert.NotContains(t, err.Error(), "characters")

	err = Skill{Name: "G", Kind: SkillHard, Level: 3}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "characters")

	require.NoError(t, Skill{Name: "Go", Kind: SkillHard, Level: 5}.Validate())
}

func TestExperienceValidateDates(t *testing.T) {
	start := NewDate(2020, 1, 1)
	end := NewDate(2019, 1, 1)

	err := Experience{Company: "Acme", Position: "Dev", StartDate: start, EndDate: &end}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "earlier than start date")

	ok := NewDate(2021, 1, 1)
	require.NoError(t, Experience{Company: "Acme", Position: "Dev", StartDate: start, EndDate: &ok}.Validate())
}

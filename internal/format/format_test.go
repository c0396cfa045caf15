package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

func sampleProfile() domain.CandidateProfile {
	end := domain.NewDate(2021, time.December, 31)
	return domain.CandidateProfile{
		ID:              "c-1",
		DisplayName:     "Ada Lovelace",
		HeadlineRole:    "Backend Engineer",
		Location:        "Berlin",
		WorkModes:       []domain.WorkMode{domain.WorkRemote, domain.WorkHybrid},
		ExperienceYears: 5.5,
		Experiences: []domain.Experience{
			{Company: "Old Corp", Position: "Junior Dev", StartDate: domain.NewDate(2017, time.January, 1), EndDate: &end},
			{Company: "Acme", Position: "Senior Dev", StartDate: domain.NewDate(2022, time.January, 1), Responsibilities: "built APIs"},
		},
		Skills: []domain.Skill{
			{Name: "Go", Kind: domain.SkillHard, Level: 5},
			{Name: "Docker", Kind: domain.SkillTool, Level: 4},
			{Name: "English", Kind: domain.SkillLanguage, Level: 4},
		},
		Projects: []domain.Project{
			{Title: "it-recruiter", Description: "matching service", Links: map[string]string{"main_link": "https://example.com"}},
		},
	}
}

func TestProfileRendering(t *testing.T) {
	text := Profile(sampleProfile())

	assert.Contains(t, text, "<b>👤 Ada Lovelace</b>")
	assert.Contains(t, text, "<i>Backend Engineer</i>")
	assert.Contains(t, text, "<b>📍 Location:</b> Berlin")
	assert.Contains(t, text, "<b>💻 Work modes:</b> remote, hybrid")
	assert.Contains(t, text, "~5.5 years")
	assert.Contains(t, text, "(2022.01.01 - present)")
	assert.Contains(t, text, "(2017.01.01 - 2021.12.31)")
	assert.Contains(t, text, "<b>Hard skills:</b> Go")
	assert.Contains(t, text, "<b>Tools:</b> Docker")
	assert.Contains(t, text, "<b>Languages:</b> English")
	assert.Contains(t, text, `<a href="https://example.com">link</a>`)

	// Newest experience is listed before the older one.
	require.Less(t, strings.Index(text, "Senior Dev"), strings.Index(text, "Junior Dev"))
}

func TestProfileIsDeterministic(t *testing.T) {
	p := sampleProfile()
	assert.Equal(t, Profile(p), Profile(p))
}

func TestProfileCapsExperiencesAtThree(t *testing.T) {
	p := sampleProfile()
	p.Experiences = nil
	for y := 2015; y < 2021; y++ {
		p.Experiences = append(p.Experiences, domain.Experience{
			Company:   "Co",
			Position:  "Dev",
			StartDate: domain.NewDate(y, time.January, 1),
		})
	}
	text := Profile(p)
	assert.Equal(t, 6, len(p.Experiences))
	assert.Equal(t, 3, strings.Count(text, "<b>Dev</b>"))
	// Oldest entries fall off the card.
	assert.NotContains(t, text, "2015.01.01")
	assert.Contains(t, text, "2020.01.01")
}

func TestProfileEscapesUserText(t *testing.T) {
	p := sampleProfile()
	p.DisplayName = "<script>alert(1)</script>"
	text := Profile(p)
	assert.NotContains(t, text, "<script>")
	assert.Contains(t, text, "&lt;script&gt;")
}

func TestProfileWithoutExperiences(t *testing.T) {
	p := sampleProfile()
	p.Experiences = nil
	p.ExperienceYears = 2
	text := Profile(p)
	assert.Contains(t, text, "<b>📈 Experience:</b> 2 years")
	assert.NotContains(t, text, "Work history")
}

func TestSearchResultHeader(t *testing.T) {
	text := SearchResult(sampleProfile(), 0, 7)
	assert.True(t, strings.HasPrefix(text, "<b>🔎 Candidate 1 of 7</b>\n\n"))
	assert.Contains(t, text, "Ada Lovelace")
}

func TestContacts(t *testing.T) {
	text := Contacts(domain.Contacts{Telegram: "@ada", Email: "a@b.co"})
	assert.Contains(t, text, "Telegram: @ada")
	assert.Contains(t, text, "Email: a@b.co")
	assert.NotContains(t, text, "Phone")

	empty := Contacts(domain.Contacts{})
	assert.Contains(t, empty, "No contact channels shared")
}

func TestLongSnippetsAreTruncated(t *testing.T) {
	p := sampleProfile()
	p.Projects[0].Description = strings.Repeat("x", 300)
	text := Profile(p)
	assert.Contains(t, text, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, text, strings.Repeat("x", 201))
}

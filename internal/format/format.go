// Package format renders profiles and search results as Telegram HTML.
// All functions are pure: same input, same output bytes, no I/O.
package format

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

const (
	maxShownExperiences = 3
	maxShownProjects    = 3
	snippetLimit        = 200
)

// Profile renders a full candidate card.
func Profile(p domain.CandidateProfile) string {
	var b strings.Builder

	name := p.DisplayName
	if name == "" {
		name = "Name not set"
	}
	role := p.HeadlineRole
	if role == "" {
		role = "Role not set"
	}
	location := p.Location
	if location == "" {
		location = "Not set"
	}
	fmt.Fprintf(&b, "<b>👤 %s</b>\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<i>%s</i>\n\n", html.EscapeString(role))
	fmt.Fprintf(&b, "<b>📍 Location:</b> %s\n", html.EscapeString(location))
	fmt.Fprintf(&b, "<b>💻 Work modes:</b> %s\n", workModes(p.WorkModes))

	if len(p.Experiences) > 0 {
		fmt.Fprintf(&b, "<b>📈 Total experience:</b> ~%s years\n\n", years(p.ExperienceYears))
		b.WriteString("<b>💼 Work history:</b>\n")
		for _, exp := range newestFirst(p.Experiences) {
			end := "present"
			if exp.EndDate != nil {
				end = dotted(exp.EndDate.String())
			}
			fmt.Fprintf(&b, "  • <b>%s</b> at %s\n", html.EscapeString(exp.Position), html.EscapeString(exp.Company))
			fmt.Fprintf(&b, "    <i>(%s - %s)</i>\n", dotted(exp.StartDate.String()), end)
			if exp.Responsibilities != "" {
				fmt.Fprintf(&b, "    <i>%s</i>\n", html.EscapeString(truncate(exp.Responsibilities, snippetLimit)))
			}
		}
	} else {
		fmt.Fprintf(&b, "<b>📈 Experience:</b> %s years\n", years(p.ExperienceYears))
	}

	if len(p.Skills) > 0 {
		b.WriteString("\n<b>🛠 Skills and tools:</b>\n")
		if names := skillNames(p.Skills, domain.SkillHard); names != "" {
			fmt.Fprintf(&b, " • <b>Hard skills:</b> %s\n", names)
		}
		if names := skillNames(p.Skills, domain.SkillTool); names != "" {
			fmt.Fprintf(&b, " • <b>Tools:</b> %s\n", names)
		}
		if names := skillNames(p.Skills, domain.SkillLanguage); names != "" {
			fmt.Fprintf(&b, " • <b>Languages:</b> %s\n", names)
		}
	}

	if len(p.Projects) > 0 {
		b.WriteString("\n<b>🚀 Projects:</b>\n")
		shown := p.Projects
		if len(shown) > maxShownProjects {
			shown = shown[:maxShownProjects]
		}
		for _, prj := range shown {
			title := prj.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(&b, "  • <b>%s</b>\n", html.EscapeString(title))
			if prj.Description != "" {
				fmt.Fprintf(&b, "    <i>%s</i>\n", html.EscapeString(truncate(prj.Description, snippetLimit)))
			}
			if link := prj.Links["main_link"]; link != "" {
				fmt.Fprintf(&b, "    (<a href=\"%s\">link</a>)\n", html.EscapeString(link))
			}
		}
	}

	return b.String()
}

// SearchResult renders a candidate card with its position in the
// result set.
func SearchResult(p domain.CandidateProfile, index, total int) string {
	return fmt.Sprintf("<b>🔎 Candidate %d of %d</b>\n\n%s", index+1, total, Profile(p))
}

// Contacts renders disclosed contact channels.
func Contacts(c domain.Contacts) string {
	var b strings.Builder
	b.WriteString("<b>📇 Contacts:</b>\n")
	if c.Telegram != "" {
		fmt.Fprintf(&b, " • Telegram: %s\n", html.EscapeString(c.Telegram))
	}
	if c.Email != "" {
		fmt.Fprintf(&b, " • Email: %s\n", html.EscapeString(c.Email))
	}
	if c.Phone != "" {
		fmt.Fprintf(&b, " • Phone: %s\n", html.EscapeString(c.Phone))
	}
	if c.Empty() {
		b.WriteString(" • No contact channels shared\n")
	}
	return b.String()
}

// newestFirst orders by start date descending and caps the list. The
// input slice is never modified.
func newestFirst(exps []domain.Experience) []domain.Experience {
	out := make([]domain.Experience, len(exps))
	copy(out, exps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate.Time)
	})
	if len(out) > maxShownExperiences {
		out = out[:maxShownExperiences]
	}
	return out
}

func skillNames(skills []domain.Skill, kind domain.SkillKind) string {
	var names []string
	for _, s := range skills {
		if s.Kind == kind {
			names = append(names, html.EscapeString(s.Name))
		}
	}
	return strings.Join(names, ", ")
}

func workModes(modes []domain.WorkMode) string {
	if len(modes) == 0 {
		return "Not set"
	}
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

func years(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func dotted(isoDate string) string {
	return strings.ReplaceAll(isoDate, "-", ".")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

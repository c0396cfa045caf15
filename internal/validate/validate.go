// Package validate holds the pure input parsers used by the
// conversation flows. Every function takes raw user text and either
// returns a typed value or fails with a *domain.ValidationError; none
// of them log or perform I/O.
package validate

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

// presentAliases are accepted in place of an end date to mean the
// position is still held.
var presentAliases = map[string]struct{}{
	"present": {},
	"now":     {},
	"current": {},
	"ongoing": {},
}

// Date parses an ISO YYYY-MM-DD string into a calendar date.
func Date(text string) (domain.Date, error) {
	s := strings.TrimSpace(text)
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return domain.Date{}, domain.Invalidf("invalid date %q: use YYYY-MM-DD", s)
	}
	return domain.Date{Time: t}, nil
}

// EndDate parses an experience end date: either an ISO date or one of
// the "present" aliases, which yield nil.
func EndDate(text string) (*domain.Date, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if _, ok := presentAliases[s]; ok {
		return nil, nil
	}
	d, err := Date(text)
	if err != nil {
		return nil, domain.Invalidf("invalid date %q: use YYYY-MM-DD or %q", strings.TrimSpace(text), "present")
	}
	return &d, nil
}

// IsPresentAlias reports whether text is one of the accepted
// "still employed" markers.
func IsPresentAlias(text string) bool {
	_, ok := presentAliases[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// TextField checks a free-text field against a rune length range.
func TextField(text, label string, min, max int) (string, error) {
	s := strings.TrimSpace(text)
	n := len([]rune(s))
	if n < min || n > max {
		return "", domain.Invalidf("%s must be %d-%d characters", label, min, max)
	}
	return s, nil
}

// Name validates a candidate display name.
func Name(text string) (string, error) { return TextField(text, "name", 2, 100) }

// HeadlineRole validates a headline role.
func HeadlineRole(text string) (string, error) { return TextField(text, "role", 2, 100) }

// Location validates a location and normalizes its first letter to
// upper case.
func Location(text string) (string, error) {
	s, err := TextField(text, "location", 2, 100)
	if err != nil {
		return "", err
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return "", domain.Invalidf("location must be valid text")
	}
	return string(unicode.ToUpper(r)) + s[size:], nil
}

// SkillLevel parses a numeric proficiency level in [1,5].
func SkillLevel(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 5 {
		return 0, domain.Invalidf("skill level must be an integer between 1 and 5")
	}
	return n, nil
}

// CSV splits comma-separated values, trimming and lowercasing each
// entry and dropping empties.
func CSV(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToLower(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkillsCSV parses a non-empty comma-separated skill list.
func SkillsCSV(text string) ([]string, error) {
	skills := CSV(text)
	if len(skills) == 0 {
		return nil, domain.Invalidf("enter at least one skill, comma-separated")
	}
	return skills, nil
}

// ExperienceRange parses "min-max", "min+" or a single number of years.
func ExperienceRange(text string) (min float64, max *float64, err error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if open, ok := strings.CutSuffix(s, "+"); ok {
		min, perr := strconv.ParseFloat(strings.TrimSpace(open), 64)
		if perr != nil || min < 0 {
			return 0, nil, domain.Invalidf("invalid experience range: use a number, min-max or min+, e.g. 2-5")
		}
		return min, nil, nil
	}
	parts := strings.SplitN(s, "-", 2)
	min, perr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if perr != nil || min < 0 {
		return 0, nil, domain.Invalidf("invalid experience range: use a number or min-max, e.g. 2-5")
	}
	if len(parts) == 2 {
		v, perr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if perr != nil || v < min {
			return 0, nil, domain.Invalidf("invalid experience range: use a number or min-max, e.g. 2-5")
		}
		max = &v
	}
	return min, max, nil
}

// Years parses a standalone experience-years value.
func Years(text string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 60 {
		return 0, domain.Invalidf("experience must be a number of years, e.g. 3.5")
	}
	return v, nil
}

// ProjectLinks parses a comma-separated "label:url" list. A bare URL
// without a label is stored under "main_link".
func ProjectLinks(text string) (map[string]string, error) {
	links := make(map[string]string)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, ":") && !strings.HasPrefix(strings.ToLower(part), "http") {
			k, v, _ := strings.Cut(part, ":")
			links[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		} else {
			links["main_link"] = part
		}
	}
	for _, u := range links {
		if !domain.IsURL(u) {
			return nil, domain.Invalidf("invalid URL: %s", u)
		}
	}
	if len(links) == 0 {
		return nil, nil
	}
	return links, nil
}

// Project assembles and validates a project from its collected parts.
func Project(title, description, linksText string) (domain.Project, error) {
	links, err := ProjectLinks(linksText)
	if err != nil {
		return domain.Project{}, err
	}
	p := domain.Project{Title: title, Description: description, Links: links}
	if err := p.Validate(); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// Contacts parses a "key:value, key2:value2" contact list with keys
// email, phone and telegram.
func Contacts(text string) (domain.Contacts, error) {
	pairs := strings.Split(text, ",")
	var c domain.Contacts
	seen := false
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			return domain.Contacts{}, domain.Invalidf("format: key:value, key2:value2 (keys: email, phone, telegram)")
		}
		val := strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "email":
			c.Email = val
		case "phone":
			c.Phone = val
		case "telegram", "tg":
			c.Telegram = val
		default:
			return domain.Contacts{}, domain.Invalidf("unknown contact key %q (keys: email, phone, telegram)", strings.TrimSpace(k))
		}
		seen = true
	}
	if !seen {
		return domain.Contacts{}, domain.Invalidf("format: key:value, key2:value2 (keys: email, phone, telegram)")
	}
	if err := c.Validate(); err != nil {
		return domain.Contacts{}, err
	}
	return c, nil
}

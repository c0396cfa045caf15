// Package domain defines the typed records exchanged between the
// conversation flows and the backend services: candidate profiles,
// their nested blocks (experience, skills, projects, contacts) and
// the employer search filters.
package domain

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// List caps enforced before any persistence call.
const (
	MaxExperiences = 10
	MaxSkills      = 20
	MaxProjects    = 10
)

// SkillKind classifies a skill entry.
type SkillKind string

const (
	SkillHard     SkillKind = "hard"
	SkillTool     SkillKind = "tool"
	SkillLanguage SkillKind = "language"
)

// WorkMode is a candidate's acceptable work format.
type WorkMode string

const (
	WorkRemote WorkMode = "remote"
	WorkOffice WorkMode = "office"
	WorkHybrid WorkMode = "hybrid"
)

// Visibility controls who may see candidate contacts.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityOnRequest Visibility = "on_request"
	VisibilityHidden    Visibility = "hidden"
)

// Decision is an employer's verdict on a search result.
type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionDislike Decision = "dislike"
)

// ValidationError reports malformed user input. It is always
// recoverable: the conversation re-prompts the same step with the
// message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalidf builds a ValidationError from a format string.
func Invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var structValidator = validator.New()

// Experience is one work history entry.
type Experience struct {
	Company          string `json:"company" validate:"min=2,max=100"`
	Position         string `json:"position" validate:"min=2,max=100"`
	StartDate        Date   `json:"start_date"`
	EndDate          *Date  `json:"end_date"`
	Responsibilities string `json:"responsibilities,omitempty" validate:"max=1000"`
}

// Validate checks field constraints plus date ordering. A nil EndDate
// means the position is current and always passes the ordering check.
func (e Experience) Validate() error {
	if err := structValidator.Struct(e); err != nil {
		return invalidFromTags("experience", err)
	}
	today := Today()
	if e.StartDate.After(today.Time) {
		return Invalidf("start date cannot be in the future")
	}
	if e.EndDate != nil {
		if e.EndDate.Before(e.StartDate.Time) {
			return Invalidf("end date cannot be earlier than start date")
		}
		if e.EndDate.After(today.Time) {
			return Invalidf("end date cannot be in the future")
		}
	}
	return nil
}

// Skill is one structured skill entry.
type Skill struct {
	Name  string    `json:"skill" validate:"min=2,max=50"`
	Kind  SkillKind `json:"kind" validate:"oneof=hard tool language"`
	Level int       `json:"level" validate:"min=1,max=5"`
}

// Validate checks the skill field constraints.
func (s Skill) Validate() error {
	if err := structValidator.Struct(s); err != nil {
		return invalidFromTags("skill", err)
	}
	return nil
}

// Project is one portfolio entry. Links map a label to a URL.
type Project struct {
	Title       string            `json:"title" validate:"min=2,max=100"`
	Description string            `json:"description,omitempty" validate:"max=500"`
	Links       map[string]string `json:"links,omitempty"`
}

// Validate checks the project field constraints and that every link
// has a scheme and a host.
func (p Project) Validate() error {
	if err := structValidator.Struct(p); err != nil {
		return invalidFromTags("project", err)
	}
	for _, u := range p.Links {
		if !IsURL(u) {
			return Invalidf("invalid URL: %s", u)
		}
	}
	return nil
}

// Contacts holds optional contact channels for a candidate.
type Contacts struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

// Validate checks email shape and that the phone number is possible
// under international numbering rules.
func (c Contacts) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return invalidFromTags("contacts", err)
	}
	if c.Phone != "" {
		parsed, err := phonenumbers.Parse(c.Phone, "")
		if err != nil || !phonenumbers.IsPossibleNumber(parsed) {
			return Invalidf("invalid phone number format")
		}
	}
	return nil
}

// Empty reports whether no contact channel is set.
func (c Contacts) Empty() bool {
	return c.Email == "" && c.Phone == "" && c.Telegram == ""
}

// FileRef points at a stored file in the file service.
type FileRef struct {
	FileID string `json:"file_id"`
}

// CandidateProfile is the full profile record returned by the
// candidate service.
type CandidateProfile struct {
	ID                 string       `json:"id"`
	TelegramID         int64        `json:"telegram_id"`
	DisplayName        string       `json:"display_name"`
	HeadlineRole       string       `json:"headline_role"`
	Location           string       `json:"location,omitempty"`
	WorkModes          []WorkMode   `json:"work_modes,omitempty"`
	ExperienceYears    float64      `json:"experience_years,omitempty"`
	Experiences        []Experience `json:"experiences,omitempty"`
	Skills             []Skill      `json:"skills,omitempty"`
	Projects           []Project    `json:"projects,omitempty"`
	Contacts           *Contacts    `json:"contacts,omitempty"`
	ContactsVisibility Visibility   `json:"contacts_visibility,omitempty"`
	AvatarFileID       string       `json:"avatar_file_id,omitempty"`
	Resumes            []FileRef    `json:"resumes,omitempty"`
	Avatars            []FileRef    `json:"avatars,omitempty"`
}

// HasResume reports whether the profile carries at least one resume.
func (p CandidateProfile) HasResume() bool { return len(p.Resumes) > 0 }

// SearchFilters is the employer search query.
type SearchFilters struct {
	Role          string   `json:"role"`
	MustSkills    []string `json:"must_skills"`
	NiceSkills    []string `json:"nice_skills,omitempty"`
	ExperienceMin float64  `json:"experience_min"`
	ExperienceMax *float64 `json:"experience_max,omitempty"`
	LocationQuery string   `json:"location_query,omitempty"`
	Page          int      `json:"page,omitempty"`
	Size          int      `json:"size,omitempty"`
}

// CheckListLength enforces a list cap before persistence. The label
// names the item type in the user-facing message.
func CheckListLength(n, max int, label string) error {
	if n > max {
		return Invalidf("at most %d %s allowed", max, label)
	}
	return nil
}

func invalidFromTags(entity string, err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "min":
			if fe.Kind() == reflect.String {
				return Invalidf("%s: %s must be at least %s characters", entity, fe.Field(), fe.Param())
			}
			return Invalidf("%s: %s must be at least %s", entity, fe.Field(), fe.Param())
		case "max":
			if fe.Kind() == reflect.String {
				return Invalidf("%s: %s must be at most %s characters", entity, fe.Field(), fe.Param())
			}
			return Invalidf("%s: %s must be at most %s", entity, fe.Field(), fe.Param())
		case "oneof":
			return Invalidf("%s: %s must be one of: %s", entity, fe.Field(), fe.Param())
		case "email":
			return Invalidf("invalid email format")
		default:
			return Invalidf("%s: invalid %s", entity, fe.Field())
		}
	}
	return Invalidf("%s: invalid input", entity)
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return Date{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// Package session stores per-user conversation state behind a
// swappable Store interface. The memory backend serves tests and
// development, Redis and Postgres serve deployments that must survive
// restarts.
package session

import (
	"time"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

// State identifies a single conversation step. The empty string means
// no conversation is active.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = ""

// Mode tells a shared flow step whether it runs inside initial
// registration or inside a profile edit.
type Mode string

const (
	ModeRegister Mode = "register"
	ModeEdit     Mode = "edit"
)

// Scratch accumulates repeatable blocks while a sub-flow collects
// them. Partial fields hold one half-entered item; the lists hold the
// finished items until the loop closes and the engine moves them into
// the draft or a PATCH payload.
type Scratch struct {
	Experiences []domain.Experience `json:"experiences,omitempty"`
	Skills      []domain.Skill      `json:"skills,omitempty"`
	Projects    []domain.Project    `json:"projects,omitempty"`

	ExpCompany   string       `json:"exp_company,omitempty"`
	ExpPosition  string       `json:"exp_position,omitempty"`
	ExpStartDate *domain.Date `json:"exp_start_date,omitempty"`
	ExpEndDate   *domain.Date `json:"exp_end_date,omitempty"`

	SkillName string           `json:"skill_name,omitempty"`
	SkillKind domain.SkillKind `json:"skill_kind,omitempty"`

	ProjectTitle       string `json:"project_title,omitempty"`
	ProjectDescription string `json:"project_description,omitempty"`
}

// ResetPartial drops the half-entered item but keeps collected lists.
func (s *Scratch) ResetPartial() {
	s.ExpCompany, s.ExpPosition = "", ""
	s.ExpStartDate, s.ExpEndDate = nil, nil
	s.SkillName, s.SkillKind = "", ""
	s.ProjectTitle, s.ProjectDescription = "", ""
}

// Edit tracks which profile field is being changed and the replacement
// values collected so far.
type Edit struct {
	Field    string             `json:"field,omitempty"`
	Name     string             `json:"name,omitempty"`
	Role     string             `json:"role,omitempty"`
	Location string             `json:"location,omitempty"`
	Contacts *domain.Contacts   `json:"contacts,omitempty"`
	Modes    []domain.WorkMode  `json:"modes,omitempty"`
	Years    *float64           `json:"years,omitempty"`
	Visible  *domain.Visibility `json:"visible,omitempty"`
}

// Upload remembers what an incoming document or photo is for.
type Upload struct {
	Purpose string `json:"purpose,omitempty"` // "resume" or "avatar"
}

// Search carries an employer's active search: the gathered filters,
// the server-side session, and the result window being browsed.
type Search struct {
	EmployerID string                    `json:"employer_id,omitempty"`
	SessionID  string                    `json:"session_id,omitempty"`
	Filters    domain.SearchFilters      `json:"filters"`
	Results    []domain.CandidateProfile `json:"results,omitempty"`
	Total      int                       `json:"total,omitempty"`
	Index      int                       `json:"index,omitempty"`
}

// Session is the full conversation state for one Telegram user. It is
// JSON-serializable so every backend can persist it as one document.
type Session struct {
	State        State     `json:"state"`
	Mode         Mode      `json:"mode,omitempty"`
	LastActivity time.Time `json:"last_activity"`

	Draft        domain.CandidateProfile  `json:"draft"`
	ProfileCache *domain.CandidateProfile `json:"profile_cache,omitempty"`

	Scratch Scratch `json:"scratch"`
	Edit    Edit    `json:"edit"`
	Upload  Upload  `json:"upload"`
	Search  Search  `json:"search"`
}

// New returns a fresh session stamped with the current time.
func New() *Session {
	return &Session{State: StateIdle, LastActivity: time.Now().UTC()}
}

// Touch records user activity, resetting the idle clock.
func (s *Session) Touch() {
	s.LastActivity = time.Now().UTC()
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return time.Since(s.LastActivity) > ttl
}

// InFlow reports whether a conversation is active.
func (s *Session) InFlow() bool {
	return s.State != StateIdle
}

// ResetFlow drops all flow data but keeps the profile cache so a
// cancelled conversation does not force a profile refetch.
func (s *Session) ResetFlow() {
	cache := s.ProfileCache
	*s = *New()
	s.ProfileCache = cache
}

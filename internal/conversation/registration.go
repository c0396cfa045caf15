package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tghelpers "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/helpers"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/validate"

	tele "gopkg.in/telebot.v4"
)

// Start greets the user and offers the role choice. Any active flow is
// dropped first.
func (e *Engine) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	userID := c.Sender().ID

	sess, err := e.store.Get(ctx, userID)
	if err != nil || sess == nil {
		sess = session.New()
	}
	sess.ResetFlow()
	sess.Touch()
	if err := e.save(ctx, userID, sess); err != nil {
		return err
	}
	return c.Send(msgWelcome, roleKeyboard())
}

func (e *Engine) cbRoleSelected(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if payload == "employer" {
		sess.ResetFlow()
		return tghelpers.EditOrSendHTML(c, msgEmployerSoon)
	}

	userID := c.Sender().ID
	profile, err := e.candidates.Create(ctx, userID, senderName(c))
	if err != nil {
		logger.Error(ctx, "conv", "candidate.create",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return tghelpers.EditOrSendHTML(c, msgRegistrationError)
	}
	if profile == nil {
		// Already registered.
		sess.ResetFlow()
		return tghelpers.EditOrSendHTML(c, msgProfileExists)
	}

	sess.ResetFlow()
	sess.Mode = session.ModeRegister
	sess.Draft = *profile
	sess.State = StateRegName
	logger.Info(ctx, "conv", "registration.start", slog.Int64("user_id", userID))
	return tghelpers.EditOrSendHTML(c, msgProfileCreated)
}

func (e *Engine) handleRegName(ctx context.Context, c tele.Context, sess *session.Session) error {
	v, err := validate.Name(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Draft.DisplayName = v
	return advance(c, sess, StateRegRole, msgEnterRole)
}

func (e *Engine) handleRegRole(ctx context.Context, c tele.Context, sess *session.Session) error {
	v, err := validate.HeadlineRole(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Draft.HeadlineRole = v
	return e.askExperienceSection(c, sess)
}

func (e *Engine) handleLocation(ctx context.Context, c tele.Context, sess *session.Session) error {
	v, err := validate.Location(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Draft.Location = v
	sess.State = StateWorkModes
	return c.Send(msgSelectModes, workModesKeyboard(sess.Draft.WorkModes))
}

func (e *Engine) cbWorkMode(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateWorkModes) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}

	if payload != "done" {
		sess.Draft.WorkModes = toggleMode(sess.Draft.WorkModes, domain.WorkMode(payload))
		return tghelpers.EditOrSendHTML(c, msgSelectModes, workModesKeyboard(sess.Draft.WorkModes))
	}

	if len(sess.Draft.WorkModes) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: msgModesRequired})
	}

	if sess.Mode == session.ModeEdit {
		return e.patchField(ctx, c, sess, map[string]any{"work_modes": sess.Draft.WorkModes})
	}

	chosen := fmt.Sprintf(msgModesChosen, joinModes(sess.Draft.WorkModes))
	sess.State = StateContacts
	return tghelpers.EditOrSendHTML(c, chosen+"\n\n"+msgEnterContacts)
}

func (e *Engine) handleContacts(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	if text == "/skip" {
		// No contacts means there is nothing to show anyone.
		sess.Draft.Contacts = nil
		sess.Draft.ContactsVisibility = domain.VisibilityHidden
		if sess.Mode == session.ModeEdit {
			return e.patchField(ctx, c, sess, map[string]any{
				"contacts":            nil,
				"contacts_visibility": domain.VisibilityHidden,
			})
		}
		return e.askResume(c, sess)
	}

	ct, err := validate.Contacts(text)
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Draft.Contacts = &ct
	sess.State = StateVisibility
	return c.Send(msgSelectVisible, visibilityKeyboard())
}

func (e *Engine) cbVisibility(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateVisibility) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	v := domain.Visibility(payload)
	sess.Draft.ContactsVisibility = v

	if sess.Mode == session.ModeEdit {
		return e.patchField(ctx, c, sess, map[string]any{
			"contacts":            sess.Draft.Contacts,
			"contacts_visibility": v,
		})
	}

	if err := tghelpers.EditOrSendHTML(c, fmt.Sprintf(msgVisibleChosen, string(v))); err != nil {
		return err
	}
	return e.askResume(c, sess)
}

func (e *Engine) askResume(c tele.Context, sess *session.Session) error {
	sess.Upload.Purpose = "resume"
	return advance(c, sess, StateUploadResume, msgUploadResume)
}

func (e *Engine) askAvatar(c tele.Context, sess *session.Session) error {
	sess.Upload.Purpose = "avatar"
	return advance(c, sess, StateUploadAvatar, msgUploadAvatar)
}

// finishRegistration writes the whole draft to the candidate service
// in one PATCH.
func (e *Engine) finishRegistration(ctx context.Context, c tele.Context, sess *session.Session) error {
	userID := c.Sender().ID
	draft := sess.Draft

	if draft.Contacts != nil && draft.ContactsVisibility == "" {
		draft.ContactsVisibility = domain.VisibilityOnRequest
	}

	patch := map[string]any{
		"display_name":        draft.DisplayName,
		"headline_role":       draft.HeadlineRole,
		"location":            draft.Location,
		"work_modes":          draft.WorkModes,
		"experiences":         draft.Experiences,
		"skills":              draft.Skills,
		"projects":            draft.Projects,
		"contacts":            draft.Contacts,
		"contacts_visibility": draft.ContactsVisibility,
	}
	if years := totalYears(draft.Experiences); years > 0 {
		patch["experience_years"] = years
	}

	if err := e.candidates.Update(ctx, userID, patch); err != nil {
		logger.Error(ctx, "conv", "registration.finish",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		sess.ResetFlow()
		return c.Send(msgRegistrationError)
	}

	logger.Info(ctx, "conv", "registration.finish",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	sess.ProfileCache = nil
	sess.ResetFlow()
	return c.Send(msgRegistrationDone)
}

func toggleMode(modes []domain.WorkMode, m domain.WorkMode) []domain.WorkMode {
	switch m {
	case domain.WorkRemote, domain.WorkOffice, domain.WorkHybrid:
	default:
		return modes
	}
	for i, have := range modes {
		if have == m {
			return append(modes[:i], modes[i+1:]...)
		}
	}
	return append(modes, m)
}

func joinModes(modes []domain.WorkMode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// totalYears sums experience spans, counting open-ended entries up to
// today. Overlaps are not merged.
func totalYears(exps []domain.Experience) float64 {
	var days float64
	today := domain.Today()
	for _, exp := range exps {
		end := today.Time
		if exp.EndDate != nil {
			end = exp.EndDate.Time
		}
		if d := end.Sub(exp.StartDate.Time); d > 0 {
			days += d.Hours() / 24
		}
	}
	years := days / 365.25
	return math.Round(years*10) / 10
}

func senderName(c tele.Context) string {
	u := c.Sender()
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

// patchField performs a single-field profile update used by the edit
// flow, then re-renders the profile card.
func (e *Engine) patchField(ctx context.Context, c tele.Context, sess *session.Session, patch map[string]any) error {
	userID := c.Sender().ID
	if err := e.candidates.Update(ctx, userID, patch); err != nil {
		logger.Error(ctx, "conv", "profile.patch",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		sess.ResetFlow()
		return c.Send(msgFieldUpdateError)
	}
	sess.ProfileCache = nil
	sess.ResetFlow()
	if err := c.Send(msgFieldUpdated); err != nil {
		return err
	}
	return e.sendProfile(ctx, c, sess)
}

// registration resumes after an upload step ends, whether a file was
// stored or the step was skipped.
func (e *Engine) afterUpload(ctx context.Context, c tele.Context, sess *session.Session) error {
	if sess.Mode == session.ModeEdit {
		sess.ResetFlow()
		return e.sendProfile(ctx, c, sess)
	}
	if sess.State == StateUploadResume {
		return e.askAvatar(c, sess)
	}
	return e.finishRegistration(ctx, c, sess)
}

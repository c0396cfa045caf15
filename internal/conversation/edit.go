package conversation

import (
	"context"
	"log/slog"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tghelpers "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/helpers"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/format"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/validate"

	tele "gopkg.in/telebot.v4"
)

// Profile shows the candidate's profile card with action buttons.
func (e *Engine) Profile(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "profile")
	userID := c.Sender().ID

	sess, err := e.store.Get(ctx, userID)
	if err != nil || sess == nil {
		sess = session.New()
	}
	sess.ResetFlow()
	sess.Touch()
	if err := e.sendProfile(ctx, c, sess); err != nil {
		return err
	}
	return e.save(ctx, userID, sess)
}

// profile returns the cached profile, refetching on a miss. A nil
// result with nil error means the user is not registered.
func (e *Engine) profile(ctx context.Context, sess *session.Session, userID int64) (*domain.CandidateProfile, error) {
	if sess.ProfileCache != nil {
		logger.Debug(ctx, "conv", "profile.cache",
			slog.String("cache", "hit"),
			slog.Int64("user_id", userID),
		)
		return sess.ProfileCache, nil
	}
	p, err := tghelpers.CurrentUser[*domain.CandidateProfile](ctx, e.candidates, userID)
	if err != nil || p == nil {
		return p, err
	}
	sess.ProfileCache = p
	logger.Debug(ctx, "conv", "profile.cache",
		slog.String("cache", "miss"),
		slog.Int64("user_id", userID),
	)
	return p, nil
}

func (e *Engine) sendProfile(ctx context.Context, c tele.Context, sess *session.Session) error {
	userID := c.Sender().ID
	p, err := e.profile(ctx, sess, userID)
	if err != nil {
		logger.Error(ctx, "conv", "profile.fetch",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return c.Send(msgFieldUpdateError)
	}
	if p == nil {
		return c.Send(msgProfileNotFound)
	}

	caption := format.Profile(*p)
	markup := profileActionsKeyboard(p.HasResume(), avatarID(p) != "")

	if id := avatarID(p); id != "" {
		if url, err := e.files.DownloadURL(ctx, id); err == nil {
			photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
			return c.Send(photo, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
		}
		// Fall back to text when the file service is unavailable.
	}
	return tghelpers.SendHTML(c, caption, markup)
}

func avatarID(p *domain.CandidateProfile) string {
	if p.AvatarFileID != "" {
		return p.AvatarFileID
	}
	if len(p.Avatars) > 0 {
		return p.Avatars[0].FileID
	}
	return ""
}

func (e *Engine) cbProfileAction(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	switch payload {
	case "edit":
		sess.Mode = session.ModeEdit
		sess.State = StateEditMenu
		return tghelpers.EditOrSendHTML(c, msgChooseField, editMenuKeyboard())
	case "upload_resume":
		sess.Mode = session.ModeEdit
		return e.askResume(c, sess)
	case "upload_avatar":
		sess.Mode = session.ModeEdit
		return e.askAvatar(c, sess)
	case "delete_resume":
		return e.deleteFile(ctx, c, sess, "resume")
	case "delete_avatar":
		return e.deleteFile(ctx, c, sess, "avatar")
	}
	return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
}

// deleteFile detaches the file from the profile, then removes the
// stored blob. Blob removal is best effort; a dangling object is
// cheaper than a broken profile.
func (e *Engine) deleteFile(ctx context.Context, c tele.Context, sess *session.Session, purpose string) error {
	userID := c.Sender().ID

	p, err := e.profile(ctx, sess, userID)
	if err != nil || p == nil {
		return c.Send(msgDeleteError)
	}

	var fileID string
	var detach func(context.Context, int64) error
	var done string
	if purpose == "resume" {
		if p.HasResume() {
			fileID = p.Resumes[0].FileID
		}
		detach = e.candidates.DeleteResume
		done = msgResumeDeleted
	} else {
		fileID = avatarID(p)
		detach = e.candidates.DeleteAvatar
		done = msgAvatarDeleted
	}

	if err := detach(ctx, userID); err != nil {
		logger.Error(ctx, "conv", "file.detach",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("purpose", purpose),
			slog.String("err", err.Error()),
		)
		return c.Send(msgDeleteError)
	}
	if fileID != "" {
		if err := e.files.Delete(ctx, fileID, userID); err != nil {
			logger.Warn(ctx, "conv", "file.delete",
				slog.String("status", "error"),
				slog.Int64("user_id", userID),
				slog.String("file_id", fileID),
				slog.String("err", err.Error()),
			)
		}
	}

	sess.ProfileCache = nil
	if err := c.Send(done); err != nil {
		return err
	}
	return e.sendProfile(ctx, c, sess)
}

func (e *Engine) cbEditField(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateEditMenu) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	sess.Mode = session.ModeEdit

	switch payload {
	case "back":
		sess.ResetFlow()
		return e.sendProfile(ctx, c, sess)
	case "display_name":
		sess.Edit.Field = payload
		sess.State = StateEditBasic
		return tghelpers.EditOrSendHTML(c, msgEnterName)
	case "headline_role":
		sess.Edit.Field = payload
		sess.State = StateEditBasic
		return tghelpers.EditOrSendHTML(c, msgEnterRole)
	case "location":
		sess.Edit.Field = payload
		sess.State = StateEditBasic
		return tghelpers.EditOrSendHTML(c, msgEnterLocation)
	case "experience_years":
		sess.State = StateEditYears
		return tghelpers.EditOrSendHTML(c, msgEnterYears)
	case "experiences":
		sess.Scratch = session.Scratch{}
		return e.askExperienceSection(c, sess)
	case "skills":
		sess.Scratch = session.Scratch{}
		return e.askSkillsSection(c, sess)
	case "projects":
		sess.Scratch = session.Scratch{}
		return e.askProjectsSection(c, sess)
	case "work_modes":
		if p, err := e.profile(ctx, sess, c.Sender().ID); err == nil && p != nil {
			sess.Draft.WorkModes = append([]domain.WorkMode(nil), p.WorkModes...)
		}
		sess.State = StateWorkModes
		return tghelpers.EditOrSendHTML(c, msgSelectModes, workModesKeyboard(sess.Draft.WorkModes))
	case "contacts":
		sess.State = StateContacts
		return tghelpers.EditOrSendHTML(c, msgEnterContacts)
	}
	return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
}

func (e *Engine) handleEditBasic(ctx context.Context, c tele.Context, sess *session.Session) error {
	var (
		value string
		err   error
	)
	switch sess.Edit.Field {
	case "display_name":
		value, err = validate.Name(c.Text())
	case "headline_role":
		value, err = validate.HeadlineRole(c.Text())
	case "location":
		value, err = validate.Location(c.Text())
	default:
		sess.ResetFlow()
		return c.Send(msgSessionExpired)
	}
	if err != nil {
		return c.Send(err.Error())
	}
	return e.patchField(ctx, c, sess, map[string]any{sess.Edit.Field: value})
}

func (e *Engine) handleEditYears(ctx context.Context, c tele.Context, sess *session.Session) error {
	years, err := validate.Years(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	return e.patchField(ctx, c, sess, map[string]any{"experience_years": years})
}

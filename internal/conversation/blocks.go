package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tghelpers "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/helpers"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/validate"

	tele "gopkg.in/telebot.v4"
)

// The experience, skill and project sections share one loop shape:
// collect an item field by field, confirm "add another?", and on close
// hand the list to registration (next section) or to a profile PATCH
// (edit mode). The cbBlockConfirm handler routes yes/no by the current
// state, so a stale keyboard from a finished flow is simply ignored.

// Section entry points.

func (e *Engine) askExperienceSection(c tele.Context, sess *session.Session) error {
	sess.State = StateExpStart
	return c.Send(msgAskExperience, confirmKeyboard())
}

func (e *Engine) askSkillsSection(c tele.Context, sess *session.Session) error {
	sess.State = StateSkillName
	return c.Send(msgEnterSkillName)
}

func (e *Engine) askProjectsSection(c tele.Context, sess *session.Session) error {
	sess.State = StateProjStart
	return c.Send(msgAskProject, confirmKeyboard())
}

// textStep declares one plain text-collection step: validate against a
// rune length range, store the value, move on. Steps with skip
// handling, parsing or keyboards keep dedicated handlers.
type textStep struct {
	label  string
	min    int
	max    int
	assign func(*session.Session, string)
	next   session.State
	prompt string
	markup func() *tele.ReplyMarkup
}

func (e *Engine) textStepFn(st textStep) stepFn {
	return func(_ context.Context, c tele.Context, sess *session.Session) error {
		v, err := validate.TextField(c.Text(), st.label, st.min, st.max)
		if err != nil {
			return c.Send(err.Error())
		}
		st.assign(sess, v)
		if st.markup != nil {
			return advance(c, sess, st.next, st.prompt, st.markup())
		}
		return advance(c, sess, st.next, st.prompt)
	}
}

// Experience steps.

func (e *Engine) handleExpStartDate(ctx context.Context, c tele.Context, sess *session.Session) error {
	d, err := parseDate(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	if d.After(domain.Today().Time) {
		return c.Send("start date cannot be in the future")
	}
	sess.Scratch.ExpStartDate = &d
	return advance(c, sess, StateExpEndDate, msgEnterEndDate)
}

// handleExpEndDate checks the ordering here so a bad end date only
// re-prompts this step instead of restarting the whole item.
func (e *Engine) handleExpEndDate(ctx context.Context, c tele.Context, sess *session.Session) error {
	var end *domain.Date
	if !validate.IsPresentAlias(c.Text()) {
		d, err := parseDate(c.Text())
		if err != nil {
			return c.Send(err.Error())
		}
		if d.After(domain.Today().Time) {
			return c.Send("end date cannot be in the future")
		}
		if start := sess.Scratch.ExpStartDate; start != nil && d.Before(start.Time) {
			return c.Send("end date cannot be earlier than start date")
		}
		end = &d
	}
	sess.Scratch.ExpEndDate = end
	return advance(c, sess, StateExpResp, msgEnterResp)
}

// parseDate accepts the ISO form first and falls back to the dotted
// layouts people actually type into chats.
func parseDate(text string) (domain.Date, error) {
	d, err := validate.Date(text)
	if err == nil {
		return d, nil
	}
	if t, ok := tghelpers.ParseFlexibleDate(text); ok {
		return domain.NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	return domain.Date{}, err
}

func (e *Engine) handleExpResponsibilities(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	resp := ""
	if text != "/skip" {
		v, err := validate.TextField(text, "responsibilities", 1, 1000)
		if err != nil {
			return c.Send(err.Error())
		}
		resp = v
	}
	if sess.Scratch.ExpStartDate == nil {
		// Partial state was lost; restart the item.
		return advance(c, sess, StateExpCompany, msgEnterCompany)
	}
	exp := domain.Experience{
		Company:          sess.Scratch.ExpCompany,
		Position:         sess.Scratch.ExpPosition,
		StartDate:        *sess.Scratch.ExpStartDate,
		EndDate:          sess.Scratch.ExpEndDate,
		Responsibilities: resp,
	}
	if err := exp.Validate(); err != nil {
		sess.Scratch.ResetPartial()
		sess.State = StateExpCompany
		return c.Send(err.Error() + "\n\n" + msgEnterCompany)
	}
	if err := domain.CheckListLength(len(sess.Scratch.Experiences)+1, domain.MaxExperiences, "experience entries"); err != nil {
		return e.blockLimitReached(ctx, c, sess, "experience entries")
	}
	sess.Scratch.Experiences = append(sess.Scratch.Experiences, exp)
	sess.Scratch.ResetPartial()
	sess.State = StateExpMore
	return c.Send(fmt.Sprintf(msgExperienceAdded, exp.Company), confirmKeyboard())
}

// Skill steps.

func (e *Engine) cbSkillKind(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSkillKind) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	sess.Scratch.SkillKind = domain.SkillKind(payload)
	sess.State = StateSkillLevel
	return tghelpers.EditOrSendHTML(c, msgEnterSkillLvl, skillLevelKeyboard())
}

func (e *Engine) cbSkillLevel(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSkillLevel) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	level, err := validate.SkillLevel(payload)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: err.Error()})
	}
	skill := domain.Skill{Name: sess.Scratch.SkillName, Kind: sess.Scratch.SkillKind, Level: level}
	if err := skill.Validate(); err != nil {
		sess.Scratch.ResetPartial()
		sess.State = StateSkillName
		return tghelpers.EditOrSendHTML(c, err.Error()+"\n\n"+msgEnterSkillName)
	}
	if err := domain.CheckListLength(len(sess.Scratch.Skills)+1, domain.MaxSkills, "skills"); err != nil {
		return e.blockLimitReached(ctx, c, sess, "skills")
	}
	sess.Scratch.Skills = append(sess.Scratch.Skills, skill)
	sess.Scratch.ResetPartial()
	sess.State = StateSkillMore
	return tghelpers.EditOrSendHTML(c, fmt.Sprintf(msgSkillAdded, skill.Name), confirmKeyboard())
}

// Project steps.

func (e *Engine) handleProjDescription(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	if text != "/skip" {
		v, err := validate.TextField(text, "description", 1, 500)
		if err != nil {
			return c.Send(err.Error())
		}
		sess.Scratch.ProjectDescription = v
	}
	return advance(c, sess, StateProjLinks, msgEnterLinks)
}

func (e *Engine) handleProjLinks(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	linksText := ""
	if text != "/skip" {
		linksText = text
	}
	proj, err := validate.Project(sess.Scratch.ProjectTitle, sess.Scratch.ProjectDescription, linksText)
	if err != nil {
		return c.Send(err.Error())
	}
	if err := domain.CheckListLength(len(sess.Scratch.Projects)+1, domain.MaxProjects, "projects"); err != nil {
		return e.blockLimitReached(ctx, c, sess, "projects")
	}
	sess.Scratch.Projects = append(sess.Scratch.Projects, proj)
	sess.Scratch.ResetPartial()
	sess.State = StateProjMore
	return c.Send(fmt.Sprintf(msgProjectAdded, proj.Title), confirmKeyboard())
}

// Confirm routing. One unique serves every "would you like to" and
// "add another?" keyboard; the current state decides what yes and no
// mean.

func (e *Engine) cbBlockConfirm(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	yes := payload == "yes"

	switch sess.State {
	case StateExpStart:
		if yes {
			sess.State = StateExpCompany
			return tghelpers.EditOrSendHTML(c, msgEnterCompany)
		}
		return e.closeBlock(ctx, c, sess, "experiences")
	case StateExpMore:
		if yes {
			sess.State = StateExpCompany
			return tghelpers.EditOrSendHTML(c, msgEnterCompany)
		}
		return e.closeBlock(ctx, c, sess, "experiences")
	case StateSkillMore:
		if yes {
			sess.State = StateSkillName
			return tghelpers.EditOrSendHTML(c, msgEnterSkillName)
		}
		return e.closeBlock(ctx, c, sess, "skills")
	case StateProjStart, StateProjMore:
		if yes {
			sess.State = StateProjTitle
			return tghelpers.EditOrSendHTML(c, msgEnterTitle)
		}
		return e.closeBlock(ctx, c, sess, "projects")
	}
	return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
}

// closeBlock ends a section loop. During registration the collected
// list moves into the draft and the next section starts; during an
// edit it replaces the stored list through a single-field PATCH.
func (e *Engine) closeBlock(ctx context.Context, c tele.Context, sess *session.Session, field string) error {
	if sess.Mode == session.ModeEdit {
		return e.patchBlock(ctx, c, sess, field)
	}

	switch field {
	case "experiences":
		sess.Draft.Experiences = sess.Scratch.Experiences
		return e.askSkillsSection(c, sess)
	case "skills":
		sess.Draft.Skills = sess.Scratch.Skills
		return e.askProjectsSection(c, sess)
	case "projects":
		sess.Draft.Projects = sess.Scratch.Projects
		sess.State = StateLocation
		return c.Send(msgEnterLocation)
	}
	return nil
}

func (e *Engine) patchBlock(ctx context.Context, c tele.Context, sess *session.Session, field string) error {
	var value any
	switch field {
	case "experiences":
		value = sess.Scratch.Experiences
	case "skills":
		value = sess.Scratch.Skills
	case "projects":
		value = sess.Scratch.Projects
	}
	userID := c.Sender().ID
	if err := e.candidates.Update(ctx, userID, map[string]any{field: value}); err != nil {
		logger.Error(ctx, "conv", "profile.patch",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("field", field),
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

// blockLimitReached closes the loop the same way a "no" would, after
// telling the user why the item was not added.
func (e *Engine) blockLimitReached(ctx context.Context, c tele.Context, sess *session.Session, label string) error {
	if err := c.Send(fmt.Sprintf(msgListLimit, label)); err != nil {
		return err
	}
	sess.Scratch.ResetPartial()
	switch label {
	case "experience entries":
		return e.closeBlock(ctx, c, sess, "experiences")
	case "skills":
		return e.closeBlock(ctx, c, sess, "skills")
	default:
		return e.closeBlock(ctx, c, sess, "projects")
	}
}

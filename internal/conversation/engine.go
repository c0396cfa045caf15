package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tg "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/callbacks"
	tghelpers "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/helpers"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/gateway"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"

	tele "gopkg.in/telebot.v4"
)

// stepFn handles a text or media update for one state.
type stepFn func(ctx context.Context, c tele.Context, sess *session.Session) error

// cbFn handles a callback update; payload is the part after "|".
type cbFn func(ctx context.Context, c tele.Context, sess *session.Session, payload string) error

// Engine drives all conversations. It implements the router FSM
// interface so text, document and photo updates are delivered here
// whenever the user has an active flow.
type Engine struct {
	store      session.Store
	candidates *gateway.CandidateGateway
	employers  *gateway.EmployerGateway
	searches   *gateway.SearchGateway
	files      *gateway.FileGateway

	text      map[session.State]stepFn
	media     map[session.State]stepFn
	callback  map[string]cbFn
	skippable map[session.State]bool
}

// NewEngine wires the dispatch tables.
func NewEngine(
	store session.Store,
	candidates *gateway.CandidateGateway,
	employers *gateway.EmployerGateway,
	searches *gateway.SearchGateway,
	files *gateway.FileGateway,
) *Engine {
	e := &Engine{
		store:      store,
		candidates: candidates,
		employers:  employers,
		searches:   searches,
		files:      files,
	}

	e.text = map[session.State]stepFn{
		StateRegName: e.handleRegName,
		StateRegRole: e.handleRegRole,

		StateExpCompany: e.textStepFn(textStep{
			label: "company", min: 2, max: 100,
			assign: func(s *session.Session, v string) { s.Scratch.ExpCompany = v },
			next:   StateExpPosition, prompt: msgEnterPosition,
		}),
		StateExpPosition: e.textStepFn(textStep{
			label: "position", min: 2, max: 100,
			assign: func(s *session.Session, v string) { s.Scratch.ExpPosition = v },
			next:   StateExpStartDate, prompt: msgEnterStartDate,
		}),
		StateExpStartDate: e.handleExpStartDate,
		StateExpEndDate:   e.handleExpEndDate,
		StateExpResp:      e.handleExpResponsibilities,

		StateSkillName: e.textStepFn(textStep{
			label: "skill", min: 2, max: 50,
			assign: func(s *session.Session, v string) { s.Scratch.SkillName = v },
			next:   StateSkillKind, prompt: msgEnterSkillKind, markup: skillKindKeyboard,
		}),

		StateProjTitle: e.textStepFn(textStep{
			label: "title", min: 2, max: 100,
			assign: func(s *session.Session, v string) { s.Scratch.ProjectTitle = v },
			next:   StateProjDesc, prompt: msgEnterDesc,
		}),
		StateProjDesc:  e.handleProjDescription,
		StateProjLinks: e.handleProjLinks,

		StateLocation:  e.handleLocation,
		StateContacts:  e.handleContacts,
		StateEditBasic: e.handleEditBasic,
		StateEditYears: e.handleEditYears,

		StateUploadResume: e.handleUploadSkipOnly,
		StateUploadAvatar: e.handleUploadSkipOnly,

		StateSearchRole: e.textStepFn(textStep{
			label: "role", min: 2, max: 100,
			assign: func(s *session.Session, v string) { s.Search.Filters.Role = v },
			next:   StateSearchMust, prompt: msgSearchStep2,
		}),
		StateSearchMust:     e.handleSearchMust,
		StateSearchNice:     e.handleSearchNice,
		StateSearchExp:      e.handleSearchExperience,
		StateSearchLocation: e.handleSearchLocation,
	}

	e.media = map[session.State]stepFn{
		StateUploadResume: e.handleResumeUpload,
		StateUploadAvatar: e.handleAvatarUpload,
	}

	e.callback = map[string]cbFn{
		cbRole:       e.cbRoleSelected,
		cbConfirm:    e.cbBlockConfirm,
		cbWorkMode:   e.cbWorkMode,
		cbSkillKind:  e.cbSkillKind,
		cbSkillLevel: e.cbSkillLevel,
		cbVisibility: e.cbVisibility,
		cbProfile:    e.cbProfileAction,
		cbEditField:  e.cbEditField,
		cbDecision:   e.cbSearchDecision,
		cbNext:       e.cbSearchNext,
		cbContact:    e.cbSearchContacts,
		cbResume:     e.cbSearchResume,
	}

	e.skippable = map[session.State]bool{
		StateExpResp:        true,
		StateProjDesc:       true,
		StateProjLinks:      true,
		StateContacts:       true,
		StateUploadResume:   true,
		StateUploadAvatar:   true,
		StateSearchNice:     true,
		StateSearchLocation: true,
	}

	return e
}

// InProgress reports whether the user has an active conversation.
// Part of the router FSM interface.
func (e *Engine) InProgress(userID int64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sess, err := e.store.Get(ctx, userID)
	if errors.Is(err, session.ErrExpired) {
		// Claim the update so ManagerHandler can tell the user.
		return true
	}
	if err != nil {
		logger.Warn(ctx, "session", "session.get",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return sess != nil && sess.InFlow()
}

// ManagerHandler dispatches an in-flow text, document or photo update
// to the handler of the current state. Part of the router FSM
// interface.
func (e *Engine) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := e.store.Get(ctx, userID)
	if errors.Is(err, session.ErrExpired) {
		logger.Debug(ctx, "session", "session.expired",
			slog.String("status", "ok"),
			slog.Int64("user_id", userID),
		)
		return c.Send(msgSessionExpired)
	}
	if err != nil {
		logger.Error(ctx, "session", "session.get",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return c.Send(msgInvalidInput)
	}
	if sess == nil || !sess.InFlow() {
		// The session expired between routing and dispatch.
		return c.Send(msgSessionExpired)
	}
	sess.Touch()

	text := strings.TrimSpace(c.Text())
	switch text {
	case "/cancel":
		sess.ResetFlow()
		if err := e.save(ctx, userID, sess); err != nil {
			return err
		}
		return c.Send(msgCancelled)
	case "/start":
		return e.Start(c)
	case "/profile":
		return e.Profile(c)
	case "/search":
		return e.Search(c)
	case "/skip":
		if !e.skippable[sess.State] {
			_ = e.save(ctx, userID, sess)
			return c.Send(msgNothingToSkip)
		}
	}

	handler := e.text[sess.State]
	msg := c.Message()
	if msg != nil && (msg.Document != nil || msg.Photo != nil) {
		handler = e.media[sess.State]
	}

	logger.Debug(ctx, "conv", "fsm.step",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(sess.State)),
		slog.String("flow", flowOf(sess.State)),
	)

	if handler == nil {
		_ = e.save(ctx, userID, sess)
		return c.Send(msgInvalidInput)
	}
	if err := handler(ctx, c, sess); err != nil {
		return err
	}
	return e.save(ctx, userID, sess)
}

// Cancel drops whatever flow is active. Safe to call with none.
func (e *Engine) Cancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	userID := c.Sender().ID

	sess, err := e.store.Get(ctx, userID)
	if err != nil || sess == nil {
		return c.Send(msgCancelled)
	}
	sess.ResetFlow()
	sess.Touch()
	if err := e.save(ctx, userID, sess); err != nil {
		return err
	}
	return c.Send(msgCancelled)
}

// Skip outside a flow has nothing to act on.
func (e *Engine) Skip(c tele.Context) error {
	return c.Send(msgNothingToSkip)
}

// Bind registers every flow callback in the registry.
func (e *Engine) Bind(reg *tg.Registry) {
	for unique, fn := range e.callback {
		_ = reg.RegisterCallback(unique, e.callbackHandler(fn))
	}
}

func (e *Engine) callbackHandler(fn cbFn) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		userID := c.Sender().ID

		sess, err := e.store.Get(ctx, userID)
		if err != nil && !errors.Is(err, session.ErrExpired) {
			logger.Error(ctx, "session", "session.get",
				slog.String("status", "error"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
			return c.Send(msgInvalidInput)
		}
		// An expired flow falls through to a fresh session; the
		// per-callback state guards answer stale buttons.
		if sess == nil {
			sess = session.New()
		}
		sess.Touch()

		if err := fn(ctx, c, sess, callbacks.CallbackPayload(c)); err != nil {
			return err
		}
		return e.save(ctx, userID, sess)
	}
}

func (e *Engine) save(ctx context.Context, userID int64, sess *session.Session) error {
	if err := e.store.Put(ctx, userID, sess); err != nil {
		logger.Error(ctx, "session", "session.put",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("state", string(sess.State)),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// expired tells a stale callback apart from an active flow step.
func expired(sess *session.Session, want ...session.State) bool {
	for _, st := range want {
		if sess.State == st {
			return false
		}
	}
	return true
}

func flowOf(st session.State) string {
	s := string(st)
	if i := strings.IndexByte(s, ':'); i > 0 {
		return s[:i]
	}
	return s
}

// advance moves the flow to the next step and prompts for it.
func advance(c tele.Context, sess *session.Session, next session.State, prompt string, markup ...*tele.ReplyMarkup) error {
	sess.State = next
	if len(markup) > 0 && markup[0] != nil {
		return c.Send(prompt, markup[0])
	}
	return c.Send(prompt)
}

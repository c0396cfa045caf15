package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tghelpers "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/helpers"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/format"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/validate"

	tele "gopkg.in/telebot.v4"
)

const searchPageSize = 5

// Search starts the employer filter questionnaire.
func (e *Engine) Search(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "search")
	userID := c.Sender().ID

	sess, err := e.store.Get(ctx, userID)
	if err != nil || sess == nil {
		sess = session.New()
	}
	sess.ResetFlow()
	sess.Touch()
	sess.State = StateSearchRole
	if err := e.save(ctx, userID, sess); err != nil {
		return err
	}
	return c.Send(msgSearchStep1)
}

func (e *Engine) handleSearchMust(ctx context.Context, c tele.Context, sess *session.Session) error {
	skills, err := validate.SkillsCSV(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Search.Filters.MustSkills = skills
	return advance(c, sess, StateSearchNice, msgSearchStep3)
}

func (e *Engine) handleSearchNice(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	if text != "/skip" {
		sess.Search.Filters.NiceSkills = validate.CSV(text)
	}
	return advance(c, sess, StateSearchExp, msgSearchStep4)
}

func (e *Engine) handleSearchExperience(ctx context.Context, c tele.Context, sess *session.Session) error {
	min, max, err := validate.ExperienceRange(c.Text())
	if err != nil {
		return c.Send(err.Error())
	}
	sess.Search.Filters.ExperienceMin = min
	sess.Search.Filters.ExperienceMax = max
	return advance(c, sess, StateSearchLocation, msgSearchStep5)
}

func (e *Engine) handleSearchLocation(ctx context.Context, c tele.Context, sess *session.Session) error {
	text := strings.TrimSpace(c.Text())
	if text != "/skip" {
		sess.Search.Filters.LocationQuery = text
	}
	return e.runSearch(ctx, c, sess)
}

// runSearch registers the search session with the employer service,
// queries the search service, and hydrates full profiles for the first
// result page.
func (e *Engine) runSearch(ctx context.Context, c tele.Context, sess *session.Session) error {
	userID := c.Sender().ID
	if err := c.Send(msgSearchRunning); err != nil {
		return err
	}

	employer, err := e.employers.GetOrCreate(ctx, userID, senderUsername(c))
	if err != nil {
		logger.Error(ctx, "conv", "employer.get",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		sess.ResetFlow()
		return c.Send(msgSearchError)
	}

	searchSess, err := e.employers.CreateSearchSession(ctx, employer.ID, sess.Search.Filters)
	if err != nil {
		logger.Error(ctx, "conv", "search.session",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		sess.ResetFlow()
		return c.Send(msgSearchError)
	}

	sess.Search.Filters.Page = 1
	sess.Search.Filters.Size = searchPageSize
	res, err := e.searches.Search(ctx, sess.Search.Filters)
	if err != nil {
		logger.Error(ctx, "conv", "search.query",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		sess.ResetFlow()
		return c.Send(msgSearchError)
	}

	profiles := make([]domain.CandidateProfile, 0, len(res.Results))
	for _, hit := range res.Results {
		p, err := e.candidates.Get(ctx, hit.CandidateID)
		if err != nil || p == nil {
			// A result that cannot be hydrated is dropped from the page.
			logger.Warn(ctx, "conv", "search.hydrate",
				slog.String("status", "error"),
				slog.String("candidate_id", hit.CandidateID),
			)
			continue
		}
		profiles = append(profiles, *p)
	}

	if len(profiles) == 0 {
		sess.ResetFlow()
		return c.Send(msgSearchNoMatch)
	}

	sess.Search.EmployerID = employer.ID
	sess.Search.SessionID = searchSess.ID
	sess.Search.Results = profiles
	sess.Search.Total = res.Total
	sess.Search.Index = 0
	sess.State = StateSearchResults

	logger.Info(ctx, "conv", "search.results",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int("total", res.Total),
		slog.Int("page_size", len(profiles)),
	)
	if err := c.Send(fmt.Sprintf(msgSearchFound, res.Total)); err != nil {
		return err
	}
	return e.sendSearchResult(ctx, c, sess)
}

func (e *Engine) sendSearchResult(ctx context.Context, c tele.Context, sess *session.Session) error {
	p := sess.Search.Results[sess.Search.Index]
	caption := format.SearchResult(p, sess.Search.Index+1, sess.Search.Total)
	markup := searchResultKeyboard(p.ID, p.HasResume())

	if id := avatarID(&p); id != "" {
		if url, err := e.files.DownloadURL(ctx, id); err == nil {
			photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
			return c.Send(photo, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
		}
	}
	return tghelpers.SendHTML(c, caption, markup)
}

func (e *Engine) advanceSearch(ctx context.Context, c tele.Context, sess *session.Session) error {
	sess.Search.Index++
	if sess.Search.Index >= len(sess.Search.Results) {
		sess.ResetFlow()
		return c.Send(msgSearchNoMore)
	}
	return e.sendSearchResult(ctx, c, sess)
}

func (e *Engine) cbSearchDecision(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSearchResults) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	verdict, candidateID, ok := strings.Cut(payload, ":")
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: msgDecisionError})
	}
	decision := domain.Decision(verdict)

	if err := e.employers.SaveDecision(ctx, sess.Search.SessionID, candidateID, decision); err != nil {
		logger.Error(ctx, "conv", "search.decision",
			slog.String("status", "error"),
			slog.String("candidate_id", candidateID),
			slog.String("decision", verdict),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgDecisionError})
	}

	if decision == domain.DecisionLike {
		// Stay on the card so contacts can be requested.
		if err := c.Respond(&tele.CallbackResponse{Text: msgDecisionLiked}); err != nil {
			return err
		}
		return c.Edit(likedCandidateKeyboard(candidateID))
	}

	if err := c.Respond(&tele.CallbackResponse{Text: msgDecisionSaved}); err != nil {
		return err
	}
	return e.advanceSearch(ctx, c, sess)
}

func (e *Engine) cbSearchNext(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSearchResults) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	return e.advanceSearch(ctx, c, sess)
}

func (e *Engine) cbSearchContacts(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSearchResults) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}
	if err := c.Respond(&tele.CallbackResponse{Text: msgContactsWait}); err != nil {
		return err
	}

	req, err := e.employers.RequestContacts(ctx, sess.Search.EmployerID, payload)
	if err != nil {
		logger.Error(ctx, "conv", "search.contacts",
			slog.String("status", "error"),
			slog.String("candidate_id", payload),
			slog.String("err", err.Error()),
		)
		return c.Send(msgContactsError)
	}
	if !req.Granted || len(req.Contacts) == 0 {
		return c.Send(msgContactsDenied)
	}
	return c.Send(fmt.Sprintf(msgContactsTitle, contactLines(req.Contacts)))
}

func (e *Engine) cbSearchResume(ctx context.Context, c tele.Context, sess *session.Session, payload string) error {
	if expired(sess, StateSearchResults) {
		return c.Respond(&tele.CallbackResponse{Text: msgSessionExpired})
	}

	p, err := e.candidates.Get(ctx, payload)
	if err != nil {
		return c.Send(msgResumeError)
	}
	if p == nil || !p.HasResume() {
		return c.Send(msgResumeNone)
	}

	url, err := e.files.DownloadURL(ctx, p.Resumes[0].FileID)
	if err != nil {
		logger.Error(ctx, "conv", "search.resume",
			slog.String("status", "error"),
			slog.String("candidate_id", payload),
			slog.String("err", err.Error()),
		)
		return c.Send(msgResumeError)
	}
	return c.Send(msgResumeLink, urlKeyboard("📄 Open resume", url))
}

func contactLines(contacts map[string]string) string {
	keys := make([]string, 0, len(contacts))
	for k := range contacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+contacts[k])
	}
	return strings.Join(lines, "\n")
}

func senderUsername(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return u.Username
	}
	return ""
}

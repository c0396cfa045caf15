package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/gateway"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// testCtx is a minimal tele.Context for handler tests. Only the
// methods the engine touches are implemented; anything else panics.
type testCtx struct {
	tele.Context
	user *tele.User
	text string
	msg  *tele.Message
	cb   *tele.Callback
	kv   map[string]any

	sent      []any
	edited    []any
	responded []*tele.CallbackResponse
}

func textCtx(userID int64, text string) *testCtx {
	u := &tele.User{ID: userID, FirstName: "Alex", Username: "alex"}
	return &testCtx{
		user: u,
		text: text,
		msg:  &tele.Message{Text: text, Sender: u},
		kv:   map[string]any{},
	}
}

func callbackCtx(userID int64, unique, payload string) *testCtx {
	c := textCtx(userID, "")
	data := unique
	if payload != "" {
		data += "|" + payload
	}
	c.cb = &tele.Callback{Unique: unique, Data: data, Sender: c.user, Message: c.msg}
	return c
}

func (c *testCtx) Sender() *tele.User        { return c.user }
func (c *testCtx) Chat() *tele.Chat          { return &tele.Chat{ID: c.user.ID} }
func (c *testCtx) Update() tele.Update       { return tele.Update{ID: 1} }
func (c *testCtx) Message() *tele.Message    { return c.msg }
func (c *testCtx) Text() string              { return c.text }
func (c *testCtx) Callback() *tele.Callback  { return c.cb }
func (c *testCtx) Get(key string) any        { return c.kv[key] }
func (c *testCtx) Set(key string, value any) { c.kv[key] = value }

func (c *testCtx) Send(what any, _ ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *testCtx) Edit(what any, _ ...any) error {
	c.edited = append(c.edited, what)
	return nil
}

func (c *testCtx) EditOrSend(what any, opts ...any) error { return c.Send(what, opts...) }

func (c *testCtx) Respond(resp ...*tele.CallbackResponse) error {
	c.responded = append(c.responded, resp...)
	return nil
}

func (c *testCtx) lastText(t *testing.T) string {
	t.Helper()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if s, ok := c.sent[i].(string); ok {
			return s
		}
	}
	t.Fatal("no text message sent")
	return ""
}

// fakeBackend is a single HTTP server standing in for all four
// collaborator services.
type fakeBackend struct {
	profile  *domain.CandidateProfile // by-telegram lookups; nil means 404
	byID     map[string]domain.CandidateProfile
	patches  []map[string]any
	decided  []string
	searched []string // candidate IDs the search service returns
	total    int
}

func (b *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/candidates/":
			json.NewEncoder(w).Encode(domain.CandidateProfile{ID: "c-new", TelegramID: 42, DisplayName: "FCs"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/candidates/by-telegram/"):
			if b.profile == nil {
				http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(b.profile)
		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/candidates/by-telegram/"):
			var patch map[string]any
			json.NewDecoder(r.Body).Decode(&patch)
			b.patches = append(b.patches, patch)
			w.Write([]byte("{}"))
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/candidates/"):
			id := strings.TrimPrefix(r.URL.Path, "/candidates/")
			p, ok := b.byID[id]
			if !ok {
				http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(p)
		case r.Method == http.MethodPost && r.URL.Path == "/employers/":
			json.NewEncoder(w).Encode(map[string]any{"id": "emp-1", "telegram_id": 42})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/searches"):
			json.NewEncoder(w).Encode(map[string]any{"id": "ss-1", "title": "Search"})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/decisions"):
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			b.decided = append(b.decided, body["candidate_id"].(string)+":"+body["decision"].(string))
			w.Write([]byte("{}"))
		case r.Method == http.MethodPost && r.URL.Path == "/search/":
			hits := make([]map[string]any, 0, len(b.searched))
			for _, id := range b.searched {
				hits = append(hits, map[string]any{"candidate_id": id})
			}
			json.NewEncoder(w).Encode(map[string]any{"results": hits, "total": b.total})
		default:
			http.Error(w, `{"detail":"unexpected call"}`, http.StatusTeapot)
		}
	}
}

func newTestEngine(t *testing.T, backend *fakeBackend) (*Engine, session.Store) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(30 * time.Minute)
	eng := NewEngine(
		store,
		gateway.NewCandidateGateway(srv.URL),
		gateway.NewEmployerGateway(srv.URL),
		gateway.NewSearchGateway(srv.URL),
		gateway.NewFileGateway(srv.URL),
	)
	return eng, store
}

func sendText(t *testing.T, eng *Engine, userID int64, text string) *testCtx {
	t.Helper()
	c := textCtx(userID, text)
	require.NoError(t, eng.ManagerHandler(c))
	return c
}

func press(t *testing.T, eng *Engine, userID int64, unique, payload string) *testCtx {
	t.Helper()
	c := callbackCtx(userID, unique, payload)
	fn, ok := eng.callback[unique]
	require.True(t, ok, "unknown callback %q", unique)
	require.NoError(t, eng.callbackHandler(fn)(c))
	return c
}

func TestRegistrationFlow(t *testing.T) {
	backend := &fakeBackend{}
	eng, _ := newTestEngine(t, backend)
	const userID = int64(42)

	press(t, eng, userID, "role", "candidate")
	assert.True(t, eng.InProgress(userID))

	sendText(t, eng, userID, "Alex Petrov")
	sendText(t, eng, userID, "Backend Engineer")

	// One experience entry.
	press(t, eng, userID, "confirm", "yes")
	sendText(t, eng, userID, "Acme Corp")
	sendText(t, eng, userID, "Go Developer")
	sendText(t, eng, userID, "2020-01-01")
	sendText(t, eng, userID, "present")
	sendText(t, eng, userID, "/skip")
	press(t, eng, userID, "confirm", "no")

	// One skill.
	sendText(t, eng, userID, "Go")
	press(t, eng, userID, "skind", "hard")
	press(t, eng, userID, "slevel", "5")
	press(t, eng, userID, "confirm", "no")

	// No projects.
	press(t, eng, userID, "confirm", "no")

	sendText(t, eng, userID, "Berlin")
	press(t, eng, userID, "wmode", "remote")
	press(t, eng, userID, "wmode", "done")
	sendText(t, eng, userID, "email: alex@example.com")
	press(t, eng, userID, "visible", "on_request")
	sendText(t, eng, userID, "/skip") // resume
	c := sendText(t, eng, userID, "/skip")

	assert.Contains(t, c.lastText(t), "Registration complete")
	assert.False(t, eng.InProgress(userID))

	require.Len(t, backend.patches, 1)
	patch := backend.patches[0]
	assert.Equal(t, "Alex Petrov", patch["display_name"])
	assert.Equal(t, "Backend Engineer", patch["headline_role"])
	assert.Equal(t, "Berlin", patch["location"])
	assert.Equal(t, "on_request", patch["contacts_visibility"])
	assert.Len(t, patch["experiences"], 1)
	assert.Len(t, patch["skills"], 1)
}

func TestRegistrationConflictShowsExistingHint(t *testing.T) {
	backend := &fakeBackend{}
	eng, _ := newTestEngine(t, backend)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"exists"}`, http.StatusConflict)
	}))
	defer srv.Close()
	eng.candidates = gateway.NewCandidateGateway(srv.URL)

	c := press(t, eng, 42, "role", "candidate")
	assert.Contains(t, c.lastText(t), "already exists")
	assert.False(t, eng.InProgress(42))
}

func TestInvalidDateKeepsState(t *testing.T) {
	eng, store := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	press(t, eng, userID, "role", "candidate")
	sendText(t, eng, userID, "Alex Petrov")
	sendText(t, eng, userID, "Backend Engineer")
	press(t, eng, userID, "confirm", "yes")
	sendText(t, eng, userID, "Acme Corp")
	sendText(t, eng, userID, "Go Developer")

	sendText(t, eng, userID, "January 2020")

	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, StateExpStartDate, sess.State)
}

func TestCancelResetsFlow(t *testing.T) {
	eng, store := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	press(t, eng, userID, "role", "candidate")
	sendText(t, eng, userID, "Alex Petrov")
	require.True(t, eng.InProgress(userID))

	c := sendText(t, eng, userID, "/cancel")
	assert.Contains(t, c.lastText(t), "cancelled")
	assert.False(t, eng.InProgress(userID))

	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, session.StateIdle, sess.State)
}

func TestSkillLimitClosesBlock(t *testing.T) {
	eng, store := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	sess := session.New()
	sess.Mode = session.ModeRegister
	sess.State = StateSkillName
	for i := 0; i < domain.MaxSkills; i++ {
		sess.Scratch.Skills = append(sess.Scratch.Skills, domain.Skill{Name: "Go", Kind: domain.SkillHard, Level: 3})
	}
	require.NoError(t, store.Put(context.Background(), userID, sess))

	sendText(t, eng, userID, "Kubernetes")
	press(t, eng, userID, "skind", "tool")
	c := press(t, eng, userID, "slevel", "4")

	found := false
	for _, m := range c.sent {
		if s, ok := m.(string); ok && strings.Contains(s, "limit") {
			found = true
		}
	}
	assert.True(t, found, "limit message expected")

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got.Scratch.Skills, domain.MaxSkills)
	// The loop closed and registration moved on to projects.
	assert.Equal(t, StateProjStart, got.State)
}

func TestEditSingleFieldPatch(t *testing.T) {
	backend := &fakeBackend{
		profile: &domain.CandidateProfile{ID: "c-1", TelegramID: 7, DisplayName: "Old Name", HeadlineRole: "Dev"},
	}
	eng, store := newTestEngine(t, backend)
	const userID = int64(7)

	sess := session.New()
	sess.Mode = session.ModeEdit
	sess.State = StateEditMenu
	require.NoError(t, store.Put(context.Background(), userID, sess))

	press(t, eng, userID, "editf", "display_name")
	c := sendText(t, eng, userID, "New Name")

	require.Len(t, backend.patches, 1)
	assert.Equal(t, map[string]any{"display_name": "New Name"}, backend.patches[0])

	found := false
	for _, m := range c.sent {
		if s, ok := m.(string); ok && strings.Contains(s, "updated") {
			found = true
		}
	}
	assert.True(t, found)

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, got.InFlow())
	// The cache was dropped so the next render refetches.
	assert.NotNil(t, got.ProfileCache) // re-populated by the card render
	assert.Equal(t, "Old Name", got.ProfileCache.DisplayName)
}

func TestStaleCallbackAnswersExpired(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeBackend{})

	c := press(t, eng, 7, "confirm", "yes")
	require.Len(t, c.responded, 1)
	assert.Contains(t, c.responded[0].Text, "expired")
}

func TestSearchFlow(t *testing.T) {
	backend := &fakeBackend{
		searched: []string{"cand-1", "cand-2"},
		total:    2,
		byID: map[string]domain.CandidateProfile{
			"cand-1": {ID: "cand-1", DisplayName: "First Dev", HeadlineRole: "Go Developer"},
			"cand-2": {ID: "cand-2", DisplayName: "Second Dev", HeadlineRole: "Go Developer"},
		},
	}
	eng, store := newTestEngine(t, backend)
	const userID = int64(99)

	require.NoError(t, eng.Search(textCtx(userID, "/search")))
	sendText(t, eng, userID, "Go Developer")
	sendText(t, eng, userID, "go, postgresql")
	sendText(t, eng, userID, "/skip")
	sendText(t, eng, userID, "2-5")
	c := sendText(t, eng, userID, "/skip")

	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, StateSearchResults, sess.State)
	assert.Len(t, sess.Search.Results, 2)
	assert.Equal(t, 1, sess.Search.Filters.Page)
	assert.Equal(t, searchPageSize, sess.Search.Filters.Size)

	found := false
	for _, m := range c.sent {
		if s, ok := m.(string); ok && strings.Contains(s, "First Dev") {
			found = true
		}
	}
	assert.True(t, found, "first candidate card expected")

	// Like keeps the card and swaps the keyboard.
	liked := press(t, eng, userID, "sdec", "like:cand-1")
	require.Len(t, backend.decided, 1)
	assert.Equal(t, "cand-1:like", backend.decided[0])
	require.Len(t, liked.edited, 1)
	sess, _ = store.Get(context.Background(), userID)
	assert.Equal(t, 0, sess.Search.Index)

	// Next advances to the second card.
	next := press(t, eng, userID, "snext", "next")
	foundSecond := false
	for _, m := range next.sent {
		if s, ok := m.(string); ok && strings.Contains(s, "Second Dev") {
			foundSecond = true
		}
	}
	assert.True(t, foundSecond)

	// Dislike on the last card ends the browse.
	last := press(t, eng, userID, "sdec", "dislike:cand-2")
	assert.Contains(t, last.lastText(t), "everyone")
	assert.False(t, eng.InProgress(userID))
}

func TestSearchSkipsUnhydratableResults(t *testing.T) {
	backend := &fakeBackend{
		searched: []string{"gone", "cand-2"},
		total:    2,
		byID: map[string]domain.CandidateProfile{
			"cand-2": {ID: "cand-2", DisplayName: "Second Dev", HeadlineRole: "Go Developer"},
		},
	}
	eng, store := newTestEngine(t, backend)
	const userID = int64(99)

	require.NoError(t, eng.Search(textCtx(userID, "/search")))
	sendText(t, eng, userID, "Go Developer")
	sendText(t, eng, userID, "go")
	sendText(t, eng, userID, "/skip")
	sendText(t, eng, userID, "3")
	sendText(t, eng, userID, "/skip")

	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sess.Search.Results, 1)
	assert.Equal(t, "cand-2", sess.Search.Results[0].ID)
}

func TestIdleTimeoutInformsUser(t *testing.T) {
	eng, store := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	press(t, eng, userID, "role", "candidate")
	sendText(t, eng, userID, "Alex Petrov")

	// Simulate the user coming back after the idle timeout.
	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	sess.LastActivity = time.Now().UTC().Add(-31 * time.Minute)
	require.NoError(t, store.Put(context.Background(), userID, sess))

	// The router still hands the text to the engine, which answers
	// with the expiry notice instead of the unknown-text fallback.
	require.True(t, eng.InProgress(userID))
	c := sendText(t, eng, userID, "Backend Engineer")
	assert.Contains(t, c.lastText(t), "session expired")

	assert.False(t, eng.InProgress(userID))
	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEditBlockSinglePatch(t *testing.T) {
	backend := &fakeBackend{
		profile: &domain.CandidateProfile{ID: "c-1", TelegramID: 7, DisplayName: "Alex", Skills: []domain.Skill{{Name: "Python", Kind: domain.SkillHard, Level: 3}}},
	}
	eng, store := newTestEngine(t, backend)
	const userID = int64(7)

	sess := session.New()
	sess.Mode = session.ModeEdit
	sess.State = StateEditMenu
	sess.Draft.DisplayName = "stale draft"
	require.NoError(t, store.Put(context.Background(), userID, sess))

	press(t, eng, userID, "editf", "skills")
	sendText(t, eng, userID, "Kubernetes")
	press(t, eng, userID, "skind", "tool")
	press(t, eng, userID, "slevel", "4")
	c := press(t, eng, userID, "confirm", "no")

	// Exactly one PATCH carrying only the edited list.
	require.Len(t, backend.patches, 1)
	patch := backend.patches[0]
	require.Len(t, patch, 1)
	skills, ok := patch["skills"].([]any)
	require.True(t, ok, "skills list expected in patch")
	require.Len(t, skills, 1)
	assert.Equal(t, "Kubernetes", skills[0].(map[string]any)["skill"])

	found := false
	for _, m := range c.sent {
		if s, ok := m.(string); ok && strings.Contains(s, "updated") {
			found = true
		}
	}
	assert.True(t, found)

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, got.InFlow())
	// The registration draft was never touched by the edit loop.
	assert.Empty(t, got.Draft.Skills)
}

func TestEndDateBeforeStartRepromptsSameStep(t *testing.T) {
	eng, store := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	press(t, eng, userID, "role", "candidate")
	sendText(t, eng, userID, "Alex Petrov")
	sendText(t, eng, userID, "Backend Engineer")
	press(t, eng, userID, "confirm", "yes")
	sendText(t, eng, userID, "Acme Corp")
	sendText(t, eng, userID, "Go Developer")
	sendText(t, eng, userID, "2020-06-01")

	c := sendText(t, eng, userID, "2019-01-01")
	assert.Contains(t, c.lastText(t), "earlier than start date")

	sess, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	// Only the end date is asked again; the partial item survives.
	assert.Equal(t, StateExpEndDate, sess.State)
	assert.Equal(t, "Acme Corp", sess.Scratch.ExpCompany)
	require.NotNil(t, sess.Scratch.ExpStartDate)

	sendText(t, eng, userID, "2021-01-01")
	sess, err = store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StateExpResp, sess.State)
}

func TestSkipOutsideSkippableStep(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeBackend{})
	const userID = int64(7)

	press(t, eng, userID, "role", "candidate")
	c := sendText(t, eng, userID, "/skip")
	assert.Contains(t, c.lastText(t), "Nothing to skip")
	assert.True(t, eng.InProgress(userID))
}

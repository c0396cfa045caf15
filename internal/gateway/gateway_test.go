package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

func TestCandidateCreateConflictMeansAlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/candidates/", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "@ada", payload["contacts"].(map[string]any)["telegram"])
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	gw := NewCandidateGateway(srv.URL)
	profile, err := gw.Create(context.Background(), 42, "ada")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCandidateGetByTelegramIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candidates/by-telegram/42", r.URL.Path)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	gw := NewCandidateGateway(srv.URL)
	profile, err := gw.GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCandidateGetByTelegramID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.CandidateProfile{
			ID:           "c-1",
			TelegramID:   42,
			DisplayName:  "Ada",
			HeadlineRole: "Go Developer",
			Skills:       []domain.Skill{{Name: "Go", Kind: domain.SkillHard, Level: 5}},
		})
	}))
	defer srv.Close()

	gw := NewCandidateGateway(srv.URL)
	profile, err := gw.GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "c-1", profile.ID)
	assert.Equal(t, "Go Developer", profile.HeadlineRole)
	require.Len(t, profile.Skills, 1)
}

func TestRequestErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := NewCandidateGateway(srv.URL)
	err := gw.Update(context.Background(), 42, map[string]any{"location": "Berlin"})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.False(t, IsTransient(err))
}

func TestTransientErrorAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from now on

	gw := NewCandidateGateway(srv.URL)
	_, err := gw.GetByTelegramID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestDroppedConnectionFailsFastAsTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Drop the connection without a response. This is not a
		// timeout, so the client must not burn retries on it.
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	gw := NewCandidateGateway(srv.URL)
	_, err := gw.GetByTelegramID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmployerSearchSessionAndDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/employers/e-1/searches":
			var payload struct {
				Title   string               `json:"title"`
				Filters domain.SearchFilters `json:"filters"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Search for Go Developer", payload.Title)
			assert.Equal(t, []string{"go"}, payload.Filters.MustSkills)
			_ = json.NewEncoder(w).Encode(SearchSession{ID: "s-1", Title: payload.Title})
		case "/employers/searches/s-1/decisions":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "like", payload["decision"])
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	gw := NewEmployerGateway(srv.URL)
	sess, err := gw.CreateSearchSession(context.Background(), "e-1", domain.SearchFilters{
		Role:       "Go Developer",
		MustSkills: []string{"go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s-1", sess.ID)

	require.NoError(t, gw.SaveDecision(context.Background(), "s-1", "c-9", domain.DecisionLike))
}

func TestSearchReturnsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		var filters domain.SearchFilters
		require.NoError(t, json.NewDecoder(r.Body).Decode(&filters))
		assert.Equal(t, 1, filters.Page)
		assert.Equal(t, 5, filters.Size)
		_ = json.NewEncoder(w).Encode(SearchResult{
			Results: []SearchHit{{CandidateID: "c-1"}, {CandidateID: "c-2"}},
			Total:   2,
		})
	}))
	defer srv.Close()

	gw := NewSearchGateway(srv.URL)
	res, err := gw.Search(context.Background(), domain.SearchFilters{Role: "dev", Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "c-1", res.Results[0].CandidateID)
}

func TestFileUploadAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files/upload":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "42", r.FormValue("owner_telegram_id"))
			assert.Equal(t, "resume", r.FormValue("file_type"))
			f, fh, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, "cv.pdf", fh.Filename)
			assert.Equal(t, "application/pdf", fh.Header.Get("Content-Type"))
			_ = json.NewEncoder(w).Encode(UploadedFile{ID: "f-1", Filename: "cv.pdf"})
		case r.Method == http.MethodDelete && r.URL.Path == "/files/f-1":
			assert.Equal(t, "42", r.URL.Query().Get("owner_telegram_id"))
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	gw := NewFileGateway(srv.URL)
	up, err := gw.Upload(context.Background(), "cv.pdf", []byte("%PDF-1.4"), "application/pdf", 42, "resume")
	require.NoError(t, err)
	assert.Equal(t, "f-1", up.ID)

	require.NoError(t, gw.Delete(context.Background(), "f-1", 42))
}

func TestFileDownloadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/f-1/download-url", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"download_url": "https://cdn.example.com/f-1"})
	}))
	defer srv.Close()

	gw := NewFileGateway(srv.URL)
	u, err := gw.DownloadURL(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/f-1", u)
}

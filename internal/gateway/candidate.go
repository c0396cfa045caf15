package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

// CandidateGateway talks to the candidate profile service.
type CandidateGateway struct {
	c client
}

// NewCandidateGateway builds the gateway from the service base URL.
func NewCandidateGateway(baseURL string) *CandidateGateway {
	return &CandidateGateway{c: newClient(baseURL, logger.GWCandidate)}
}

// Create registers a stub profile for a new candidate. It returns
// (nil, nil) when the candidate already exists.
func (g *CandidateGateway) Create(ctx context.Context, telegramID int64, telegramName string) (*domain.CandidateProfile, error) {
	payload := map[string]any{
		"telegram_id":      telegramID,
		"display_name":     "FCs",
		"headline_role":    "New Candidate",
		"experience_years": 0,
		"contacts":         map[string]string{"telegram": "@" + telegramName},
		"skills":           []domain.Skill{},
	}
	var out domain.CandidateProfile
	err := g.c.doJSON(ctx, http.MethodPost, "/candidates/", nil, payload, &out)
	if IsConflict(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByTelegramID fetches a profile by Telegram user ID. It returns
// (nil, nil) when no profile exists.
func (g *CandidateGateway) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.CandidateProfile, error) {
	var out domain.CandidateProfile
	err := g.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/candidates/by-telegram/%d", telegramID), nil, nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a profile by its service-side ID.
func (g *CandidateGateway) Get(ctx context.Context, candidateID string) (*domain.CandidateProfile, error) {
	var out domain.CandidateProfile
	if err := g.c.doJSON(ctx, http.MethodGet, "/candidates/"+candidateID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial profile update keyed by Telegram user ID.
// Only the fields present in patch are changed.
func (g *CandidateGateway) Update(ctx context.Context, telegramID int64, patch map[string]any) error {
	return g.c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/candidates/by-telegram/%d", telegramID), nil, patch, nil)
}

// ReplaceResume points the profile at a newly uploaded resume file.
func (g *CandidateGateway) ReplaceResume(ctx context.Context, telegramID int64, fileID string) error {
	return g.c.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/candidates/by-telegram/%d/resume", telegramID), nil, domain.FileRef{FileID: fileID}, nil)
}

// ReplaceAvatar points the profile at a newly uploaded avatar file.
func (g *CandidateGateway) ReplaceAvatar(ctx context.Context, telegramID int64, fileID string) error {
	return g.c.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("/candidates/by-telegram/%d/avatar", telegramID), nil, domain.FileRef{FileID: fileID}, nil)
}

// DeleteResume detaches the profile resume.
func (g *CandidateGateway) DeleteResume(ctx context.Context, telegramID int64) error {
	return g.c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/candidates/by-telegram/%d/resume", telegramID), nil, nil, nil)
}

// DeleteAvatar detaches the profile avatar.
func (g *CandidateGateway) DeleteAvatar(ctx context.Context, telegramID int64) error {
	return g.c.doJSON(ctx, http.MethodDelete,
		fmt.Sprintf("/candidates/by-telegram/%d/avatar", telegramID), nil, nil, nil)
}

package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

// Employer is the employer service account record.
type Employer struct {
	ID         string `json:"id"`
	TelegramID int64  `json:"telegram_id"`
}

// SearchSession is a server-side record of one filter set.
type SearchSession struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ContactRequest is the employer service response to a contact
// disclosure request. Contacts is present only when granted.
type ContactRequest struct {
	Granted  bool              `json:"granted"`
	Contacts map[string]string `json:"contacts,omitempty"`
}

// EmployerGateway talks to the employer service.
type EmployerGateway struct {
	c client
}

// NewEmployerGateway builds the gateway from the service base URL.
func NewEmployerGateway(baseURL string) *EmployerGateway {
	return &EmployerGateway{c: newClient(baseURL, logger.GWEmployer)}
}

// GetOrCreate resolves the employer account for a Telegram user,
// creating it on first contact.
func (g *EmployerGateway) GetOrCreate(ctx context.Context, telegramID int64, username string) (*Employer, error) {
	payload := map[string]any{
		"telegram_id": telegramID,
		"contacts":    map[string]string{"telegram": "@" + username},
	}
	var out Employer
	if err := g.c.doJSON(ctx, http.MethodPost, "/employers/", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSearchSession records a new search with its filters and
// returns the session used for decisions.
func (g *EmployerGateway) CreateSearchSession(ctx context.Context, employerID string, filters domain.SearchFilters) (*SearchSession, error) {
	title := "Search for candidate"
	if filters.Role != "" {
		title = "Search for " + filters.Role
	}
	payload := map[string]any{"title": title, "filters": filters}
	var out SearchSession
	if err := g.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/employers/%s/searches", employerID), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDecision stores a like or dislike for a candidate within a
// search session.
func (g *EmployerGateway) SaveDecision(ctx context.Context, sessionID, candidateID string, decision domain.Decision) error {
	payload := map[string]any{"candidate_id": candidateID, "decision": decision}
	return g.c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/employers/searches/%s/decisions", sessionID), nil, payload, nil)
}

// RequestContacts asks the employer service for a candidate's contact
// details, honoring the candidate's visibility setting.
func (g *EmployerGateway) RequestContacts(ctx context.Context, employerID, candidateID string) (*ContactRequest, error) {
	payload := map[string]any{"candidate_id": candidateID}
	var out ContactRequest
	if err := g.c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("/employers/%s/contact-requests", employerID), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

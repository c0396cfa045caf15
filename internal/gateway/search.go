package gateway

import (
	"context"
	"net/http"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

// SearchHit is one match; profiles are fetched separately from the
// candidate service.
type SearchHit struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score,omitempty"`
}

// SearchResult is one page of matches.
type SearchResult struct {
	Results []SearchHit `json:"results"`
	Total   int         `json:"total"`
}

// SearchGateway talks to the candidate search service.
type SearchGateway struct {
	c client
}

// NewSearchGateway builds the gateway from the service base URL.
func NewSearchGateway(baseURL string) *SearchGateway {
	return &SearchGateway{c: newClient(baseURL, logger.GWSearch)}
}

// Search runs the filter set and returns the requested result page.
func (g *SearchGateway) Search(ctx context.Context, filters domain.SearchFilters) (*SearchResult, error) {
	var out SearchResult
	if err := g.c.doJSON(ctx, http.MethodPost, "/search/", nil, filters, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

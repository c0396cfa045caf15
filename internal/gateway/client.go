package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/netutil"
)

const (
	requestTimeout = 10 * time.Second
	connectTimeout = 5 * time.Second
	retryAttempts  = 3
	retryBackoff   = 1 * time.Second
	maxErrorBody   = 2048
)

// Config points the gateways at their backend services.
type Config struct {
	CandidateURL string `yaml:"candidate_url" envconfig:"CANDIDATE_SERVICE_URL"`
	EmployerURL  string `yaml:"employer_url" envconfig:"EMPLOYER_SERVICE_URL"`
	SearchURL    string `yaml:"search_url" envconfig:"SEARCH_SERVICE_URL"`
	FileURL      string `yaml:"file_url" envconfig:"FILE_SERVICE_URL"`
}

type client struct {
	base string
	hc   *http.Client
	log  *slog.Logger
}

func newClient(baseURL string, log *slog.Logger) client {
	if log == nil {
		// Components are wired during logger init; fall back for tests.
		log = slog.Default()
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	return client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: requestTimeout, Transport: transport},
		log:  log,
	}
}

// doJSON performs one API call with retry on transient network errors.
// Backoff doubles per attempt. A non-2xx status fails immediately with
// a RequestError; out may be nil when the body is not needed.
func (c client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	build := func() (*http.Request, error) {
		u := c.base + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}
	return c.do(ctx, method, path, build, out)
}

func (c client) do(ctx context.Context, method, path string, build func() (*http.Request, error), out any) error {
	start := time.Now()
	reqID := uuid.NewString()
	var lastErr error

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return err
		}
		// Same ID across retries so the backend can deduplicate.
		req.Header.Set("X-Request-ID", reqID)

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			if !netutil.ShouldRetry(err) || attempt == retryAttempts {
				break
			}
			delay := retryBackoff << (attempt - 1)
			c.log.Warn("request retry",
				slog.String("event", "gw.retry"),
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", delay),
				slog.String("err", err.Error()),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return &TransientError{Err: ctx.Err()}
			case <-timer.C:
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("read response: %w", readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet := string(body)
			if len(snippet) > maxErrorBody {
				snippet = snippet[:maxErrorBody]
			}
			c.log.Warn("request failed",
				slog.String("event", "gw.request"),
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.String("request_id", reqID),
				slog.Duration("duration", logger.RoundMS(time.Since(start))),
			)
			return &RequestError{StatusCode: resp.StatusCode, Body: snippet}
		}

		if out != nil && len(body) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		c.log.Debug("request ok",
			slog.String("event", "gw.request"),
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int("attempt", attempt),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return nil
	}

	c.log.Error("request exhausted",
		slog.String("event", "gw.request"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("attempts", retryAttempts),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
		slog.String("err", lastErr.Error()),
	)
	return &TransientError{Err: lastErr}
}

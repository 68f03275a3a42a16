package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

const (
	// DefaultBaseURL is the public Read API v3 root.
	DefaultBaseURL = "https://www.thebluealliance.com/api/v3"

	authHeader = "X-TBA-Auth-Key"
)

// RemoteFetchError is returned when the external API answers with a non-200
// status or cannot be reached at all (StatusCode 0).
type RemoteFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("tba: request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("tba: %s returned status %d", e.URL, e.StatusCode)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// Service is a read-only client for the competition data API.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewService creates a client. A nil httpClient falls back to http.DefaultClient.
func NewService(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer("github.com/mroc/live-display/repos/tba"),
	}
}

// FetchMatches returns every match of an event.
func (s *Service) FetchMatches(ctx context.Context, eventKey string) ([]Match, error) {
	var matches []Match
	if err := s.get(ctx, fmt.Sprintf("/event/%s/matches/simple", url.PathEscape(eventKey)), &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// FetchMatchScore returns a single match, including its current score.
func (s *Service) FetchMatchScore(ctx context.Context, matchKey string) (*Match, error) {
	var match Match
	if err := s.get(ctx, fmt.Sprintf("/match/%s/simple", url.PathEscape(matchKey)), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// FetchRankings returns the ranking table of an event.
func (s *Service) FetchRankings(ctx context.Context, eventKey string) (*Rankings, error) {
	var rankings Rankings
	if err := s.get(ctx, fmt.Sprintf("/event/%s/rankings", url.PathEscape(eventKey)), &rankings); err != nil {
		return nil, err
	}
	return &rankings, nil
}

func (s *Service) get(ctx context.Context, path string, out any) error {
	apiURL := s.baseURL + path

	ctx, span := s.tracer.Start(ctx, "tba.get", trace.WithAttributes(attribute.String("tba.path", path)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return xerrors.Errorf("create request for %s: %w", apiURL, err)
	}
	req.Header.Set(authHeader, s.apiKey)

	response, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		s.logger.ErrorContext(ctx, "TBA request failed", slog.String("url", apiURL), slog.Any("error", err))
		return &RemoteFetchError{URL: apiURL, Err: err}
	}
	defer response.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))
	if response.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status")
		s.logger.ErrorContext(ctx, "TBA returned unexpected status",
			slog.String("url", apiURL),
			slog.Int("status", response.StatusCode),
		)
		return &RemoteFetchError{URL: apiURL, StatusCode: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		span.RecordError(err)
		return xerrors.Errorf("decode response from %s: %w", apiURL, err)
	}
	return nil
}

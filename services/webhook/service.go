package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"

	"github.com/mroc/live-display/pkg/metrics"
	"github.com/mroc/live-display/pkg/normalize"
	"github.com/mroc/live-display/repos/store"
	"github.com/mroc/live-display/repos/tba"
)

// Fetcher reads from the competition data API.
type Fetcher interface {
	FetchMatches(ctx context.Context, eventKey string) ([]tba.Match, error)
	FetchMatchScore(ctx context.Context, matchKey string) (*tba.Match, error)
	FetchRankings(ctx context.Context, eventKey string) (*tba.Rankings, error)
}

// Store is the part of the persistence gateway the pipeline writes to.
type Store interface {
	AppendWebhook(ctx context.Context, kind string, raw json.RawMessage) error
	ReplaceMatches(ctx context.Context, eventKey string, matches []store.SimplifiedMatch) error
	SetScore(ctx context.Context, matchKey string, score store.ScoreData) error
	ApplyRankings(ctx context.Context, eventKey string, rankings []store.TeamRanking) error
}

type WebhookService struct {
	fetcher Fetcher
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

func NewWebhookService(fetcher Fetcher, store Store, logger *slog.Logger, m *metrics.Metrics) *WebhookService {
	return &WebhookService{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("github.com/mroc/live-display/services/webhook"),
		now:     time.Now,
	}
}

// Handle dispatches one notification. Notifications of an unknown type are
// accepted and ignored.
func (s *WebhookService) Handle(ctx context.Context, payload Payload) error {
	s.logger.InfoContext(ctx, "Received TBA webhook", slog.String("message_type", payload.MessageType))

	notification, err := payload.Notification()
	if err != nil {
		s.auditRejected(ctx, payload)
		s.metrics.WebhookNotifications.WithLabelValues(kindLabel(payload.MessageType), metrics.OutcomeFailed).Inc()
		return err
	}

	ctx, span := s.tracer.Start(ctx, "webhook.Handle", trace.WithAttributes(
		attribute.String("message_type", payload.MessageType),
	))
	defer span.End()

	switch n := notification.(type) {
	case Ping:
		err = s.handlePing(ctx, payload.MessageData)
	case ScheduleUpdated:
		err = s.handleScheduleUpdated(ctx, n, payload.MessageData)
	case MatchScore:
		err = s.handleMatchScore(ctx, n, payload.MessageData)
	case Verification:
		s.logger.InfoContext(ctx, "Received verification code", slog.String("verification_key", n.VerificationKey))
	case Unknown:
		s.logger.WarnContext(ctx, "Unhandled webhook type", slog.String("message_type", n.MessageType))
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Error processing webhook", slog.String("message_type", payload.MessageType), slog.Any("error", err))
	}
	s.metrics.WebhookNotifications.WithLabelValues(notification.Kind(), outcome).Inc()
	return err
}

// auditRejected records a notification of a handled kind that could not be
// decoded, so the audit trail still shows every delivery that was attempted.
func (s *WebhookService) auditRejected(ctx context.Context, payload Payload) {
	switch payload.MessageType {
	case KindPing, KindScheduleUpdated, KindMatchScore:
	default:
		return
	}
	if err := s.store.AppendWebhook(ctx, payload.MessageType, payload.MessageData); err != nil {
		s.logger.ErrorContext(ctx, "Failed to audit rejected webhook", slog.String("message_type", payload.MessageType), slog.Any("error", err))
	}
}

func (s *WebhookService) handlePing(ctx context.Context, raw json.RawMessage) error {
	s.logger.InfoContext(ctx, "Received ping notification")
	return s.store.AppendWebhook(ctx, KindPing, raw)
}

func (s *WebhookService) handleScheduleUpdated(ctx context.Context, n ScheduleUpdated, raw json.RawMessage) error {
	if err := s.store.AppendWebhook(ctx, KindScheduleUpdated, raw); err != nil {
		return err
	}

	matches, err := s.fetcher.FetchMatches(ctx, n.EventKey)
	if err != nil {
		return xerrors.Errorf("fetch matches for %s: %w", n.EventKey, err)
	}
	s.logger.InfoContext(ctx, "Fetched matches", slog.String("event_key", n.EventKey), slog.Int("count", len(matches)))

	if err := s.store.ReplaceMatches(ctx, n.EventKey, normalize.Matches(matches)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Processed event schedule update", slog.String("event_key", n.EventKey))
	return nil
}

// handleMatchScore stores the new score and then refreshes the event
// rankings. Only the score write decides the outcome.
func (s *WebhookService) handleMatchScore(ctx context.Context, n MatchScore, raw json.RawMessage) error {
	if err := s.store.AppendWebhook(ctx, KindMatchScore, raw); err != nil {
		return err
	}

	match, err := s.fetcher.FetchMatchScore(ctx, n.MatchKey)
	if err != nil {
		return xerrors.Errorf("fetch score of %s: %w", n.MatchKey, err)
	}

	score := store.ScoreData{
		SimplifiedMatch: normalize.Match(*match),
		ReceivedAt:      s.now(),
	}
	if err := s.store.SetScore(ctx, n.MatchKey, score); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Saved match score", slog.String("match_key", n.MatchKey))

	eventKey := n.EventKey
	if eventKey == "" {
		eventKey = score.EventKey
	}
	if err := s.refreshRankings(ctx, eventKey); err != nil {
		s.metrics.RankingsRefreshFailures.Inc()
		s.logger.ErrorContext(ctx, "Error refreshing rankings", slog.String("event_key", eventKey), slog.Any("error", err))
	}
	return nil
}

func (s *WebhookService) refreshRankings(ctx context.Context, eventKey string) error {
	if eventKey == "" {
		return xerrors.New("no event key to refresh rankings for")
	}
	ctx, span := s.tracer.Start(ctx, "webhook.refreshRankings", trace.WithAttributes(
		attribute.String("event_key", eventKey),
	))
	defer span.End()

	rankings, err := s.fetcher.FetchRankings(ctx, eventKey)
	if err != nil {
		span.RecordError(err)
		return xerrors.Errorf("fetch rankings for %s: %w", eventKey, err)
	}
	rows := normalize.Rankings(*rankings)
	s.logger.InfoContext(ctx, "Processed rankings", slog.String("event_key", eventKey), slog.Int("teams", len(rows)))

	if err := s.store.ApplyRankings(ctx, eventKey, rows); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func kindLabel(messageType string) string {
	switch messageType {
	case KindPing, KindScheduleUpdated, KindMatchScore, KindVerification:
		return messageType
	}
	return kindUnknown
}

package store

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SetScore merge-writes the score snapshot of a single match.
func (s *Service) SetScore(ctx context.Context, matchKey string, score ScoreData) error {
	if matchKey == "" {
		return &ValidationError{Field: "match_key"}
	}
	ctx, span := s.tracer.Start(ctx, "store.SetScore")
	defer span.End()

	_, err := s.Client.Collection(MatchScoresCollection).Doc(matchKey).Set(ctx, map[string]any{
		"match_key":    matchKey,
		"score_data":   score,
		"last_updated": s.now(),
	}, firestore.MergeAll)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to save match score", slog.String("match_key", matchKey), slog.Any("error", err))
		return persistenceError("set score "+docPath(MatchScoresCollection, matchKey), err)
	}
	return nil
}

// GetMatchScore returns the stored score of a match, or nil when none exists.
func (s *Service) GetMatchScore(ctx context.Context, matchKey string) (*MatchScore, error) {
	doc, err := s.Client.Collection(MatchScoresCollection).Doc(matchKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, persistenceError("get "+docPath(MatchScoresCollection, matchKey), err)
	}
	return decodeDoc[MatchScore](doc)
}

// WatchMatchScores streams every stored score belonging to an event.
func (s *Service) WatchMatchScores(ctx context.Context, eventKey string, onChange func([]MatchScore, error)) func() {
	q := s.Client.Collection(MatchScoresCollection).Where("score_data.event_key", "==", eventKey)
	return watchQuery(ctx, q, "watch match scores for "+eventKey, decodeDoc[MatchScore], onChange)
}

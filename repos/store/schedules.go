package store

import (
	"context"
	"log/slog"
	"sort"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// EventMatches is the match list of one event document.
type EventMatches struct {
	EventKey string
	Matches  []SimplifiedMatch
}

// GroupMatchesByEvent splits a match batch per event. Matches without an
// event key are filed under defaultEventKey. Groups are ordered by event key
// and keep the input order of their matches.
func GroupMatchesByEvent(defaultEventKey string, matches []SimplifiedMatch) []EventMatches {
	byEvent := map[string][]SimplifiedMatch{}
	for _, match := range matches {
		key := match.EventKey
		if key == "" {
			key = defaultEventKey
		}
		byEvent[key] = append(byEvent[key], match)
	}

	groups := make([]EventMatches, 0, len(byEvent))
	for key, eventMatches := range byEvent {
		groups = append(groups, EventMatches{EventKey: key, Matches: eventMatches})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].EventKey < groups[j].EventKey
	})
	return groups
}

// ReplaceMatches overwrites the matches field of every event document touched
// by the batch. All event documents are written in one transaction.
func (s *Service) ReplaceMatches(ctx context.Context, eventKey string, matches []SimplifiedMatch) error {
	if len(matches) == 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "store.ReplaceMatches", trace.WithAttributes(
		attribute.String("event_key", eventKey),
		attribute.Int("matches", len(matches)),
	))
	defer span.End()

	groups := GroupMatchesByEvent(eventKey, matches)
	now := s.now()

	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, group := range groups {
			ref := s.Client.Collection(EventSchedulesCollection).Doc(group.EventKey)
			err := tx.Set(ref, map[string]any{
				"event_key":    group.EventKey,
				"matches":      group.Matches,
				"last_updated": now,
			}, firestore.MergeAll)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to save matches", slog.String("event_key", eventKey), slog.Any("error", err))
		return persistenceError("replace matches for "+eventKey, err)
	}
	return nil
}

// GetSchedule returns the schedule of an event, or nil when none was stored yet.
func (s *Service) GetSchedule(ctx context.Context, eventKey string) (*EventSchedule, error) {
	doc, err := s.Client.Collection(EventSchedulesCollection).Doc(eventKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, persistenceError("get "+docPath(EventSchedulesCollection, eventKey), err)
	}
	return decodeDoc[EventSchedule](doc)
}

// WatchSchedule streams the schedule document of an event.
func (s *Service) WatchSchedule(ctx context.Context, eventKey string, onChange func(*EventSchedule, error)) func() {
	ref := s.Client.Collection(EventSchedulesCollection).Doc(eventKey)
	return watchDoc(ctx, ref, "watch "+docPath(EventSchedulesCollection, eventKey), decodeDoc[EventSchedule], onChange)
}

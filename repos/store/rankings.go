package store

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TeamCommand is one planned write of a rankings update. It is either a
// CreateTeam or a PatchTeamRanking.
type TeamCommand interface {
	TeamNumber() string
	isTeamCommand()
}

// CreateTeam creates a minimal team document for a team seen for the first time.
type CreateTeam struct {
	Number      string
	Rank        int
	RankingData RankingData
}

// PatchTeamRanking replaces rank and ranking_data of an existing team and
// leaves every other field untouched.
type PatchTeamRanking struct {
	Number      string
	Rank        int
	RankingData RankingData
}

func (c CreateTeam) TeamNumber() string       { return c.Number }
func (c PatchTeamRanking) TeamNumber() string { return c.Number }
func (CreateTeam) isTeamCommand()             {}
func (PatchTeamRanking) isTeamCommand()       {}

// Fields is the complete content of the new document.
func (c CreateTeam) Fields() map[string]any {
	return map[string]any{
		"number":       c.Number,
		"rank":         c.Rank,
		"ranking_data": c.RankingData,
	}
}

// Updates lists the only two paths a ranking refresh may touch.
func (c PatchTeamRanking) Updates() []firestore.Update {
	return []firestore.Update{
		{Path: "rank", Value: c.Rank},
		{Path: "ranking_data", Value: c.RankingData},
	}
}

// PlanRankings turns normalized rankings into create or patch commands
// depending on whether the team document already exists.
func PlanRankings(eventKey string, rankings []TeamRanking, exists map[string]bool, now time.Time) []TeamCommand {
	commands := make([]TeamCommand, 0, len(rankings))
	for _, ranking := range rankings {
		data := RankingData{
			MatchesPlayed:   ranking.MatchesPlayed,
			Record:          ranking.Record,
			RankingScore:    ranking.RankingScore,
			ExtraStats:      ranking.ExtraStats,
			SortOrders:      ranking.SortOrders,
			NamedExtraStats: ranking.NamedExtraStats,
			NamedSortOrders: ranking.NamedSortOrders,
			EventKey:        eventKey,
			LastUpdated:     now,
		}
		if exists[ranking.TeamNumber] {
			commands = append(commands, PatchTeamRanking{Number: ranking.TeamNumber, Rank: ranking.Rank, RankingData: data})
		} else {
			commands = append(commands, CreateTeam{Number: ranking.TeamNumber, Rank: ranking.Rank, RankingData: data})
		}
	}
	return commands
}

// ApplyRankings writes the ranking of every team of an event in one
// transaction. Existing teams are patched, unknown teams are created.
func (s *Service) ApplyRankings(ctx context.Context, eventKey string, rankings []TeamRanking) error {
	if len(rankings) == 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "store.ApplyRankings", trace.WithAttributes(
		attribute.String("event_key", eventKey),
		attribute.Int("teams", len(rankings)),
	))
	defer span.End()

	teams := s.Client.Collection(TeamsCollection)
	refs := make([]*firestore.DocumentRef, 0, len(rankings))
	for _, ranking := range rankings {
		if ranking.TeamNumber == "" {
			return &ValidationError{Field: "team_number"}
		}
		refs = append(refs, teams.Doc(ranking.TeamNumber))
	}

	now := s.now()
	var created, patched int
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created, patched = 0, 0

		docs, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		exists := make(map[string]bool, len(docs))
		for _, doc := range docs {
			exists[doc.Ref.ID] = doc.Exists()
		}

		for _, command := range PlanRankings(eventKey, rankings, exists, now) {
			ref := teams.Doc(command.TeamNumber())
			switch c := command.(type) {
			case CreateTeam:
				created++
				err = tx.Set(ref, c.Fields())
			case PatchTeamRanking:
				patched++
				err = tx.Update(ref, c.Updates())
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to save team rankings", slog.String("event_key", eventKey), slog.Any("error", err))
		return persistenceError("apply rankings for "+eventKey, err)
	}

	s.logger.InfoContext(ctx, "Saved team rankings",
		slog.String("event_key", eventKey),
		slog.Int("created", created),
		slog.Int("patched", patched),
	)
	return nil
}

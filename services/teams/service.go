package teams

import (
	"context"
	"log/slog"

	"github.com/mroc/live-display/repos/store"
)

// TeamStore is the teams part of the persistence gateway.
type TeamStore interface {
	GetAllTeams(ctx context.Context) ([]store.Team, error)
	GetTeam(ctx context.Context, number string) (*store.Team, error)
	UpsertTeam(ctx context.Context, team store.Team) error
	PatchTeam(ctx context.Context, number string, patch store.TeamPatch) error
	DeleteTeam(ctx context.Context, number string) error
}

type TeamsService struct {
	store  TeamStore
	logger *slog.Logger
}

func NewTeamsService(store TeamStore, logger *slog.Logger) *TeamsService {
	return &TeamsService{
		store:  store,
		logger: logger,
	}
}

func (s *TeamsService) GetTeams(ctx context.Context) ([]store.Team, error) {
	return s.store.GetAllTeams(ctx)
}

func (s *TeamsService) GetTeam(ctx context.Context, number string) (*store.Team, error) {
	return s.store.GetTeam(ctx, number)
}

// UpsertTeam saves the display fields of team. Ranking data is owned by the
// rankings refresh and is never taken from the caller.
func (s *TeamsService) UpsertTeam(ctx context.Context, team store.Team) error {
	team.RankingData = nil
	if err := s.store.UpsertTeam(ctx, team); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Saved team", slog.String("team", team.Number))
	return nil
}

func (s *TeamsService) PatchTeam(ctx context.Context, number string, patch store.TeamPatch) error {
	return s.store.PatchTeam(ctx, number, patch)
}

func (s *TeamsService) DeleteTeam(ctx context.Context, number string) error {
	if err := s.store.DeleteTeam(ctx, number); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Deleted team", slog.String("team", number))
	return nil
}

// GetStandings returns one page of the ranking table of eventKey. An empty
// eventKey ranks every stored team.
func (s *TeamsService) GetStandings(ctx context.Context, eventKey string, page int) (*StandingsPage, error) {
	all, err := s.store.GetAllTeams(ctx)
	if err != nil {
		return nil, err
	}

	rows, pages := store.PageOf(store.Standings(all, eventKey), page, store.StandingsPageSize)
	out := &StandingsPage{
		EventKey: eventKey,
		Page:     page,
		Pages:    pages,
		Rows:     make([]StandingRow, 0, len(rows)),
	}
	for _, team := range rows {
		out.Rows = append(out.Rows, standingRow(team))
	}
	return out, nil
}

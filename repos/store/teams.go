package store

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetAllTeams returns every team document. The document ID is authoritative for Number.
func (s *Service) GetAllTeams(ctx context.Context) ([]Team, error) {
	docs, err := s.Client.Collection(TeamsCollection).Documents(ctx).GetAll()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list teams", slog.Any("error", err))
		return nil, persistenceError("list teams", err)
	}
	return docsToTeams(docs)
}

// GetTeam returns the team with the given number, or nil when it does not exist.
func (s *Service) GetTeam(ctx context.Context, number string) (*Team, error) {
	if number == "" {
		return nil, &ValidationError{Field: "number"}
	}
	doc, err := s.Client.Collection(TeamsCollection).Doc(number).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, persistenceError("get "+docPath(TeamsCollection, number), err)
	}
	return docToTeam(doc)
}

// UpsertTeam merges the set fields of team into its document, creating it if needed.
func (s *Service) UpsertTeam(ctx context.Context, team Team) error {
	if team.Number == "" {
		return &ValidationError{Field: "number"}
	}
	_, err := s.Client.Collection(TeamsCollection).Doc(team.Number).Set(ctx, teamFields(team), firestore.MergeAll)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to upsert team", slog.String("team", team.Number), slog.Any("error", err))
		return persistenceError("upsert "+docPath(TeamsCollection, team.Number), err)
	}
	return nil
}

// PatchTeam updates only the non-nil fields of patch. The document must exist.
func (s *Service) PatchTeam(ctx context.Context, number string, patch TeamPatch) error {
	if number == "" {
		return &ValidationError{Field: "number"}
	}
	updates := createTeamUpdates(&patch)
	if len(updates) == 0 {
		return nil
	}
	_, err := s.Client.Collection(TeamsCollection).Doc(number).Update(ctx, updates)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to patch team", slog.String("team", number), slog.Any("error", err))
		return persistenceError("patch "+docPath(TeamsCollection, number), err)
	}
	return nil
}

// DeleteTeam removes a team document.
func (s *Service) DeleteTeam(ctx context.Context, number string) error {
	if number == "" {
		return &ValidationError{Field: "number"}
	}
	if _, err := s.Client.Collection(TeamsCollection).Doc(number).Delete(ctx); err != nil {
		return persistenceError("delete "+docPath(TeamsCollection, number), err)
	}
	return nil
}

// WatchTeams calls onChange with the full team list on every change until the
// returned function is called.
func (s *Service) WatchTeams(ctx context.Context, onChange func([]Team, error)) func() {
	return watchQuery(ctx, s.Client.Collection(TeamsCollection).Query, "watch teams", docToTeam, onChange)
}

// WatchTeam calls onChange with the team on every change; a nil team means the document is absent.
func (s *Service) WatchTeam(ctx context.Context, number string, onChange func(*Team, error)) func() {
	return watchDoc(ctx, s.Client.Collection(TeamsCollection).Doc(number), "watch "+docPath(TeamsCollection, number), docToTeam, onChange)
}

func docToTeam(doc *firestore.DocumentSnapshot) (*Team, error) {
	team, err := decodeDoc[Team](doc)
	if err != nil {
		return nil, err
	}
	team.Number = doc.Ref.ID
	return team, nil
}

func docsToTeams(docs []*firestore.DocumentSnapshot) ([]Team, error) {
	teams := make([]Team, 0, len(docs))
	for _, doc := range docs {
		team, err := docToTeam(doc)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, nil
}

// teamFields flattens the set display fields of a team for a merge write.
// ranking_data is left out; only ApplyRankings writes it.
func teamFields(team Team) map[string]any {
	fields := map[string]any{"number": team.Number}
	for _, u := range createTeamUpdates(&TeamPatch{
		Name:      team.Name,
		Location:  team.Location,
		RobotName: team.RobotName,
		EPA:       team.EPA,
		Notes:     team.Notes,
		Rank:      team.Rank,
	}) {
		fields[u.Path] = u.Value
	}
	return fields
}

func createTeamUpdates(patch *TeamPatch) []firestore.Update {
	var updates []firestore.Update

	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Location != nil {
		updates = append(updates, firestore.Update{Path: "location", Value: *patch.Location})
	}
	if patch.RobotName != nil {
		updates = append(updates, firestore.Update{Path: "robot_name", Value: *patch.RobotName})
	}
	if patch.EPA != nil {
		updates = append(updates, firestore.Update{Path: "EPA", Value: *patch.EPA})
	}
	if patch.Notes != nil {
		updates = append(updates, firestore.Update{Path: "notes", Value: *patch.Notes})
	}
	if patch.Rank != nil {
		updates = append(updates, firestore.Update{Path: "rank", Value: *patch.Rank})
	}

	return updates
}

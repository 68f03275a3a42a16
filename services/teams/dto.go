package teams

import "github.com/mroc/live-display/repos/store"

// StandingsPage is one page of an event ranking table.
type StandingsPage struct {
	EventKey string        `json:"event_key,omitempty"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	Rows     []StandingRow `json:"rows"`
}

type StandingRow struct {
	Rank          *int         `json:"rank,omitempty"`
	Number        string       `json:"number"`
	Name          string       `json:"name,omitempty"`
	MatchesPlayed int          `json:"matches_played"`
	Record        store.Record `json:"record"`
	RankingScore  *float64     `json:"ranking_score,omitempty"`
}

func standingRow(team store.Team) StandingRow {
	row := StandingRow{Rank: team.Rank, Number: team.Number}
	if team.Name != nil {
		row.Name = *team.Name
	}
	if team.RankingData != nil {
		row.MatchesPlayed = team.RankingData.MatchesPlayed
		row.Record = team.RankingData.Record
		row.RankingScore = team.RankingData.RankingScore
	}
	return row
}

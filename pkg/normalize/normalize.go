// Package normalize converts raw competition API records into the shapes the
// store and the displays work with. Nothing in here does I/O.
package normalize

import (
	"strings"

	"github.com/mroc/live-display/repos/store"
	"github.com/mroc/live-display/repos/tba"
)

// TeamPrefix is prepended to every team number by the competition API.
const TeamPrefix = "frc"

// TeamNumber strips the API prefix from a team key: "frc254" becomes "254".
func TeamNumber(teamKey string) string {
	return strings.TrimPrefix(teamKey, TeamPrefix)
}

func teamNumbers(keys []string) []string {
	if keys == nil {
		return nil
	}
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = TeamNumber(key)
	}
	return out
}

func alliance(raw tba.Alliance) store.MatchAlliance {
	return store.MatchAlliance{
		TeamKeys:          teamNumbers(raw.TeamKeys),
		Score:             raw.Score,
		DQTeamKeys:        teamNumbers(raw.DQTeamKeys),
		SurrogateTeamKeys: teamNumbers(raw.SurrogateTeamKeys),
	}
}

// Match copies a raw match, stripping the team prefix in both alliances.
// Missing times stay absent and a missing winner becomes "".
func Match(raw tba.Match) store.SimplifiedMatch {
	match := store.SimplifiedMatch{
		Key:         raw.Key,
		EventKey:    raw.EventKey,
		CompLevel:   raw.CompLevel,
		MatchNumber: raw.MatchNumber,
		SetNumber:   raw.SetNumber,
		Alliances: store.MatchAlliances{
			Red:  alliance(raw.Alliances.Red),
			Blue: alliance(raw.Alliances.Blue),
		},
		Time:          raw.Time,
		ActualTime:    raw.ActualTime,
		PredictedTime: raw.PredictedTime,
	}
	if raw.WinningAlliance != nil {
		match.WinningAlliance = *raw.WinningAlliance
	}
	return match
}

// Matches normalizes a batch of raw matches, keeping their order.
func Matches(raw []tba.Match) []store.SimplifiedMatch {
	out := make([]store.SimplifiedMatch, len(raw))
	for i, match := range raw {
		out[i] = Match(match)
	}
	return out
}

// Rankings flattens an event ranking table. Sort orders and extra stats are
// paired with their info names index by index; surplus values or names on
// either side are skipped. The ranking score is the first sort order.
func Rankings(raw tba.Rankings) []store.TeamRanking {
	out := make([]store.TeamRanking, 0, len(raw.Rankings))
	for _, ranking := range raw.Rankings {
		row := store.TeamRanking{
			TeamNumber:      TeamNumber(ranking.TeamKey),
			Rank:            ranking.Rank,
			MatchesPlayed:   ranking.MatchesPlayed,
			SortOrders:      ranking.SortOrders,
			ExtraStats:      ranking.ExtraStats,
			NamedSortOrders: named(ranking.SortOrders, raw.SortOrderInfo),
			NamedExtraStats: named(ranking.ExtraStats, raw.ExtraStatsInfo),
		}
		if ranking.Record != nil {
			row.Record = store.Record{
				Wins:   ranking.Record.Wins,
				Losses: ranking.Record.Losses,
				Ties:   ranking.Record.Ties,
			}
		}
		if len(ranking.SortOrders) > 0 {
			score := ranking.SortOrders[0]
			row.RankingScore = &score
		}
		out = append(out, row)
	}
	return out
}

// named pairs values with the names in info by position. Entries past the
// shorter of the two are skipped. When a name repeats, the later position wins,
// so the map then holds fewer than min(len(values), len(info)) entries.
func named(values []float64, info []tba.StatInfo) map[string]float64 {
	n := min(len(values), len(info))
	out := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		out[info[i].Name] = values[i]
	}
	return out
}

package store

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MatchName returns the on-screen name of a match, e.g. "Qual 12" or "Semi 2 Match 1".
func MatchName(match SimplifiedMatch) string {
	level := strings.ToUpper(match.CompLevel)
	switch level {
	case "QM":
		return fmt.Sprintf("Qual %d", match.MatchNumber)
	case "QF":
		return fmt.Sprintf("Quarter %d Match %d", match.SetNumber, match.MatchNumber)
	case "SF":
		return fmt.Sprintf("Semi %d Match %d", match.SetNumber, match.MatchNumber)
	case "F":
		return fmt.Sprintf("Final %d", match.MatchNumber)
	}
	return fmt.Sprintf("%s %d", level, match.MatchNumber)
}

// TeamsInMatch lists the red teams followed by the blue teams.
func TeamsInMatch(match SimplifiedMatch) []string {
	teams := make([]string, 0, len(match.Alliances.Red.TeamKeys)+len(match.Alliances.Blue.TeamKeys))
	teams = append(teams, match.Alliances.Red.TeamKeys...)
	return append(teams, match.Alliances.Blue.TeamKeys...)
}

// DidTeamWin reports whether the team's alliance won. It returns nil when the
// team did not play or no winner is recorded.
func DidTeamWin(match SimplifiedMatch, team string) *bool {
	red := slices.Contains(match.Alliances.Red.TeamKeys, team)
	blue := slices.Contains(match.Alliances.Blue.TeamKeys, team)
	if (!red && !blue) || match.WinningAlliance == "" {
		return nil
	}
	won := (red && match.WinningAlliance == "red") || (blue && match.WinningAlliance == "blue")
	return &won
}

// TeamScore returns the score of the team's alliance, or nil when the team did not play.
// A missing alliance score counts as zero.
func TeamScore(match SimplifiedMatch, team string) *int {
	var alliance MatchAlliance
	switch {
	case slices.Contains(match.Alliances.Red.TeamKeys, team):
		alliance = match.Alliances.Red
	case slices.Contains(match.Alliances.Blue.TeamKeys, team):
		alliance = match.Alliances.Blue
	default:
		return nil
	}
	score := 0
	if alliance.Score != nil {
		score = *alliance.Score
	}
	return &score
}

// MatchesForTeam filters a schedule down to the matches a team plays in.
func MatchesForTeam(matches []SimplifiedMatch, team string) []SimplifiedMatch {
	var out []SimplifiedMatch
	for _, match := range matches {
		if slices.Contains(TeamsInMatch(match), team) {
			out = append(out, match)
		}
	}
	return out
}

// Standings returns the teams of an event ordered by rank. Teams whose
// ranking belongs to another event are dropped unless eventKey is empty.
// Unranked teams come last, ordered by team number.
func Standings(teams []Team, eventKey string) []Team {
	out := make([]Team, 0, len(teams))
	for _, team := range teams {
		if eventKey != "" && (team.RankingData == nil || team.RankingData.EventKey != eventKey) {
			continue
		}
		out = append(out, team)
	}
	slices.SortStableFunc(out, func(a, b Team) int {
		switch {
		case a.Rank != nil && b.Rank != nil:
			return cmp.Compare(*a.Rank, *b.Rank)
		case a.Rank != nil:
			return -1
		case b.Rank != nil:
			return 1
		}
		return compareTeamNumbers(a.Number, b.Number)
	})
	return out
}

// compareTeamNumbers orders numeric team numbers by value, ahead of anything
// that is not a number.
func compareTeamNumbers(a, b string) int {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(x, y)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// StandingsPageSize is the number of rows on one rankings page.
const StandingsPageSize = 10

// PageOf returns page (0-based) of teams split into pages of size rows, and
// the number of pages. A page past the end is empty.
func PageOf(teams []Team, page, size int) ([]Team, int) {
	if size <= 0 {
		size = StandingsPageSize
	}
	pages := (len(teams) + size - 1) / size
	if page < 0 || page >= pages {
		return []Team{}, pages
	}
	end := min((page+1)*size, len(teams))
	return teams[page*size : end], pages
}

package store

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"
)

func TestPlanRankingsBranchesOnExistence(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rankings := []TeamRanking{
		{TeamNumber: "254", Rank: 1, MatchesPlayed: 10, Record: Record{Wins: 9, Losses: 1}, RankingScore: pointer.Float64(3.5), SortOrders: []float64{3.5}},
		{TeamNumber: "9999", Rank: 2, MatchesPlayed: 10, Record: Record{Wins: 8, Losses: 2}},
	}

	commands := PlanRankings("2025mrcmp", rankings, map[string]bool{"254": true}, now)

	require.Len(t, commands, 2)

	patch, ok := commands[0].(PatchTeamRanking)
	require.True(t, ok, "existing team should be patched, got %T", commands[0])
	assert.Equal(t, "254", patch.TeamNumber())
	assert.Equal(t, 1, patch.Rank)
	assert.Equal(t, "2025mrcmp", patch.RankingData.EventKey)
	assert.Equal(t, now, patch.RankingData.LastUpdated)
	assert.Equal(t, 3.5, *patch.RankingData.RankingScore)

	create, ok := commands[1].(CreateTeam)
	require.True(t, ok, "unknown team should be created, got %T", commands[1])
	assert.Equal(t, "9999", create.TeamNumber())
	assert.Nil(t, create.RankingData.RankingScore)
}

func TestCreateTeamFieldsAreMinimal(t *testing.T) {
	create := CreateTeam{Number: "1114", Rank: 3, RankingData: RankingData{EventKey: "2025mrcmp"}}

	fields := create.Fields()

	assert.Len(t, fields, 3)
	assert.Equal(t, "1114", fields["number"])
	assert.Equal(t, 3, fields["rank"])
	assert.Contains(t, fields, "ranking_data")
}

func TestPatchTeamRankingTouchesOnlyRankAndRankingData(t *testing.T) {
	patch := PatchTeamRanking{Number: "1114", Rank: 3}

	var paths []string
	for _, u := range patch.Updates() {
		paths = append(paths, u.Path)
	}

	assert.ElementsMatch(t, []string{"rank", "ranking_data"}, paths)
}

func TestPlanRankingsKeepsInputOrder(t *testing.T) {
	faker := gofakeit.New(42)
	var rankings []TeamRanking
	exists := map[string]bool{}
	for i := 0; i < 20; i++ {
		number := faker.DigitN(4)
		rankings = append(rankings, TeamRanking{TeamNumber: number, Rank: i + 1})
		exists[number] = faker.Bool()
	}

	commands := PlanRankings("2025mrcmp", rankings, exists, time.Now())

	require.Len(t, commands, len(rankings))
	for i, command := range commands {
		assert.Equal(t, rankings[i].TeamNumber, command.TeamNumber())
		_, patched := command.(PatchTeamRanking)
		assert.Equal(t, exists[rankings[i].TeamNumber], patched)
	}
}

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/mroc/live-display/pkg/control"
	"github.com/mroc/live-display/pkg/display"
	"github.com/mroc/live-display/repos/store"
)

func TestMatchMessage(t *testing.T) {
	m, err := matchMessage("12", "2025mrcmp", "frc118, 148,1678", "254,1114,2056")

	require.NoError(t, err)
	assert.Equal(t, control.MatchData{
		MatchNumber: "12",
		EventKey:    "2025mrcmp",
		BlueTeams:   []string{"118", "148", "1678"},
		RedTeams:    []string{"254", "1114", "2056"},
	}, m)

	_, err = matchMessage("12", "", "1,2,3,4", "5")
	assert.Error(t, err)
}

func TestSetupArguments(t *testing.T) {
	m, err := robotMessage("red", "1")
	require.NoError(t, err)
	assert.Equal(t, control.RobotSelection{Alliance: control.AllianceRed, TeamIndex: 1}, m)

	_, err = robotMessage("red", "3")
	assert.Error(t, err)
	_, err = robotMessage("purple", "0")
	assert.Error(t, err)

	m, err = viewMessage("greenscreen")
	require.NoError(t, err)
	assert.Equal(t, control.ViewModeChange{Mode: control.ModeGreenScreen}, m)
	_, err = viewMessage("")
	assert.Error(t, err)

	m, err = allianceMessage("blue")
	require.NoError(t, err)
	assert.Equal(t, control.AllianceSelection{Alliance: control.AllianceBlue}, m)

	m, err = pageMessage("2")
	require.NoError(t, err)
	assert.Equal(t, control.RankingsPageChange{Page: 2}, m)
	_, err = pageMessage("-1")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	state := display.NewState(time.UTC)
	state.SetTeams([]store.Team{{
		Number:      "254",
		Name:        pointer.String("The Cheesy Poofs"),
		Notes:       pointer.String("fast cycles"),
		RankingData: &store.RankingData{Record: store.Record{Wins: 9, Losses: 1}},
	}})
	require.NoError(t, state.Apply(control.MatchData{MatchNumber: "3", BlueTeams: []string{"118"}, RedTeams: []string{"254"}}))
	require.NoError(t, state.Apply(control.RobotSelection{Alliance: control.AllianceRed, TeamIndex: 0}))

	var buf bytes.Buffer
	render(&buf, state.Screen())

	assert.Equal(t, "[robot] Match 3\n  red: 254 The Cheesy Poofs (9-1-0)\n  notes: fast cycles\n", buf.String())
}

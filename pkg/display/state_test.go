package display

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/mroc/live-display/pkg/control"
	"github.com/mroc/live-display/repos/store"
)

var qm12 = control.MatchData{
	MatchNumber: "12",
	EventKey:    "2025mrcmp",
	BlueTeams:   []string{"118", "148", "1678"},
	RedTeams:    []string{"254", "1114", "2056"},
}

func newTestState() *State {
	s := NewState(time.UTC)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC) }
	return s
}

func TestInitialScreen(t *testing.T) {
	s := newTestState()

	screen := s.Screen()

	assert.Equal(t, control.ModeAll, screen.Mode)
	assert.Empty(t, screen.Blue)
	assert.Empty(t, screen.Title)
	assert.Equal(t, control.AllianceBlue, s.Snapshot().Alliance)
	assert.Zero(t, s.Snapshot().TeamIndex)
}

func TestAllTeamsScreen(t *testing.T) {
	s := newTestState()
	s.SetTeams([]store.Team{{Number: "254", Name: pointer.String("The Cheesy Poofs"), EPA: pointer.Float64(71.2)}})

	require.NoError(t, s.Apply(qm12))
	screen := s.Screen()

	require.Len(t, screen.Red, 3)
	assert.Equal(t, "The Cheesy Poofs", screen.Red[0].Name)
	assert.Equal(t, 71.2, *screen.Red[0].EPA)
	assert.Equal(t, TeamCard{Number: "1114"}, screen.Red[1])
	assert.Equal(t, []string{"118", "148", "1678"}, []string{screen.Blue[0].Number, screen.Blue[1].Number, screen.Blue[2].Number})
	assert.Equal(t, "Match 12", screen.Title)
}

func TestAllianceSelectionSwitchesMode(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Apply(qm12))

	require.NoError(t, s.Apply(control.AllianceSelection{Alliance: control.AllianceRed}))
	screen := s.Screen()

	assert.Equal(t, control.ModeAlliance, screen.Mode)
	assert.Equal(t, control.AllianceRed, screen.Alliance)
	require.Len(t, screen.Teams, 3)
	assert.Equal(t, "254", screen.Teams[0].Number)
}

func TestRobotSelectionSwitchesMode(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Apply(qm12))

	require.NoError(t, s.Apply(control.RobotSelection{Alliance: control.AllianceRed, TeamIndex: 1}))
	screen := s.Screen()

	assert.Equal(t, control.ModeRobot, screen.Mode)
	require.NotNil(t, screen.Robot)
	assert.Equal(t, "1114", screen.Robot.Number)
}

func TestRobotScreenWithoutMatchData(t *testing.T) {
	s := newTestState()

	require.NoError(t, s.Apply(control.RobotSelection{Alliance: control.AllianceBlue, TeamIndex: 2}))

	assert.Nil(t, s.Screen().Robot)
}

func TestInvalidMessagesLeaveStateAlone(t *testing.T) {
	s := newTestState()
	before := s.Snapshot()

	var invalid *InvalidMessageError
	assert.ErrorAs(t, s.Apply(control.ViewModeChange{Mode: "disco"}), &invalid)
	assert.ErrorAs(t, s.Apply(control.AllianceSelection{Alliance: "green"}), &invalid)
	assert.ErrorAs(t, s.Apply(control.RobotSelection{Alliance: control.AllianceRed, TeamIndex: 3}), &invalid)
	assert.ErrorAs(t, s.Apply(control.RankingsPageChange{Page: -1}), &invalid)

	assert.Equal(t, before, s.Snapshot())
}

func TestMatchDataKeepsViewMode(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Apply(control.ViewModeChange{Mode: control.ModeGreenScreen}))

	require.NoError(t, s.Apply(qm12))

	assert.Equal(t, control.ModeGreenScreen, s.Screen().Mode)
}

func TestTitleFromSchedule(t *testing.T) {
	s := newTestState()
	s.SetSchedule([]store.SimplifiedMatch{
		{EventKey: "2025mrcmp", CompLevel: "qm", MatchNumber: 11},
		{EventKey: "2025mrcmp", CompLevel: "qm", MatchNumber: 12, Time: pointer.Int64(time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC).Unix())},
	})

	require.NoError(t, s.Apply(qm12))

	assert.Equal(t, "Qual 12 at Sat 14:05", s.Screen().Title)
}

func TestRankingsScreen(t *testing.T) {
	s := newTestState()
	var teams []store.Team
	for i := 1; i <= 14; i++ {
		teams = append(teams, store.Team{
			Number: fmt.Sprint(1000 + i),
			Rank:   pointer.Int(i),
			RankingData: &store.RankingData{
				EventKey:    "2025mrcmp",
				Record:      store.Record{Wins: 14 - i},
				LastUpdated: time.Date(2025, 3, 1, 14, 50-i, 0, 0, time.UTC),
			},
		})
	}
	teams = append(teams, store.Team{Number: "9", Rank: pointer.Int(1), RankingData: &store.RankingData{EventKey: "2025cafr"}})
	s.SetTeams(teams)
	require.NoError(t, s.Apply(qm12))
	require.NoError(t, s.Apply(control.ViewModeChange{Mode: control.ModeRankings}))

	require.NoError(t, s.Apply(control.RankingsPageChange{Page: 1}))
	screen := s.Screen()

	assert.Equal(t, 2, screen.Pages)
	assert.Equal(t, 1, screen.Page)
	require.Len(t, screen.Rankings, 4)
	assert.Equal(t, "1011", screen.Rankings[0].Number)
	assert.Equal(t, 3, screen.Rankings[0].Record.Wins)
	assert.Equal(t, "11m ago", screen.RankingsUpdated)
}

func TestSnapshotRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")
	s := newTestState()
	require.NoError(t, s.Apply(qm12))
	require.NoError(t, s.Apply(control.RobotSelection{Alliance: control.AllianceRed, TeamIndex: 2}))

	require.NoError(t, SaveFile(path, s.Snapshot()))
	snap, ok, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, ok)

	restored := newTestState()
	restored.Restore(snap)

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.Equal(t, "2056", restored.Screen().Robot.Number)
}

func TestLoadMissingFile(t *testing.T) {
	_, ok, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: disco\nalliance: green\nteam_index: 7\npage: -3\n"), 0o644))

	snap, ok, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, ok)

	s := newTestState()
	s.Restore(snap)

	got := s.Snapshot()
	assert.Equal(t, control.ModeAll, got.Mode)
	assert.Equal(t, control.AllianceBlue, got.Alliance)
	assert.Zero(t, got.TeamIndex)
	assert.Zero(t, got.Page)
}

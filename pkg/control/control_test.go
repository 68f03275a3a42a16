package control

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	messages := []Message{
		MatchData{MatchNumber: "12", EventKey: "2025mrcmp", BlueTeams: []string{"118", "148", "1678"}, RedTeams: []string{"254", "1114", "2056"}},
		ViewModeChange{Mode: ModeRankings},
		AllianceSelection{Alliance: AllianceRed},
		RobotSelection{Alliance: AllianceRed, TeamIndex: 1},
		RankingsPageChange{Page: 3},
	}

	for _, m := range messages {
		t.Run(string(m.Event()), func(t *testing.T) {
			data, err := Encode(m)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestEncodeWireShape(t *testing.T) {
	data, err := Encode(RobotSelection{Alliance: AllianceRed, TeamIndex: 1})
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"ROBOT_SELECTION","payload":{"alliance":"red","teamIndex":1}}`, string(data))
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := Decode([]byte(`{"event":"SELF_DESTRUCT","payload":{}}`))

	assert.True(t, errors.Is(err, ErrUnknownEvent))
}

func TestDecodeBadPayload(t *testing.T) {
	_, err := Decode([]byte(`{"event":"RANKINGS_PAGE_CHANGE","payload":{"page":"two"}}`))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownEvent))
}

func TestDecodeMissingPayload(t *testing.T) {
	got, err := Decode([]byte(`{"event":"VIEW_MODE_CHANGE"}`))

	require.NoError(t, err)
	assert.Equal(t, ViewModeChange{}, got)
}

func TestKnown(t *testing.T) {
	for _, e := range Events() {
		assert.True(t, Known(string(e)))
	}
	assert.False(t, Known("match_data_update"))
	assert.False(t, Known(""))
}

func TestValid(t *testing.T) {
	assert.True(t, ModeGreenScreen.Valid())
	assert.False(t, ViewMode("fullscreen").Valid())
	assert.True(t, AllianceBlue.Valid())
	assert.False(t, Alliance("green").Valid())
}

package tba

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(server.URL, "secret", server.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchMatches(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/event/2025mrcmp/matches/simple", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-TBA-Auth-Key"))
		w.Write([]byte(`[
			{"key":"2025mrcmp_qm1","event_key":"2025mrcmp","comp_level":"qm","match_number":1,"set_number":1,
			 "alliances":{"red":{"team_keys":["frc254","frc1114","frc2056"],"score":87},
			              "blue":{"team_keys":["frc118","frc148","frc1678"],"score":null}},
			 "winning_alliance":"red","time":1700000000,"actual_time":null}
		]`))
	})

	matches, err := s.FetchMatches(context.Background(), "2025mrcmp")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "2025mrcmp_qm1", matches[0].Key)
	assert.Equal(t, []string{"frc254", "frc1114", "frc2056"}, matches[0].Alliances.Red.TeamKeys)
	require.NotNil(t, matches[0].Alliances.Red.Score)
	assert.Equal(t, 87, *matches[0].Alliances.Red.Score)
	assert.Nil(t, matches[0].Alliances.Blue.Score)
	assert.Nil(t, matches[0].ActualTime)
	require.NotNil(t, matches[0].Time)
	assert.Equal(t, int64(1700000000), *matches[0].Time)
}

func TestFetchMatchScore(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match/2025mrcmp_qm7/simple", r.URL.Path)
		w.Write([]byte(`{"key":"2025mrcmp_qm7","event_key":"2025mrcmp","comp_level":"qm","match_number":7,
			"alliances":{"red":{"team_keys":["frc1"],"score":10},"blue":{"team_keys":["frc2"],"score":12}},
			"winning_alliance":"blue"}`))
	})

	match, err := s.FetchMatchScore(context.Background(), "2025mrcmp_qm7")

	require.NoError(t, err)
	assert.Equal(t, 7, match.MatchNumber)
	require.NotNil(t, match.WinningAlliance)
	assert.Equal(t, "blue", *match.WinningAlliance)
}

func TestFetchRankings(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event/2025mrcmp/rankings", r.URL.Path)
		w.Write([]byte(`{
			"rankings":[{"team_key":"frc254","rank":1,"matches_played":10,"record":{"wins":9,"losses":1,"ties":0},
			             "sort_orders":[3.5,120.25],"extra_stats":[35]}],
			"sort_order_info":[{"name":"Ranking Score","precision":2},{"name":"Avg Coop","precision":2}],
			"extra_stats_info":[{"name":"Total Ranking Points","precision":0}]
		}`))
	})

	rankings, err := s.FetchRankings(context.Background(), "2025mrcmp")

	require.NoError(t, err)
	require.Len(t, rankings.Rankings, 1)
	assert.Equal(t, []float64{3.5, 120.25}, rankings.Rankings[0].SortOrders)
	assert.Equal(t, 9, rankings.Rankings[0].Record.Wins)
	assert.Len(t, rankings.SortOrderInfo, 2)
}

func TestFetchNonOKStatus(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := s.FetchRankings(context.Background(), "2025mrcmp")

	var fetchErr *RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	s := NewService(server.URL, "secret", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := s.FetchMatches(context.Background(), "2025mrcmp")

	var fetchErr *RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Unwrap())
}

func TestFetchMalformedBody(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := s.FetchMatchScore(context.Background(), "x")

	require.Error(t, err)
	var fetchErr *RemoteFetchError
	assert.False(t, errors.As(err, &fetchErr))
}

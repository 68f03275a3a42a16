package teams

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mroc/live-display/repos/store"
)

type memoryStore struct {
	teams map[string]store.Team
}

func (m *memoryStore) GetAllTeams(context.Context) ([]store.Team, error) {
	var out []store.Team
	for _, team := range m.teams {
		out = append(out, team)
	}
	return out, nil
}

func (m *memoryStore) GetTeam(_ context.Context, number string) (*store.Team, error) {
	if number == "" {
		return nil, &store.ValidationError{Field: "number"}
	}
	team, ok := m.teams[number]
	if !ok {
		return nil, nil
	}
	return &team, nil
}

func (m *memoryStore) UpsertTeam(_ context.Context, team store.Team) error {
	m.teams[team.Number] = team
	return nil
}

func (m *memoryStore) PatchTeam(_ context.Context, number string, patch store.TeamPatch) error {
	team, ok := m.teams[number]
	if !ok {
		return &store.PersistenceError{Op: "patch", Err: status.Error(codes.NotFound, "no document")}
	}
	if patch.Notes != nil {
		team.Notes = patch.Notes
	}
	if patch.Rank != nil {
		team.Rank = patch.Rank
	}
	m.teams[number] = team
	return nil
}

func (m *memoryStore) DeleteTeam(_ context.Context, number string) error {
	delete(m.teams, number)
	return nil
}

func newTestRouter(st *memoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := NewTeamsService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	NewHTTPHandler(HTTPOptions{Service: svc, Router: r.Group("/teams/v1")})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func rankedTeam(number string, rank int, event string) store.Team {
	return store.Team{
		Number: number,
		Rank:   pointer.Int(rank),
		RankingData: &store.RankingData{
			EventKey:      event,
			MatchesPlayed: 8,
			Record:        store.Record{Wins: 8 - rank},
		},
	}
}

func TestUpsertAndGetTeam(t *testing.T) {
	st := &memoryStore{teams: map[string]store.Team{}}
	r := newTestRouter(st)

	w := do(r, http.MethodPut, "/teams/v1/team/254", `{"name":"The Cheesy Poofs","notes":"swerve"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/teams/v1/team/254", "")
	require.Equal(t, http.StatusOK, w.Code)

	var team store.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))
	assert.Equal(t, "254", team.Number)
	assert.Equal(t, "The Cheesy Poofs", *team.Name)
	assert.Equal(t, "swerve", *team.Notes)
}

func TestUpsertIgnoresRankingData(t *testing.T) {
	st := &memoryStore{teams: map[string]store.Team{}}
	r := newTestRouter(st)

	w := do(r, http.MethodPut, "/teams/v1/team/254",
		`{"name":"The Cheesy Poofs","ranking_data":{"sort_orders":[2.1],"named_sort_orders":{"Ranking Score":9.9}}}`)
	require.Equal(t, http.StatusOK, w.Code)

	team := st.teams["254"]
	assert.Equal(t, "The Cheesy Poofs", *team.Name)
	assert.Nil(t, team.RankingData)
}

func TestGetMissingTeam(t *testing.T) {
	r := newTestRouter(&memoryStore{teams: map[string]store.Team{}})

	w := do(r, http.MethodGet, "/teams/v1/team/9999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchMissingTeamIs404(t *testing.T) {
	r := newTestRouter(&memoryStore{teams: map[string]store.Team{}})

	w := do(r, http.MethodPatch, "/teams/v1/team/9999", `{"notes":"x"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchKeepsOtherFields(t *testing.T) {
	st := &memoryStore{teams: map[string]store.Team{"118": {Number: "118", Name: pointer.String("Robonauts")}}}
	r := newTestRouter(st)

	w := do(r, http.MethodPatch, "/teams/v1/team/118", `{"notes":"tall robot"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Robonauts", *st.teams["118"].Name)
	assert.Equal(t, "tall robot", *st.teams["118"].Notes)
}

func TestDeleteTeam(t *testing.T) {
	st := &memoryStore{teams: map[string]store.Team{"118": {Number: "118"}}}
	r := newTestRouter(st)

	w := do(r, http.MethodDelete, "/teams/v1/team/118", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.teams)
}

func TestStandings(t *testing.T) {
	st := &memoryStore{teams: map[string]store.Team{}}
	for i := 1; i <= 12; i++ {
		team := rankedTeam(strings.Repeat("1", i), i, "2025mrcmp")
		st.teams[team.Number] = team
	}
	other := rankedTeam("254", 1, "2025cafr")
	st.teams[other.Number] = other
	r := newTestRouter(st)

	w := do(r, http.MethodGet, "/teams/v1/standings?event=2025mrcmp&page=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page StandingsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 11, *page.Rows[0].Rank)
	assert.Equal(t, 12, *page.Rows[1].Rank)
}

func TestStandingsBadPage(t *testing.T) {
	r := newTestRouter(&memoryStore{teams: map[string]store.Team{}})

	w := do(r, http.MethodGet, "/teams/v1/standings?page=-1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

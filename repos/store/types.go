package store

import "time"

// Collection names.
const (
	TeamsCollection          = "team_info"
	WebhooksCollection       = "tba_webhooks"
	EventSchedulesCollection = "event_schedules"
	MatchScoresCollection    = "match_scores"
)

// Team is a document of team_info, keyed by team number.
type Team struct {
	Number      string       `firestore:"number" json:"number"`
	Name        *string      `firestore:"name,omitempty" json:"name,omitempty"`
	Location    *string      `firestore:"location,omitempty" json:"location,omitempty"`
	RobotName   *string      `firestore:"robot_name,omitempty" json:"robot_name,omitempty"`
	EPA         *float64     `firestore:"EPA,omitempty" json:"EPA,omitempty"`
	Notes       *string      `firestore:"notes,omitempty" json:"notes,omitempty"`
	Rank        *int         `firestore:"rank,omitempty" json:"rank,omitempty"`
	RankingData *RankingData `firestore:"ranking_data,omitempty" json:"ranking_data,omitempty"`
}

// TeamPatch carries the display fields a partial update may touch. Nil fields are left alone.
type TeamPatch struct {
	Name      *string  `json:"name,omitempty"`
	Location  *string  `json:"location,omitempty"`
	RobotName *string  `json:"robot_name,omitempty"`
	EPA       *float64 `json:"EPA,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	Rank      *int     `json:"rank,omitempty"`
}

// RankingData is the ranking block embedded in a team document.
type RankingData struct {
	MatchesPlayed   int                `firestore:"matches_played" json:"matches_played"`
	Record          Record             `firestore:"record" json:"record"`
	RankingScore    *float64           `firestore:"ranking_score,omitempty" json:"ranking_score,omitempty"`
	ExtraStats      []float64          `firestore:"extra_stats" json:"extra_stats"`
	SortOrders      []float64          `firestore:"sort_orders" json:"sort_orders"`
	NamedExtraStats map[string]float64 `firestore:"named_extra_stats" json:"named_extra_stats"`
	NamedSortOrders map[string]float64 `firestore:"named_sort_orders" json:"named_sort_orders"`
	EventKey        string             `firestore:"event_key" json:"event_key"`
	LastUpdated     time.Time          `firestore:"last_updated" json:"last_updated"`
}

type Record struct {
	Wins   int `firestore:"wins" json:"wins"`
	Losses int `firestore:"losses" json:"losses"`
	Ties   int `firestore:"ties" json:"ties"`
}

// TeamRanking is one normalized row of an event ranking table.
type TeamRanking struct {
	TeamNumber      string
	Rank            int
	MatchesPlayed   int
	Record          Record
	RankingScore    *float64
	SortOrders      []float64
	ExtraStats      []float64
	NamedSortOrders map[string]float64
	NamedExtraStats map[string]float64
}

// SimplifiedMatch is the stored form of a match. Team keys carry no "frc" prefix.
type SimplifiedMatch struct {
	Key             string         `firestore:"key" json:"key"`
	EventKey        string         `firestore:"event_key" json:"event_key"`
	CompLevel       string         `firestore:"comp_level" json:"comp_level"`
	MatchNumber     int            `firestore:"match_number" json:"match_number"`
	SetNumber       int            `firestore:"set_number,omitempty" json:"set_number,omitempty"`
	Alliances       MatchAlliances `firestore:"alliances" json:"alliances"`
	WinningAlliance string         `firestore:"winning_alliance" json:"winning_alliance"`
	Time            *int64         `firestore:"time,omitempty" json:"time,omitempty"`
	ActualTime      *int64         `firestore:"actual_time,omitempty" json:"actual_time,omitempty"`
	PredictedTime   *int64         `firestore:"predicted_time,omitempty" json:"predicted_time,omitempty"`
}

type MatchAlliances struct {
	Red  MatchAlliance `firestore:"red" json:"red"`
	Blue MatchAlliance `firestore:"blue" json:"blue"`
}

type MatchAlliance struct {
	TeamKeys          []string `firestore:"team_keys" json:"team_keys"`
	Score             *int     `firestore:"score,omitempty" json:"score,omitempty"`
	DQTeamKeys        []string `firestore:"dq_team_keys,omitempty" json:"dq_team_keys,omitempty"`
	SurrogateTeamKeys []string `firestore:"surrogate_team_keys,omitempty" json:"surrogate_team_keys,omitempty"`
}

// EventSchedule is a document of event_schedules, keyed by event key.
type EventSchedule struct {
	EventKey    string            `firestore:"event_key" json:"event_key"`
	Matches     []SimplifiedMatch `firestore:"matches" json:"matches"`
	LastUpdated time.Time         `firestore:"last_updated" json:"last_updated"`
}

// MatchScore is a document of match_scores, keyed by match key.
type MatchScore struct {
	MatchKey    string    `firestore:"match_key" json:"match_key"`
	ScoreData   ScoreData `firestore:"score_data" json:"score_data"`
	LastUpdated time.Time `firestore:"last_updated" json:"last_updated"`
}

type ScoreData struct {
	SimplifiedMatch
	ReceivedAt time.Time `firestore:"received_at" json:"received_at"`
}

// WebhookLog is an append-only audit document of tba_webhooks.
type WebhookLog struct {
	Type      string    `firestore:"type"`
	Data      any       `firestore:"data"`
	Timestamp time.Time `firestore:"timestamp"`
	Processed bool      `firestore:"processed"`
}

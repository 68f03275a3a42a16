package tba

// Match is a match record as returned by /event/{key}/matches/simple and /match/{key}/simple.
type Match struct {
	Key             string    `json:"key"`
	EventKey        string    `json:"event_key"`
	CompLevel       string    `json:"comp_level"`
	MatchNumber     int       `json:"match_number"`
	SetNumber       int       `json:"set_number"`
	Alliances       Alliances `json:"alliances"`
	WinningAlliance *string   `json:"winning_alliance"`
	Time            *int64    `json:"time"`
	ActualTime      *int64    `json:"actual_time"`
	PredictedTime   *int64    `json:"predicted_time"`
}

type Alliances struct {
	Blue Alliance `json:"blue"`
	Red  Alliance `json:"red"`
}

type Alliance struct {
	TeamKeys          []string `json:"team_keys"`
	Score             *int     `json:"score"`
	DQTeamKeys        []string `json:"dq_team_keys"`
	SurrogateTeamKeys []string `json:"surrogate_team_keys"`
}

// Rankings is the payload of /event/{key}/rankings.
type Rankings struct {
	Rankings       []Ranking  `json:"rankings"`
	SortOrderInfo  []StatInfo `json:"sort_order_info"`
	ExtraStatsInfo []StatInfo `json:"extra_stats_info"`
}

type Ranking struct {
	TeamKey       string    `json:"team_key"`
	Rank          int       `json:"rank"`
	DQ            int       `json:"dq"`
	MatchesPlayed int       `json:"matches_played"`
	QualAverage   *float64  `json:"qual_average"`
	Record        *Record   `json:"record"`
	SortOrders    []float64 `json:"sort_orders"`
	ExtraStats    []float64 `json:"extra_stats"`
}

type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

type StatInfo struct {
	Name      string `json:"name"`
	Precision int    `json:"precision"`
}

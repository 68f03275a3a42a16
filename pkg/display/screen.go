package display

import (
	"slices"
	"strconv"

	"github.com/mroc/live-display/pkg/control"
	timehelper "github.com/mroc/live-display/pkg/timeHelper"
	"github.com/mroc/live-display/repos/store"
)

// TeamCard is everything a screen shows about one team. Fields the store has
// no value for stay empty.
type TeamCard struct {
	Number    string
	Name      string
	RobotName string
	Location  string
	Notes     string
	EPA       *float64
	Rank      *int
	Record    *store.Record
}

// Screen describes what the display should render right now.
type Screen struct {
	Mode  control.ViewMode
	Title string

	// Filled in ModeAll.
	Blue []TeamCard
	Red  []TeamCard

	// Filled in ModeAlliance and ModeRobot. Robot is nil when the selected
	// slot has no team.
	Alliance control.Alliance
	Teams    []TeamCard
	Robot    *TeamCard

	// Filled in ModeRankings.
	Rankings        []TeamCard
	Page            int
	Pages           int
	RankingsUpdated string
}

// Screen derives the current screen from the state.
func (s *State) Screen() Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()

	screen := Screen{Mode: s.mode, Title: s.title()}

	switch s.mode {
	case control.ModeAll:
		screen.Blue = s.cards(s.match.BlueTeams)
		screen.Red = s.cards(s.match.RedTeams)
	case control.ModeAlliance:
		screen.Alliance = s.alliance
		screen.Teams = s.cards(s.allianceTeams())
	case control.ModeRobot:
		screen.Alliance = s.alliance
		if teams := s.allianceTeams(); s.teamIndex < len(teams) {
			card := s.card(teams[s.teamIndex])
			screen.Robot = &card
		}
	case control.ModeRankings:
		s.fillRankings(&screen)
	case control.ModeGreenScreen:
	}
	return screen
}

func (s *State) allianceTeams() []string {
	if s.alliance == control.AllianceRed {
		return s.match.RedTeams
	}
	return s.match.BlueTeams
}

func (s *State) fillRankings(screen *Screen) {
	all := make([]store.Team, 0, len(s.teams))
	for _, team := range s.teams {
		all = append(all, team)
	}
	standings := store.Standings(all, s.match.EventKey)

	rows, pages := store.PageOf(standings, s.page, store.StandingsPageSize)
	screen.Page = s.page
	screen.Pages = pages
	screen.Rankings = make([]TeamCard, 0, len(rows))
	for _, team := range rows {
		screen.Rankings = append(screen.Rankings, cardOf(team))
	}

	var latest store.RankingData
	for _, team := range standings {
		if team.RankingData != nil && team.RankingData.LastUpdated.After(latest.LastUpdated) {
			latest = *team.RankingData
		}
	}
	screen.RankingsUpdated = timehelper.Ago(latest.LastUpdated, s.now())
}

// title names the match on screen, using the schedule when it knows the
// qualification match with that number.
func (s *State) title() string {
	if s.match.MatchNumber == "" {
		return ""
	}
	number, err := strconv.Atoi(s.match.MatchNumber)
	if err == nil {
		i := slices.IndexFunc(s.schedule, func(m store.SimplifiedMatch) bool {
			return m.CompLevel == "qm" && m.MatchNumber == number &&
				(s.match.EventKey == "" || m.EventKey == s.match.EventKey)
		})
		if i >= 0 {
			match := s.schedule[i]
			title := store.MatchName(match)
			if when := timehelper.MatchTimeString(match.Time, s.loc); when != "" {
				title += " at " + when
			}
			return title
		}
	}
	return "Match " + s.match.MatchNumber
}

func (s *State) cards(numbers []string) []TeamCard {
	out := make([]TeamCard, 0, len(numbers))
	for _, number := range numbers {
		out = append(out, s.card(number))
	}
	return out
}

func (s *State) card(number string) TeamCard {
	team, ok := s.teams[number]
	if !ok {
		return TeamCard{Number: number}
	}
	return cardOf(team)
}

func cardOf(team store.Team) TeamCard {
	card := TeamCard{
		Number:    team.Number,
		Name:      deref(team.Name),
		RobotName: deref(team.RobotName),
		Location:  deref(team.Location),
		Notes:     deref(team.Notes),
		EPA:       team.EPA,
		Rank:      team.Rank,
	}
	if team.RankingData != nil {
		record := team.RankingData.Record
		card.Record = &record
	}
	return card
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

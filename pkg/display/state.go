// Package display keeps the state of one display client: what the setup
// client last asked to show, plus the team and schedule data it renders.
package display

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/mroc/live-display/pkg/control"
	"github.com/mroc/live-display/repos/store"
)

// InvalidMessageError is returned by Apply for a message no screen can show.
type InvalidMessageError struct {
	Event  control.Event
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return "display: invalid " + string(e.Event) + ": " + e.Reason
}

type State struct {
	mu sync.RWMutex

	mode      control.ViewMode
	alliance  control.Alliance
	teamIndex int
	page      int
	match     control.MatchData

	teams    map[string]store.Team
	schedule []store.SimplifiedMatch

	now func() time.Time
	loc *time.Location
}

// NewState returns a display showing all teams with the blue alliance selected.
func NewState(loc *time.Location) *State {
	if loc == nil {
		loc = time.Local
	}
	return &State{
		mode:     control.ModeAll,
		alliance: control.AllianceBlue,
		teams:    map[string]store.Team{},
		now:      time.Now,
		loc:      loc,
	}
}

// Apply folds one control message into the state. Invalid messages leave the
// state untouched.
func (s *State) Apply(m control.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := m.(type) {
	case control.MatchData:
		s.match = m
	case control.ViewModeChange:
		if !m.Mode.Valid() {
			return &InvalidMessageError{Event: m.Event(), Reason: "unknown mode " + strconv.Quote(string(m.Mode))}
		}
		s.mode = m.Mode
	case control.AllianceSelection:
		if !m.Alliance.Valid() {
			return &InvalidMessageError{Event: m.Event(), Reason: "unknown alliance " + strconv.Quote(string(m.Alliance))}
		}
		s.alliance = m.Alliance
		s.mode = control.ModeAlliance
	case control.RobotSelection:
		if !m.Alliance.Valid() {
			return &InvalidMessageError{Event: m.Event(), Reason: "unknown alliance " + strconv.Quote(string(m.Alliance))}
		}
		if m.TeamIndex < 0 || m.TeamIndex > 2 {
			return &InvalidMessageError{Event: m.Event(), Reason: "team index out of range"}
		}
		s.alliance = m.Alliance
		s.teamIndex = m.TeamIndex
		s.mode = control.ModeRobot
	case control.RankingsPageChange:
		if m.Page < 0 {
			return &InvalidMessageError{Event: m.Event(), Reason: "negative page"}
		}
		s.page = m.Page
	default:
		return xerrors.Errorf("display: unsupported message %T", m)
	}
	return nil
}

// SetTeams replaces the team data used to fill the screens.
func (s *State) SetTeams(teams []store.Team) {
	byNumber := make(map[string]store.Team, len(teams))
	for _, team := range teams {
		byNumber[team.Number] = team
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = byNumber
}

// SetSchedule replaces the match list used to title the screens.
func (s *State) SetSchedule(matches []store.SimplifiedMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = matches
}

package display

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/mroc/live-display/pkg/control"
)

// Snapshot is the part of the state a display keeps across restarts, since
// the relay replays nothing to late joiners.
type Snapshot struct {
	Mode      control.ViewMode `yaml:"mode"`
	Alliance  control.Alliance `yaml:"alliance"`
	TeamIndex int              `yaml:"team_index"`
	Page      int              `yaml:"page"`
	Match     MatchSnapshot    `yaml:"match"`
}

type MatchSnapshot struct {
	MatchNumber string   `yaml:"match_number"`
	EventKey    string   `yaml:"event_key,omitempty"`
	BlueTeams   []string `yaml:"blue_teams"`
	RedTeams    []string `yaml:"red_teams"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Mode:      s.mode,
		Alliance:  s.alliance,
		TeamIndex: s.teamIndex,
		Page:      s.page,
		Match: MatchSnapshot{
			MatchNumber: s.match.MatchNumber,
			EventKey:    s.match.EventKey,
			BlueTeams:   s.match.BlueTeams,
			RedTeams:    s.match.RedTeams,
		},
	}
}

// Restore loads a snapshot. Unknown modes or alliances fall back to the defaults.
func (s *State) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = control.ModeAll
	if snap.Mode.Valid() {
		s.mode = snap.Mode
	}
	s.alliance = control.AllianceBlue
	if snap.Alliance.Valid() {
		s.alliance = snap.Alliance
	}
	s.teamIndex = 0
	if snap.TeamIndex >= 0 && snap.TeamIndex <= 2 {
		s.teamIndex = snap.TeamIndex
	}
	s.page = max(snap.Page, 0)
	s.match = control.MatchData{
		MatchNumber: snap.Match.MatchNumber,
		EventKey:    snap.Match.EventKey,
		BlueTeams:   snap.Match.BlueTeams,
		RedTeams:    snap.Match.RedTeams,
	}
}

// SaveFile writes the snapshot atomically by renaming a temp file over path.
func SaveFile(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return xerrors.Errorf("encode display snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".display-*.yaml")
	if err != nil {
		return xerrors.Errorf("save display snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return xerrors.Errorf("save display snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return xerrors.Errorf("save display snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return xerrors.Errorf("save display snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot written by SaveFile. ok is false when the file
// does not exist yet.
func LoadFile(path string) (snap Snapshot, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, xerrors.Errorf("load display snapshot: %w", err)
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, xerrors.Errorf("decode display snapshot %s: %w", path, err)
	}
	return snap, true, nil
}

// Package control defines the view-control messages exchanged between the
// setup client and the display clients through the relay.
package control

import (
	"encoding/json"
	"errors"

	"golang.org/x/xerrors"
)

// Event names a control message on the wire.
type Event string

const (
	EventMatchDataUpdate    Event = "MATCH_DATA_UPDATE"
	EventViewModeChange     Event = "VIEW_MODE_CHANGE"
	EventAllianceSelection  Event = "ALLIANCE_SELECTION"
	EventRobotSelection     Event = "ROBOT_SELECTION"
	EventRankingsPageChange Event = "RANKINGS_PAGE_CHANGE"
)

var events = []Event{
	EventMatchDataUpdate,
	EventViewModeChange,
	EventAllianceSelection,
	EventRobotSelection,
	EventRankingsPageChange,
}

// Events returns every known event name.
func Events() []Event {
	return append([]Event(nil), events...)
}

// Known reports whether name is one of the control events.
func Known(name string) bool {
	for _, e := range events {
		if string(e) == name {
			return true
		}
	}
	return false
}

type Alliance string

const (
	AllianceBlue Alliance = "blue"
	AllianceRed  Alliance = "red"
)

func (a Alliance) Valid() bool {
	return a == AllianceBlue || a == AllianceRed
}

type ViewMode string

const (
	ModeAll         ViewMode = "all"
	ModeAlliance    ViewMode = "alliance"
	ModeRobot       ViewMode = "robot"
	ModeRankings    ViewMode = "rankings"
	ModeGreenScreen ViewMode = "greenscreen"
)

func (m ViewMode) Valid() bool {
	switch m {
	case ModeAll, ModeAlliance, ModeRobot, ModeRankings, ModeGreenScreen:
		return true
	}
	return false
}

// Message is one of MatchData, ViewModeChange, AllianceSelection,
// RobotSelection or RankingsPageChange.
type Message interface {
	Event() Event
	isMessage()
}

// MatchData announces the match on screen and the teams of both alliances.
type MatchData struct {
	MatchNumber string   `json:"matchNumber"`
	EventKey    string   `json:"eventKey,omitempty"`
	BlueTeams   []string `json:"blueTeams"`
	RedTeams    []string `json:"redTeams"`
}

type ViewModeChange struct {
	Mode ViewMode `json:"mode"`
}

type AllianceSelection struct {
	Alliance Alliance `json:"alliance"`
}

// RobotSelection picks one robot of an alliance; TeamIndex is 0 to 2.
type RobotSelection struct {
	Alliance  Alliance `json:"alliance"`
	TeamIndex int      `json:"teamIndex"`
}

type RankingsPageChange struct {
	Page int `json:"page"`
}

func (MatchData) Event() Event          { return EventMatchDataUpdate }
func (ViewModeChange) Event() Event     { return EventViewModeChange }
func (AllianceSelection) Event() Event  { return EventAllianceSelection }
func (RobotSelection) Event() Event     { return EventRobotSelection }
func (RankingsPageChange) Event() Event { return EventRankingsPageChange }

func (MatchData) isMessage()          {}
func (ViewModeChange) isMessage()     {}
func (AllianceSelection) isMessage()  {}
func (RobotSelection) isMessage()     {}
func (RankingsPageChange) isMessage() {}

// Envelope is the frame sent over the socket.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ErrUnknownEvent is returned by Decode for event names outside the enumeration.
var ErrUnknownEvent = errors.New("control: unknown event")

// Encode wraps a message in its envelope.
func Encode(m Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("control: encode %s: %w", m.Event(), err)
	}
	return json.Marshal(Envelope{Event: string(m.Event()), Payload: payload})
}

// ParseEnvelope reads the event name and raw payload of a frame without
// looking at the payload.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, xerrors.Errorf("control: decode envelope: %w", err)
	}
	return env, nil
}

// Decode parses a frame into its typed message.
func Decode(data []byte) (Message, error) {
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}

	var m Message
	switch Event(env.Event) {
	case EventMatchDataUpdate:
		m, err = decodePayload[MatchData](env.Payload)
	case EventViewModeChange:
		m, err = decodePayload[ViewModeChange](env.Payload)
	case EventAllianceSelection:
		m, err = decodePayload[AllianceSelection](env.Payload)
	case EventRobotSelection:
		m, err = decodePayload[RobotSelection](env.Payload)
	case EventRankingsPageChange:
		m, err = decodePayload[RankingsPageChange](env.Payload)
	default:
		return nil, xerrors.Errorf("control: event %q: %w", env.Event, ErrUnknownEvent)
	}
	if err != nil {
		return nil, xerrors.Errorf("control: decode %s payload: %w", env.Event, err)
	}
	return m, nil
}

func decodePayload[T Message](payload json.RawMessage) (Message, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

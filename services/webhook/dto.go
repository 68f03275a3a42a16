package webhook

import (
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

// Message types sent by the competition data service.
const (
	KindPing            = "ping"
	KindScheduleUpdated = "schedule_updated"
	KindMatchScore      = "match_score"
	KindVerification    = "verification"
	kindUnknown         = "unknown"
)

// Payload is the body of every webhook request.
type Payload struct {
	MessageType string          `json:"message_type"`
	MessageData json.RawMessage `json:"message_data"`
}

// Notification is one of Ping, ScheduleUpdated, MatchScore, Verification or Unknown.
type Notification interface {
	Kind() string
	isNotification()
}

type Ping struct{}

type ScheduleUpdated struct {
	EventKey string `json:"event_key"`
}

type MatchScore struct {
	EventKey string `json:"event_key"`
	MatchKey string `json:"match_key"`
}

type Verification struct {
	VerificationKey string `json:"verification_key"`
}

// Unknown is any message type this server has no handler for.
type Unknown struct {
	MessageType string
}

func (Ping) Kind() string            { return KindPing }
func (ScheduleUpdated) Kind() string { return KindScheduleUpdated }
func (MatchScore) Kind() string      { return KindMatchScore }
func (Verification) Kind() string    { return KindVerification }
func (Unknown) Kind() string         { return kindUnknown }

func (Ping) isNotification()            {}
func (ScheduleUpdated) isNotification() {}
func (MatchScore) isNotification()      {}
func (Verification) isNotification()    {}
func (Unknown) isNotification()         {}

// BadNotificationError reports message data that does not fit its message type.
type BadNotificationError struct {
	MessageType string
	Reason      string
}

func (e *BadNotificationError) Error() string {
	return fmt.Sprintf("webhook: bad %s notification: %s", e.MessageType, e.Reason)
}

// Notification decodes the message data according to the message type.
func (p Payload) Notification() (Notification, error) {
	switch p.MessageType {
	case KindPing:
		return Ping{}, nil

	case KindScheduleUpdated:
		n, err := decodeData[ScheduleUpdated](p)
		if err != nil {
			return nil, err
		}
		if n.EventKey == "" {
			return nil, &BadNotificationError{MessageType: p.MessageType, Reason: "event_key is required"}
		}
		return n, nil

	case KindMatchScore:
		n, err := decodeData[MatchScore](p)
		if err != nil {
			return nil, err
		}
		if n.MatchKey == "" {
			return nil, &BadNotificationError{MessageType: p.MessageType, Reason: "match_key is required"}
		}
		return n, nil

	case KindVerification:
		n, err := decodeData[Verification](p)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return Unknown{MessageType: p.MessageType}, nil
}

func decodeData[T Notification](p Payload) (T, error) {
	var n T
	if len(p.MessageData) == 0 || string(p.MessageData) == "null" {
		return n, nil
	}
	if err := json.Unmarshal(p.MessageData, &n); err != nil {
		return n, xerrors.Errorf("decode %s message data: %w", p.MessageType, &BadNotificationError{MessageType: p.MessageType, Reason: err.Error()})
	}
	return n, nil
}

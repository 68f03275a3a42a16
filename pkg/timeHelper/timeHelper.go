package timehelper

import (
	"fmt"
	"time"
)

// FromEpoch converts API epoch seconds. Nil stays nil.
func FromEpoch(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0)
	return &t
}

// MatchTimeString formats a match time as "Sat 14:05" in loc, or "" when unknown.
func MatchTimeString(sec *int64, loc *time.Location) string {
	t := FromEpoch(sec)
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Mon 15:04")
}

// Ago renders the age of t relative to now, rounded down: "just now", "5m ago", "2h ago", "3d ago".
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case t.IsZero():
		return ""
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
	return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
}

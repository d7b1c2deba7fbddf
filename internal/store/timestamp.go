package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical stored form: ISO-8601, local, no zone.
const Layout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	Layout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Timestamp is a local wall-clock time persisted in Layout.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the minute.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)}
}

func (t Timestamp) String() string { return t.Format(Layout) }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(Layout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp reads the canonical form and the looser variants older
// files contain. Zoned values are converted to local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Human formats t the way confirmations are spoken.
func Human(t time.Time) string { return t.Format("2006-01-02 03:04 PM") }

// Clock formats only the time of day.
func Clock(t time.Time) string { return t.Format("03:04 PM") }

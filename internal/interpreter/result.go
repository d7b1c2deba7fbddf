package interpreter

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Outcome records which decoding step produced a Result.
type Outcome string

const (
	OutcomeStrict      Outcome = "strict"
	OutcomeExtracted   Outcome = "extracted"
	OutcomeRepaired    Outcome = "repaired"
	OutcomeEmpty       Outcome = "empty"
	OutcomeUnavailable Outcome = "unavailable"
)

// CalendarAction is the "calendar" object of a model answer.
type CalendarAction struct {
	Action   string `json:"action,omitempty"`
	Title    string `json:"title,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

// ReminderAction is the "reminder" object. Either At is set, or ForTitle
// with MinutesBefore names a time relative to an event.
type ReminderAction struct {
	Message       string `json:"message,omitempty"`
	At            string `json:"at,omitempty"`
	ForTitle      string `json:"for_title,omitempty"`
	MinutesBefore *int   `json:"minutes_before,omitempty"`
}

// Result is the structured answer of the generative interpreter. Every
// field is optional.
type Result struct {
	Speak      string          `json:"speak,omitempty"`
	Serial     []string        `json:"serial,omitempty"`
	Calendar   *CalendarAction `json:"calendar,omitempty"`
	OpenURL    string          `json:"open_url,omitempty"`
	OpenSearch string          `json:"open_search,omitempty"`
	Reminder   *ReminderAction `json:"reminder,omitempty"`
	Ask        string          `json:"ask,omitempty"`
}

// IsEmpty reports whether the result asks for nothing.
func (r Result) IsEmpty() bool {
	return r.Speak == "" && len(r.Serial) == 0 && r.Calendar == nil && r.OpenURL == "" &&
		r.OpenSearch == "" && r.Reminder == nil && r.Ask == ""
}

// Decode turns raw model text into a Result. The whole text is tried as a
// JSON object first; then the span from the first '{' to the last '}', as
// is and after repair. Anything else yields an empty Result.
func Decode(raw string) (Result, Outcome) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, OutcomeEmpty
	}
	if m, ok := decodeObject(raw); ok {
		return fromMap(m), OutcomeStrict
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return Result{}, OutcomeEmpty
	}
	snippet := raw[start : end+1]
	if m, ok := decodeObject(snippet); ok {
		return fromMap(m), OutcomeExtracted
	}
	if fixed, err := jsonrepair.JSONRepair(snippet); err == nil {
		if m, ok := decodeObject(fixed); ok {
			return fromMap(m), OutcomeRepaired
		}
	}
	return Result{}, OutcomeEmpty
}

func decodeObject(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// fromMap reads the known keys, tolerating the loose typing models produce
// (a lone string for serial, numbers as strings and so on).
func fromMap(m map[string]any) Result {
	r := Result{
		Speak:      str(m["speak"]),
		Serial:     strList(m["serial"]),
		OpenURL:    str(m["open_url"]),
		OpenSearch: str(m["open_search"]),
		Ask:        str(m["ask"]),
	}
	if cal, ok := m["calendar"].(map[string]any); ok {
		r.Calendar = &CalendarAction{
			Action:   strings.ToLower(str(cal["action"])),
			Title:    str(cal["title"]),
			Datetime: str(cal["datetime"]),
		}
	}
	if rem, ok := m["reminder"].(map[string]any); ok {
		r.Reminder = &ReminderAction{
			Message:       str(rem["message"]),
			At:            str(rem["at"]),
			ForTitle:      str(rem["for_title"]),
			MinutesBefore: intPtr(rem["minutes_before"]),
		}
	}
	return r
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func strList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func intPtr(v any) *int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}

func (o Outcome) String() string { return string(o) }

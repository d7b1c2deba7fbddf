// Package intent holds the typed meaning of an utterance and the
// deterministic bilingual parser that produces it.
package intent

import "time"

// Kind names an intent variant.
type Kind string

const (
	KindDeviceControl      Kind = "device_control"
	KindAddFace            Kind = "add_face"
	KindCalendarQuery      Kind = "calendar_query"
	KindCalendarAdd        Kind = "calendar_add"
	KindCalendarAddMissing Kind = "calendar_add_missing"
	KindOpenBooking        Kind = "open_booking"
	KindReminder           Kind = "reminder"
	KindAIQuery            Kind = "ai_query"
)

// Devices and actions understood by the device protocol.
const (
	DeviceDoor        = "door"
	DeviceLight       = "light"
	DeviceLightTop    = "light_top"
	DeviceLightBottom = "light_bottom"

	ActionOpen    = "open"
	ActionClose   = "close"
	ActionTurnOn  = "turn_on"
	ActionTurnOff = "turn_off"

	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Scope selects which calendar entries a query reports.
type Scope string

const (
	ScopeToday    Scope = "today"
	ScopeUpcoming Scope = "upcoming"
)

// Intent is one of the variants below.
type Intent interface {
	Kind() Kind
}

type DeviceControl struct {
	Device string `json:"device"`
	Action string `json:"action,omitempty"`
	Level  string `json:"level,omitempty"`
}

type AddFace struct{}

type CalendarQuery struct {
	Scope Scope `json:"scope"`
}

type CalendarAdd struct {
	Title string    `json:"title"`
	At    time.Time `json:"datetime"`
}

type CalendarAddMissing struct {
	Title string `json:"title"`
}

type OpenBooking struct {
	Query string `json:"query"`
}

type Reminder struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type AIQuery struct {
	Prompt string `json:"prompt"`
}

func (DeviceControl) Kind() Kind      { return KindDeviceControl }
func (AddFace) Kind() Kind            { return KindAddFace }
func (CalendarQuery) Kind() Kind      { return KindCalendarQuery }
func (CalendarAdd) Kind() Kind        { return KindCalendarAdd }
func (CalendarAddMissing) Kind() Kind { return KindCalendarAddMissing }
func (OpenBooking) Kind() Kind        { return KindOpenBooking }
func (Reminder) Kind() Kind           { return KindReminder }
func (AIQuery) Kind() Kind            { return KindAIQuery }

// Package dispatch routes one utterance to its side effects: device
// commands, calendar and reminder writes, the browser, or conversation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
	"github.com/saraaltoom/Travis-Home-AI/internal/device"
	"github.com/saraaltoom/Travis-Home-AI/internal/intent"
	"github.com/saraaltoom/Travis-Home-AI/internal/interpreter"
	"github.com/saraaltoom/Travis-Home-AI/internal/metrics"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

const (
	// ReminderLead is how far ahead of a new event its reminder fires.
	ReminderLead  = 30
	upcomingLimit = 5
)

var flightWords = []string{"طياره", "طيارة", "طيران", "flight"}

// Deps are the collaborators a Dispatcher coordinates. Remote may be nil.
type Deps struct {
	Parser      *intent.Parser
	Devices     Devices
	Interpreter Interpreter
	Remote      RemoteCalendar
	Local       LocalCalendar
	Reminders   Reminders
	Browser     Browser
	Chat        Chat
	Speaker     Speaker
	Listener    Listener
	Recognizer  Recognizer
	Enroller    Enroller
	Log         zerolog.Logger
}

// Dispatcher handles utterances one at a time.
type Dispatcher struct {
	Deps
	now func() time.Time
}

// New constructs a Dispatcher.
func New(d Deps) *Dispatcher {
	if d.Parser == nil {
		d.Parser = intent.NewParser(nil)
	}
	return &Dispatcher{Deps: d, now: time.Now}
}

// turn carries per-utterance state.
type turn struct {
	ctx   context.Context
	text  string
	owner string
	log   zerolog.Logger
}

// Dispatch interprets text and performs its side effects. Every failure is
// spoken or logged; nothing is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, text, owner string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	t := &turn{
		ctx:   ctx,
		text:  text,
		owner: owner,
		log:   d.Log.With().Str("turn", uuid.NewString()).Logger(),
	}

	it, rule, ok := d.Parser.Explain(text)
	if ok {
		t.log.Debug().Str("rule", rule).Str("kind", string(it.Kind())).Msg("heuristic match")
		metrics.IntentsTotal.WithLabelValues(string(it.Kind())).Inc()
		d.handle(t, it)
		return
	}

	if intent.HasEventCue(text) {
		if at, ok := d.Parser.Dates().GeneralOnly(text); ok {
			t.log.Debug().Time("at", at).Msg("date found in unresolved input")
			metrics.IntentsTotal.WithLabelValues(string(intent.KindCalendarAdd)).Inc()
			d.addEvent(t, intent.Title(text), at)
			return
		}
	}

	metrics.IntentsTotal.WithLabelValues(string(intent.KindAIQuery)).Inc()
	d.fallback(t)
}

func (d *Dispatcher) handle(t *turn, it intent.Intent) {
	switch v := it.(type) {
	case intent.DeviceControl:
		d.device(t, v)
	case intent.AddFace:
		d.addFace(t)
	case intent.CalendarQuery:
		d.calendarQuery(t, v.Scope)
	case intent.CalendarAdd:
		d.addEvent(t, v.Title, v.At)
	case intent.CalendarAddMissing:
		d.askForTime(t, v.Title)
	case intent.OpenBooking:
		d.booking(t, v.Query)
	case intent.Reminder:
		d.reminder(t, v.Message, v.At)
	case intent.AIQuery:
		d.fallback(t)
	default:
		t.log.Warn().Str("kind", string(it.Kind())).Msg("no handler for intent")
	}
}

func (d *Dispatcher) say(text string) {
	if d.Speaker != nil {
		d.Speaker.Speak(text)
	}
}

func (d *Dispatcher) device(t *turn, v intent.DeviceControl) {
	cmds, err := d.Devices.Execute(v.Device, v.Action, v.Level)
	switch {
	case errors.Is(err, device.ErrUnknownCommand):
		d.say(msgUnknownAction)
	case err != nil:
		t.log.Warn().Err(err).Strs("cmds", cmds).Msg("device command failed")
		d.say(msgDeviceUnavailable)
	default:
		t.log.Info().Strs("cmds", cmds).Msg("device command sent")
	}
}

// addFace re-verifies the owner at the camera; the identity from session
// start is not trusted for enrollment.
func (d *Dispatcher) addFace(t *turn) {
	d.say(msgFaceSecurity)
	who, err := d.Recognizer.Recognize(t.ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("owner re-verification failed")
	}
	if err != nil || who == "" || who != t.owner {
		d.say(msgFaceDenied)
		return
	}
	d.say(msgFaceWho)
	name, err := d.Listener.Listen()
	name = strings.TrimSpace(name)
	if err != nil || name == "" {
		d.say(msgFaceNoName)
		return
	}
	ok, err := d.Enroller.Enroll(t.ctx, name)
	if err != nil {
		t.log.Error().Err(err).Str("name", name).Msg("face enrollment")
	}
	if ok {
		d.say(fmt.Sprintf(msgFaceAdded, name))
		return
	}
	d.say(msgFaceFailed)
}

func (d *Dispatcher) calendarQuery(t *turn, scope intent.Scope) {
	if d.Remote != nil && d.Remote.Available() {
		var summary string
		var err error
		if scope == intent.ScopeUpcoming {
			summary, err = d.Remote.UpcomingSummary(t.ctx, upcomingLimit)
		} else {
			summary, err = d.Remote.TodaySummary(t.ctx)
		}
		if err == nil {
			d.say(summary)
			return
		}
		t.log.Warn().Err(err).Msg("remote calendar query, using local calendar")
	}

	now := d.now()
	var events []store.Event
	var err error
	if scope == intent.ScopeUpcoming {
		events, err = d.Local.Upcoming(now, upcomingLimit)
	} else {
		events, err = d.Local.Today(now)
	}
	if err != nil {
		t.log.Error().Err(err).Msg("local calendar query")
		d.say(msgCalendarReadFailed)
		return
	}
	if scope == intent.ScopeUpcoming {
		d.say(store.UpcomingSummary(events))
	} else {
		d.say(store.TodaySummary(events))
	}
}

// addEvent writes the event to the remote calendar when available, else to
// the local one, then adds a best-effort reminder ahead of it.
func (d *Dispatcher) addEvent(t *turn, title string, at time.Time) {
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	written := false
	if d.Remote != nil && d.Remote.Available() {
		msg, err := d.Remote.AddEvent(t.ctx, title, at)
		if err == nil {
			d.say(msg)
			written = true
		} else {
			t.log.Warn().Err(err).Msg("remote calendar add, using local calendar")
		}
	}
	if !written {
		e, err := d.Local.AddAt(title, at)
		if err != nil {
			t.log.Error().Err(err).Msg("local calendar add")
			d.say(msgCalendarSaveFailed)
			return
		}
		d.say(store.AddedMessage(e))
	}

	r, err := d.Reminders.AddRelative("Reminder: "+title, at, ReminderLead)
	if err != nil {
		t.log.Warn().Err(err).Msg("event reminder not stored")
		return
	}
	d.say(store.Confirmation(r))
}

// askForTime asks once for the missing time and retries the add a single
// time with the answer.
func (d *Dispatcher) askForTime(t *turn, title string) {
	d.say(fmt.Sprintf(msgAskWhen, title))
	answer, err := d.Listener.Listen()
	answer = strings.TrimSpace(answer)
	if err != nil || answer == "" {
		d.say(msgNoTimeHeard)
		return
	}
	follow := fmt.Sprintf("add %s on %s", title, answer)
	it, ok := d.Parser.Parse(follow)
	add, isAdd := it.(intent.CalendarAdd)
	if !ok || !isAdd {
		t.log.Debug().Str("follow", follow).Msg("follow-up time not understood")
		d.say(msgTimeUnparsed)
		return
	}
	d.addEvent(t, add.Title, add.At)
}

func (d *Dispatcher) booking(t *turn, query string) {
	q := strings.TrimSpace(query)
	low := strings.ToLower(q)
	for _, w := range flightWords {
		if strings.Contains(low, w) {
			q = "saudia " + q
			break
		}
	}
	if d.Browser.OpenBookingSearch(q) {
		d.say(msgBookingOpened)
		return
	}
	t.log.Warn().Str("query", q).Msg("booking search not opened")
	d.say(msgBrowserFailed)
}

func (d *Dispatcher) reminder(t *turn, message string, at time.Time) {
	r, err := d.Reminders.AddAt(message, at)
	if err != nil {
		t.log.Error().Err(err).Msg("add reminder")
		d.say(msgReminderFailed)
		return
	}
	d.say(store.Confirmation(r))
}

// fallback makes the single generative call for this turn and acts on the
// answer in a fixed order.
func (d *Dispatcher) fallback(t *turn) {
	res, outcome := d.Interpreter.Interpret(t.ctx, t.text)
	metrics.InterpreterDecodeTotal.WithLabelValues(outcome.String()).Inc()
	t.log.Debug().Str("outcome", outcome.String()).Msg("fallback interpreted")

	if d.applyResult(t, res) {
		return
	}
	d.say(d.Chat.Respond(t.ctx, t.text))
}

// applyResult reports whether the result produced any output.
func (d *Dispatcher) applyResult(t *turn, res interpreter.Result) bool {
	produced := false
	for _, cmd := range res.Serial {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		produced = true
		if err := d.Devices.Raw(cmd); err != nil {
			t.log.Warn().Err(err).Str("cmd", cmd).Msg("model serial command not sent")
		}
	}

	if c := res.Calendar; c != nil && strings.EqualFold(c.Action, "add") {
		at, err := datetime.ParseInput(c.Datetime)
		if err != nil {
			d.say(msgInvalidEventTime)
			return true
		}
		d.addEvent(t, c.Title, at)
		return true
	}

	if res.OpenURL != "" && d.Browser.OpenURL(res.OpenURL) {
		d.say(msgURLOpened)
		return true
	}
	if res.OpenSearch != "" && d.Browser.OpenBookingSearch(res.OpenSearch) {
		d.say(msgBookingOpened)
		return true
	}

	if r := res.Reminder; r != nil {
		if r.At != "" {
			rem, err := d.Reminders.Add(r.Message, r.At)
			switch {
			case errors.Is(err, store.ErrInvalidTime):
				d.say(msgInvalidReminder)
			case err != nil:
				t.log.Error().Err(err).Msg("add model reminder")
				d.say(msgReminderFailed)
			default:
				d.say(store.Confirmation(rem))
			}
			return true
		}
		// Relative reminders are not resolved against the calendar.
		if r.ForTitle != "" && r.MinutesBefore != nil {
			d.say(msgRelativeReminder)
			return true
		}
	}

	if res.Ask != "" {
		d.say(res.Ask)
		return true
	}
	if res.Speak != "" {
		d.say(res.Speak)
		return true
	}
	return produced
}

package api

import (
	"net/http"
	"time"

	"github.com/saraaltoom/Travis-Home-AI/internal/api/respond"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

const eventsLimit = 20

// Handlers serves the status endpoints.
type Handlers struct {
	health    Health
	reminders ReminderLister
	events    EventLister
	now       func() time.Time
}

type healthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
}

// GetHealth returns 200 when every component is healthy, else 503.
func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		respond.WriteJSON(w, http.StatusOK, healthResponse{Status: "UP", Components: map[string]bool{}})
		return
	}
	resp := healthResponse{Status: "UP", Components: h.health.Components()}
	code := http.StatusOK
	if !h.health.IsHealthy() {
		resp.Status = "DEGRADED"
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, resp)
}

func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	items, err := h.reminders.List()
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if items == nil {
		items = []store.Reminder{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

// ListEvents serves ?scope=today|upcoming, upcoming by default.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	var (
		items []store.Event
		err   error
	)
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "upcoming":
		items, err = h.events.Upcoming(h.now(), eventsLimit)
	case "today":
		items, err = h.events.Today(h.now())
	default:
		respond.WriteBadRequest(w, "scope must be today or upcoming")
		return
	}
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if items == nil {
		items = []store.Event{}
	}
	respond.WriteJSON(w, http.StatusOK, items)
}

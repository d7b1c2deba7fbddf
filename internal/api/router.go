// Package api serves the assistant's read-only status surface.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/api/recovery"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

// Health is the aggregate health view.
type Health interface {
	IsHealthy() bool
	Components() map[string]bool
}

// ReminderLister lists stored reminders.
type ReminderLister interface {
	List() ([]store.Reminder, error)
}

// EventLister reads the local calendar.
type EventLister interface {
	Today(now time.Time) ([]store.Event, error)
	Upcoming(now time.Time, limit int) ([]store.Event, error)
}

// NewRouter wires the status endpoints.
func NewRouter(h Health, reminders ReminderLister, events EventLister, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware(log))

	handlers := &Handlers{health: h, reminders: reminders, events: events, now: time.Now}

	router.HandleFunc("/v0/health", handlers.GetHealth).Methods("GET")
	router.HandleFunc("/v0/reminders", handlers.ListReminders).Methods("GET")
	router.HandleFunc("/v0/events", handlers.ListEvents).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// NewServer returns an http.Server for router on addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

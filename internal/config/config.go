package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	// MaxReminderTick is the longest period the reminder scheduler may sleep
	// between ticks; due reminders are delivered within one tick.
	MaxReminderTick = 30 * time.Second

	// MinCalendarSync is the floor applied to the calendar sync interval.
	MinCalendarSync = 60 * time.Second
)

// Config holds the configuration for the assistant.
// Environment variables are parsed with the TRAVIS_ prefix; the bare names
// (for example OLLAMA_HOST) are honored when the prefixed form is unset.
type Config struct {
	// Serial link to the microcontroller
	SerialPort   string        `envconfig:"SERIAL_PORT" default:"COM4"`
	SerialBaud   int           `envconfig:"SERIAL_BAUD" default:"9600"`
	SerialSettle time.Duration `envconfig:"SERIAL_SETTLE" default:"2s"`

	// Generative-text service
	OllamaHost        string        `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	OllamaModel       string        `envconfig:"OLLAMA_MODEL" default:"mistral"`
	OllamaTemperature float64       `envconfig:"OLLAMA_TEMPERATURE" default:"0.2"`
	OllamaNumCtx      int           `envconfig:"OLLAMA_NUM_CTX" default:"4096"`
	OllamaKeepAlive   string        `envconfig:"OLLAMA_KEEP_ALIVE" default:"1h"`
	OllamaTimeout     time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"20s"`

	// Local persistence
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// Background workers
	ReminderTick          time.Duration `envconfig:"REMINDER_TICK" default:"30s"`
	CalendarSyncInterval  time.Duration `envconfig:"CALENDAR_SYNC_INTERVAL" default:"300s"`
	CalendarMinutesBefore int           `envconfig:"CALENDAR_MINUTES_BEFORE" default:"30"`
	CalendarSyncLimit     int           `envconfig:"CALENDAR_SYNC_LIMIT" default:"15"`

	// Google Calendar; empty paths resolve under DataDir
	GoogleCredentials string `envconfig:"GOOGLE_CREDENTIALS" default:""`
	GoogleToken       string `envconfig:"GOOGLE_TOKEN" default:""`

	// External collaborators
	OwnerName        string `envconfig:"OWNER_NAME" default:"Owner"`
	FaceRecognizeCmd string `envconfig:"FACE_RECOGNIZE_CMD" default:""`
	FaceEnrollCmd    string `envconfig:"FACE_ENROLL_CMD" default:""`
	EmotionCmd       string `envconfig:"EMOTION_CMD" default:""`
	TTSCmd           string `envconfig:"TTS_CMD" default:""`
	Browser          string `envconfig:"BROWSER" default:""`

	KnowledgeLookups bool `envconfig:"KNOWLEDGE_LOOKUPS" default:"true"`

	// Status HTTP surface, disabled when empty
	StatusAddr string `envconfig:"STATUS_ADDR" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults validates values and derives paths left empty.
func (c *Config) ResolveDefaults() error {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.GoogleCredentials == "" {
		c.GoogleCredentials = filepath.Join(c.DataDir, "credentials.json")
	}
	if c.GoogleToken == "" {
		c.GoogleToken = filepath.Join(c.DataDir, "token.json")
	}
	if c.ReminderTick <= 0 || c.ReminderTick > MaxReminderTick {
		c.ReminderTick = MaxReminderTick
	}
	if c.CalendarSyncInterval < MinCalendarSync {
		c.CalendarSyncInterval = MinCalendarSync
	}
	if c.CalendarMinutesBefore < 0 {
		return fmt.Errorf("CALENDAR_MINUTES_BEFORE must not be negative: %d", c.CalendarMinutesBefore)
	}
	if c.CalendarSyncLimit <= 0 {
		c.CalendarSyncLimit = 15
	}
	if c.SerialBaud <= 0 {
		return fmt.Errorf("unsupported SERIAL_BAUD: %d", c.SerialBaud)
	}
	if c.OwnerName == "" {
		c.OwnerName = "Owner"
	}
	return nil
}

// RemindersPath is the JSON file backing the reminder store.
func (c *Config) RemindersPath() string { return filepath.Join(c.DataDir, "reminders.json") }

// CalendarPath is the JSON file backing the local calendar store.
func (c *Config) CalendarPath() string { return filepath.Join(c.DataDir, "calendar.json") }

// HistoryPath is the readline history file for the console listener.
func (c *Config) HistoryPath() string { return filepath.Join(c.DataDir, ".travis_history") }

// New creates a new Config by parsing environment variables
// Example: TRAVIS_SERIAL_PORT=/dev/ttyACM0, TRAVIS_OLLAMA_MODEL=llama3
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRAVIS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("serial_port", cfg.SerialPort).
		Int("serial_baud", cfg.SerialBaud).
		Str("ollama_host", cfg.OllamaHost).
		Str("ollama_model", cfg.OllamaModel).
		Str("data_dir", cfg.DataDir).
		Dur("reminder_tick", cfg.ReminderTick).
		Dur("calendar_sync_interval", cfg.CalendarSyncInterval).
		Int("calendar_minutes_before", cfg.CalendarMinutesBefore).
		Str("status_addr", cfg.StatusAddr).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns the defaults without reading the environment.
func NewForTesting() *Config {
	cfg := &Config{
		SerialPort:            "COM4",
		SerialBaud:            9600,
		SerialSettle:          0,
		OllamaHost:            "http://localhost:11434",
		OllamaModel:           "mistral",
		OllamaTemperature:     0.2,
		OllamaNumCtx:          4096,
		OllamaKeepAlive:       "1h",
		OllamaTimeout:         20 * time.Second,
		DataDir:               "data",
		ReminderTick:          MaxReminderTick,
		CalendarSyncInterval:  300 * time.Second,
		CalendarMinutesBefore: 30,
		CalendarSyncLimit:     15,
		OwnerName:             "Owner",
		KnowledgeLookups:      true,
		LogLevel:              "info",
	}
	_ = cfg.ResolveDefaults()
	return cfg
}

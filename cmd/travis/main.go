package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saraaltoom/Travis-Home-AI/assistant"
	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
	"github.com/saraaltoom/Travis-Home-AI/internal/intent"
	"github.com/saraaltoom/Travis-Home-AI/internal/logger"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

var debug bool

const defaultEventLimit = 10

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, assistant.ErrAccessDenied) {
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "travis",
		Short:         "Travis home assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newRemindersCmd())
	rootCmd.AddCommand(newEventsCmd())

	return rootCmd
}

// loadConfig reads the environment and returns a console logger at the
// configured level.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	lg := logger.NewConsole("travis", os.Stderr).Level(logger.Level(cfg.LogLevel))
	if debug {
		lg = lg.Level(zerolog.DebugLevel)
	}
	return cfg, lg, nil
}

func newRunCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Greet the user at the door and accept commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := loadConfig()
			if err != nil {
				return err
			}
			return assistant.Run(cmd.Context(), cfg, assistant.Options{
				Interactive: !plain,
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Log:         lg,
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Read commands line by line from stdin without line editing")
	return cmd
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Exercise the serial link and the generative service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := loadConfig()
			if err != nil {
				return err
			}
			return assistant.Diagnose(cmd.Context(), cfg, cmd.OutOrStdout(), lg)
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <utterance>",
		Short: "Show which rule matches an utterance and the intent it yields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			parser := intent.NewParser(datetime.NewExtractor(datetime.NewDateParser()))

			it, rule, ok := parser.Explain(text)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "rule: none (falls through to the interpreter)")
				return nil
			}
			body, err := json.MarshalIndent(it, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "rule: %s\nintent: %s\n%s\n", rule, it.Kind(), body)
			return nil
		},
	}
}

func openReminders() (*store.Reminders, error) {
	cfg, lg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := store.EnsureDataDir(cfg.DataDir); err != nil {
		return nil, err
	}
	return store.NewReminders(cfg.RemindersPath(), lg)
}

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and add reminders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openReminders()
			if err != nil {
				return err
			}
			items, err := rs.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No reminders.")
				return nil
			}
			for _, r := range items {
				line := fmt.Sprintf("%s  %s", r.At, r.Message)
				if r.UID != "" {
					line += "  [" + r.UID + "]"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	})

	var at string
	add := &cobra.Command{
		Use:   "add <message>",
		Short: "Add a reminder at an exact time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := openReminders()
			if err != nil {
				return err
			}
			r, err := rs.Add(strings.Join(args, " "), at)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Confirmation(r))
			return nil
		},
	}
	add.Flags().StringVar(&at, "at", "", "Time as YYYY-MM-DD HH:MM (required)")
	_ = add.MarkFlagRequired("at")
	cmd.AddCommand(add)

	return cmd
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local calendar",
	}

	var scope string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Summarize today's or upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := store.EnsureDataDir(cfg.DataDir); err != nil {
				return err
			}
			cal, err := store.NewCalendar(cfg.CalendarPath(), lg)
			if err != nil {
				return err
			}
			now := time.Now()
			var summary string
			switch intent.Scope(scope) {
			case intent.ScopeToday:
				events, err := cal.Today(now)
				if err != nil {
					return err
				}
				summary = store.TodaySummary(events)
			case intent.ScopeUpcoming:
				events, err := cal.Upcoming(now, limit)
				if err != nil {
					return err
				}
				summary = store.UpcomingSummary(events)
			default:
				return fmt.Errorf("unknown scope %q: use today or upcoming", scope)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	list.Flags().StringVar(&scope, "scope", string(intent.ScopeUpcoming), "today or upcoming")
	list.Flags().IntVar(&limit, "limit", defaultEventLimit, "Maximum upcoming events")
	cmd.AddCommand(list)

	return cmd
}

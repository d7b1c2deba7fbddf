package assistant

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/saraaltoom/Travis-Home-AI/internal/api"
	"github.com/saraaltoom/Travis-Home-AI/internal/browser"
	"github.com/saraaltoom/Travis-Home-AI/internal/calsync"
	"github.com/saraaltoom/Travis-Home-AI/internal/chat"
	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/datetime"
	"github.com/saraaltoom/Travis-Home-AI/internal/device"
	"github.com/saraaltoom/Travis-Home-AI/internal/dispatch"
	"github.com/saraaltoom/Travis-Home-AI/internal/face"
	"github.com/saraaltoom/Travis-Home-AI/internal/gcal"
	"github.com/saraaltoom/Travis-Home-AI/internal/hardware"
	"github.com/saraaltoom/Travis-Home-AI/internal/health"
	"github.com/saraaltoom/Travis-Home-AI/internal/intent"
	"github.com/saraaltoom/Travis-Home-AI/internal/interpreter"
	"github.com/saraaltoom/Travis-Home-AI/internal/ollama"
	"github.com/saraaltoom/Travis-Home-AI/internal/scheduler"
	"github.com/saraaltoom/Travis-Home-AI/internal/speech"
	"github.com/saraaltoom/Travis-Home-AI/internal/store"
)

const (
	healthInterval    = 30 * time.Second
	healthPingTimeout = 5 * time.Second
	readyWait         = 10 * time.Second
	faceTimeout       = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options controls the terminal side of Run.
type Options struct {
	// Interactive enables line editing on the real terminal; In and Out are
	// used otherwise.
	Interactive bool
	In          io.Reader
	Out         io.Writer
	Log         zerolog.Logger
}

type dependencies struct {
	transport  *hardware.Transport
	devices    *device.Protocol
	reminders  *store.Reminders
	calendar   *store.Calendar
	ollama     *ollama.Client
	remote     *gcal.Client
	console    *speech.Console
	faces      *face.Commands
	recognizer face.Recognizer
	dispatcher *dispatch.Dispatcher
}

// Run greets the user at the door and serves commands until quit, end of
// input, SIGINT or SIGTERM.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	log := opts.Log

	log.Info().
		Str("serial_port", cfg.SerialPort).
		Str("ollama_model", cfg.OllamaModel).
		Str("data_dir", cfg.DataDir).
		Str("status_addr", cfg.StatusAddr).
		Msg("Assistant starting")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initDependencies(ctx, cfg, opts, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to initialize dependencies")
		return err
	}
	defer deps.close(log)

	if err := deps.ollama.WaitReady(ctx, readyWait); err != nil {
		log.Warn().Err(err).Str("host", cfg.OllamaHost).Msg("generative service not ready; continuing without it")
	}

	sess := deps.session(cfg, log)
	if _, err := sess.Greet(ctx); err != nil {
		return err
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(workCtx)

	monitor := startHealthCheckers(gctx, deps, log)
	startWorkers(g, gctx, cfg, deps, log)
	if cfg.StatusAddr != "" {
		router := api.NewRouter(monitor, deps.reminders, deps.calendar, log)
		serveStatus(gctx, g, api.NewServer(cfg.StatusAddr, router), log)
	}

	// unblock a pending Listen when a worker fails or a signal arrives
	go func() {
		<-gctx.Done()
		_ = deps.console.Close()
	}()

	loopErr := sess.Loop(gctx)
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Stack().Err(err).Msg("Background worker failed")
		if loopErr == nil {
			loopErr = err
		}
	}
	log.Info().Msg("Assistant stopped")
	return loopErr
}

// initDependencies opens the stores and builds every collaborator. Only the
// data directory and the console are fatal; hardware and remote services
// degrade.
func initDependencies(ctx context.Context, cfg *config.Config, opts Options, log zerolog.Logger) (*dependencies, error) {
	if _, err := store.EnsureDataDir(cfg.DataDir); err != nil {
		return nil, pkgerrors.Wrap(err, "prepare data dir")
	}
	reminders, err := store.NewReminders(cfg.RemindersPath(), log)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open reminder store")
	}
	calendar, err := store.NewCalendar(cfg.CalendarPath(), log)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open calendar store")
	}

	transport := hardware.New(hardware.Options{
		Port:   cfg.SerialPort,
		Baud:   cfg.SerialBaud,
		Settle: cfg.SerialSettle,
		Log:    log,
	})
	if !transport.IsConnected() {
		log.Warn().Str("port", cfg.SerialPort).Msg("microcontroller not connected; device commands will retry on use")
	}

	gen := newOllama(cfg)

	remote, err := gcal.New(ctx, cfg.GoogleCredentials, cfg.GoogleToken, log)
	if err != nil {
		if errors.Is(err, gcal.ErrNotConfigured) {
			log.Info().Msg("Google Calendar not configured; using local calendar")
		} else {
			log.Warn().Err(err).Msg("Google Calendar unavailable; using local calendar")
		}
		remote = nil
	}

	console, err := speech.NewConsole(speech.Options{
		Interactive: opts.Interactive,
		HistoryFile: cfg.HistoryPath(),
		In:          opts.In,
		Out:         opts.Out,
		TTSCommand:  cfg.TTSCmd,
		Log:         log,
	})
	if err != nil {
		_ = transport.Close()
		return nil, pkgerrors.Wrap(err, "open console")
	}

	faces := &face.Commands{
		RecognizeCmd: cfg.FaceRecognizeCmd,
		EnrollCmd:    cfg.FaceEnrollCmd,
		EmotionCmd:   cfg.EmotionCmd,
		Timeout:      faceTimeout,
		Log:          log,
	}
	var recognizer face.Recognizer = faces
	if cfg.FaceRecognizeCmd == "" {
		log.Warn().Str("owner", cfg.OwnerName).Msg("no face recognizer configured; assuming the owner")
		recognizer = face.Static{Name: cfg.OwnerName}
	}

	d := &dependencies{
		transport:  transport,
		devices:    device.NewProtocol(transport, log),
		reminders:  reminders,
		calendar:   calendar,
		ollama:     gen,
		remote:     remote,
		console:    console,
		faces:      faces,
		recognizer: recognizer,
	}
	d.dispatcher = dispatch.New(dispatch.Deps{
		Parser:      intent.NewParser(datetime.NewExtractor(datetime.NewDateParser())),
		Devices:     d.devices,
		Interpreter: interpreter.New(gen, log),
		Remote:      d.remoteCalendar(),
		Local:       calendar,
		Reminders:   reminders,
		Browser:     browser.New(cfg.Browser, log),
		Chat:        chat.New(chat.Config{Lookups: cfg.KnowledgeLookups}, log),
		Speaker:     console,
		Listener:    console,
		Recognizer:  recognizer,
		Enroller:    faces,
		Log:         log,
	})
	return d, nil
}

func newOllama(cfg *config.Config) *ollama.Client {
	return ollama.New(ollama.Config{
		Host:        cfg.OllamaHost,
		Model:       cfg.OllamaModel,
		Temperature: cfg.OllamaTemperature,
		NumCtx:      cfg.OllamaNumCtx,
		KeepAlive:   cfg.OllamaKeepAlive,
		Timeout:     cfg.OllamaTimeout,
	})
}

// remoteCalendar keeps a nil client out of the interface.
func (d *dependencies) remoteCalendar() dispatch.RemoteCalendar {
	if d.remote == nil {
		return nil
	}
	return d.remote
}

func (d *dependencies) session(cfg *config.Config, log zerolog.Logger) *Session {
	return &Session{
		Owner:      cfg.OwnerName,
		Speaker:    d.console,
		Listener:   d.console,
		Devices:    d.devices,
		Recognizer: d.recognizer,
		Emotion:    d.faces,
		Remote:     d.remoteCalendar(),
		Local:      d.calendar,
		Handler:    d.dispatcher,
		Log:        log.With().Str("component", "session").Logger(),
	}
}

func (d *dependencies) close(log zerolog.Logger) {
	if err := d.console.Close(); err != nil {
		log.Debug().Err(err).Msg("close console")
	}
	if err := d.transport.Close(); err != nil {
		log.Debug().Err(err).Msg("close serial port")
	}
}

// startHealthCheckers starts the link checkers and the monitor over them.
func startHealthCheckers(ctx context.Context, d *dependencies, log zerolog.Logger) *health.Monitor {
	var checkers []health.Checker

	serialChecker := health.NewLinkChecker("serial", d.transport)
	go serialChecker.Start(ctx, healthInterval)
	checkers = append(checkers, serialChecker)

	ollamaChecker := health.NewPingChecker("ollama", d.ollama, log, healthPingTimeout)
	go ollamaChecker.Start(ctx, healthInterval)
	checkers = append(checkers, ollamaChecker)

	monitor := health.NewMonitor(log, checkers...)
	go monitor.Start(ctx, healthInterval)
	return monitor
}

// startWorkers runs the reminder scheduler and, with a remote calendar, the
// sync worker.
func startWorkers(g *errgroup.Group, ctx context.Context, cfg *config.Config, d *dependencies, log zerolog.Logger) {
	sched := scheduler.New(d.reminders, d.console.Speak, scheduler.Config{Interval: cfg.ReminderTick}, log)
	g.Go(func() error { return sched.Run(ctx) })

	if !d.remote.Available() {
		return
	}
	syncer := calsync.NewWorker(d.remote, d.reminders, calsync.Config{
		Interval:      cfg.CalendarSyncInterval,
		MinutesBefore: cfg.CalendarMinutesBefore,
		Limit:         cfg.CalendarSyncLimit,
	}, log)
	g.Go(func() error { return syncer.Run(ctx) })
}

func serveStatus(ctx context.Context, g *errgroup.Group, server *http.Server, log zerolog.Logger) {
	server.BaseContext = func(net.Listener) context.Context { return ctx }
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Status server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return pkgerrors.Wrap(err, "status server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Stack().Err(err).Msg("Status server forced to shutdown")
			return err
		}
		return nil
	})
}

package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/saraaltoom/Travis-Home-AI/internal/config"
	"github.com/saraaltoom/Travis-Home-AI/internal/hardware"
)

// ErrNoSerialLink is returned by Diagnose when no port could be opened.
var ErrNoSerialLink = errors.New("serial link not established")

const ackTimeout = 2 * time.Second

var diagnosticCommands = []string{
	"light on top",
	"light on bottom",
	"light off top",
	"light off bottom",
}

// DiagnosticLink is the serial surface exercised by Diagnose.
type DiagnosticLink interface {
	IsConnected() bool
	PortName() string
	Send(line string) error
	ReadLine(timeout time.Duration) string
}

// Pinger checks the generative service.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

var (
	okTag   = color.New(color.FgGreen).SprintFunc()
	failTag = color.New(color.FgRed).SprintFunc()
	warnTag = color.New(color.FgYellow).SprintFunc()
)

// Diagnose opens the serial link, exercises the four lights and pings the
// generative service, printing a report to out.
func Diagnose(ctx context.Context, cfg *config.Config, out io.Writer, log zerolog.Logger) error {
	transport := hardware.New(hardware.Options{
		Port:   cfg.SerialPort,
		Baud:   cfg.SerialBaud,
		Settle: cfg.SerialSettle,
		Log:    log,
	})
	defer transport.Close()
	return runDiagnostics(ctx, transport, newOllama(cfg), out)
}

func runDiagnostics(ctx context.Context, link DiagnosticLink, gen Pinger, out io.Writer) error {
	var serialErr error
	if !link.IsConnected() {
		fmt.Fprintf(out, "[%s] Serial not connected\n", failTag("FAIL"))
		serialErr = ErrNoSerialLink
	} else {
		fmt.Fprintf(out, "[%s] Serial connected on %s\n", okTag("OK"), link.PortName())
		for _, cmd := range diagnosticCommands {
			if err := link.Send(cmd); err != nil {
				fmt.Fprintf(out, "[Serial] %s -> send failed: %v\n", cmd, err)
				continue
			}
			ack := link.ReadLine(ackTimeout)
			if ack == "" {
				ack = "(no ack)"
			}
			fmt.Fprintf(out, "[Serial] %s -> %s\n", cmd, ack)
		}
	}

	if err := gen.HealthPing(ctx); err != nil {
		fmt.Fprintf(out, "[%s] Ollama: %v\n", warnTag("WARN"), err)
	} else {
		fmt.Fprintf(out, "[%s] Ollama ready\n", okTag("OK"))
	}

	if serialErr != nil {
		fmt.Fprintln(out, "Diagnostics finished with failures.")
		return serialErr
	}
	fmt.Fprintln(out, "Diagnostics completed.")
	return nil
}

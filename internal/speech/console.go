// Package speech provides the speak and listen collaborators for a text
// console, with optional hand-off to an external text-to-speech command.
package speech

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Speaker says one sentence.
type Speaker interface {
	Speak(text string)
}

// Listener returns the next utterance, or io.EOF when input has ended.
type Listener interface {
	Listen() (string, error)
}

var (
	nameColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	textColor = color.New(color.FgWhite).SprintFunc()
)

// Options configures a Console.
type Options struct {
	// Interactive enables line editing and history; otherwise In is read
	// line by line.
	Interactive bool
	HistoryFile string
	In          io.Reader
	Out         io.Writer
	TTSCommand  string
	Log         zerolog.Logger
}

// Console is a thread-safe Speaker and Listener.
type Console struct {
	mu     sync.Mutex
	closed sync.Once
	out    io.Writer
	rl     *readline.Instance
	in     *bufio.Reader
	tts    string
	log    zerolog.Logger
}

// NewConsole builds a Console.
func NewConsole(opts Options) (*Console, error) {
	c := &Console{tts: opts.TTSCommand, log: opts.Log.With().Str("component", "speech").Logger()}
	if opts.Interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:            color.GreenString("you> "),
			HistoryFile:       opts.HistoryFile,
			InterruptPrompt:   "^C",
			EOFPrompt:         "exit",
			HistorySearchFold: true,
			UniqueEditLine:    true,
			Stdin:             readline.NewCancelableStdin(os.Stdin),
			Stdout:            os.Stdout,
			Stderr:            os.Stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("init readline: %w", err)
		}
		c.rl = rl
		c.out = rl.Stdout()
		return c, nil
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	c.in = bufio.NewReader(opts.In)
	c.out = opts.Out
	return c, nil
}

// Speak prints text and, when configured, runs the TTS command with it.
func (c *Console) Speak(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", nameColor("Travis:"), textColor(text))
	if c.tts != "" {
		if err := exec.Command(c.tts, text).Run(); err != nil {
			c.log.Warn().Err(err).Str("cmd", c.tts).Msg("text-to-speech failed")
		}
	}
}

// Listen reads one trimmed line. Ctrl+C on an empty line ends input.
func (c *Console) Listen() (string, error) {
	if c.rl != nil {
		for {
			line, err := c.rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return "", io.EOF
				}
				continue
			}
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(line), nil
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Close releases the terminal. A pending Listen returns an error. Close may
// be called more than once.
func (c *Console) Close() error {
	var err error
	c.closed.Do(func() {
		if c.rl != nil {
			err = c.rl.Close()
		}
	})
	return err
}

package speech

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_SpeakAndListen(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	c, err := NewConsole(Options{In: strings.NewReader("  hello \nlast"), Out: &out, Log: zerolog.Nop()})
	require.NoError(t, err)

	c.Speak("I'm ready. How can I help?")
	c.Speak("   ")
	assert.Equal(t, "Travis: I'm ready. How can I help?\n", out.String())

	line, err := c.Listen()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	line, err = c.Listen()
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = c.Listen()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, c.Close())
}

func TestConsole_SpeakConcurrently(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	c, err := NewConsole(Options{In: strings.NewReader(""), Out: &out, Log: zerolog.Nop()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Speak("You have a reminder now.")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, strings.Count(out.String(), "Travis: You have a reminder now.\n"))
}

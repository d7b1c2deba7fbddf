package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_RemindersAddAndList(t *testing.T) {
	t.Setenv("TRAVIS_DATA_DIR", t.TempDir())

	out, err := execute(t, "reminders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No reminders.")

	out, err = execute(t, "reminders", "add", "--at", "2030-01-02 09:30", "call", "mom")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminder set for 2030-01-02 09:30 AM")

	out, err = execute(t, "reminders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2030-01-02T09:30:00  call mom")
}

func TestCLI_RemindersAddRejectsBadTime(t *testing.T) {
	t.Setenv("TRAVIS_DATA_DIR", t.TempDir())

	_, err := execute(t, "reminders", "add", "--at", "tomorrow-ish", "call")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time")
}

func TestCLI_EventsListEmpty(t *testing.T) {
	t.Setenv("TRAVIS_DATA_DIR", t.TempDir())

	out, err := execute(t, "events", "list", "--scope", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "You have nothing scheduled for today.")

	out, err = execute(t, "events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "You have no upcoming events.")

	_, err = execute(t, "events", "list", "--scope", "yesterday")
	require.Error(t, err)
}

func TestCLI_ParseNamesTheIntent(t *testing.T) {
	out, err := execute(t, "parse", "turn", "on", "the", "top", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "intent: device_control")
	assert.Contains(t, out, `"device": "light_top"`)

	out, err = execute(t, "parse", "tell", "me", "a", "joke")
	require.NoError(t, err)
	assert.Contains(t, out, "rule: none")
}

package face

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_Recognize(t *testing.T) {
	c := &Commands{RecognizeCmd: "echo Sara", Log: zerolog.Nop()}
	name, err := c.Recognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sara", name)

	c.RecognizeCmd = "echo unknown"
	name, err = c.Recognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", name)

	c.RecognizeCmd = ""
	_, err = c.Recognize(context.Background())
	assert.Error(t, err)
}

func TestCommands_Enroll(t *testing.T) {
	ok, err := (&Commands{EnrollCmd: "true", Log: zerolog.Nop()}).Enroll(context.Background(), "Noura")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = (&Commands{EnrollCmd: "false", Log: zerolog.Nop()}).Enroll(context.Background(), "Noura")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommands_Detect(t *testing.T) {
	label, err := (&Commands{Log: zerolog.Nop()}).Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "neutral", label)

	label, err = (&Commands{EmotionCmd: "echo Happy", Log: zerolog.Nop()}).Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "happy", label)
}

func TestStatic(t *testing.T) {
	name, err := Static{Name: "Owner"}.Recognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Owner", name)
}

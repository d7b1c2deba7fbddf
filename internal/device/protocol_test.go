package device

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLink struct {
	sent      []string
	failOn    string
	connected bool
}

func (r *recordingLink) Send(line string) error {
	if line == r.failOn {
		return errors.New("write failed")
	}
	r.sent = append(r.sent, line)
	return nil
}

func (r *recordingLink) IsConnected() bool { return r.connected }

func TestEncode(t *testing.T) {
	cases := []struct {
		device, action, level string
		want                  []string
	}{
		{"door", "open", "", []string{"open door"}},
		{"door", "unlock", "", []string{"open door"}},
		{"door", "lock", "", []string{"close door"}},
		{"light", "turn_off", "", []string{"light off top", "light off bottom"}},
		{"light", "turn_on", "low", []string{"light off top", "light off bottom"}},
		{"light", "turn_on", "", []string{"light on top", "light on bottom"}},
		{"light", "on", "medium", []string{"light on top", "light on bottom"}},
		{"light_top", "turn_off", "", []string{"light off top"}},
		{"light_bottom", "turn_on", "high", []string{"light on bottom"}},
	}
	for _, tc := range cases {
		got, err := Encode(tc.device, tc.action, tc.level)
		require.NoError(t, err, "%+v", tc)
		assert.Equal(t, tc.want, got, "%+v", tc)
	}
}

func TestEncode_Unknown(t *testing.T) {
	for _, tc := range [][2]string{{"door", "turn_on"}, {"light", ""}, {"fan", "turn_on"}, {"light_top", "dim"}} {
		_, err := Encode(tc[0], tc[1], "")
		assert.ErrorIs(t, err, ErrUnknownCommand, "%v", tc)
	}
}

func TestExecute_SendsEveryCommand(t *testing.T) {
	link := &recordingLink{failOn: "light off top"}
	p := NewProtocol(link, zerolog.Nop())

	cmds, err := p.Execute("light", "turn_off", "")
	require.Error(t, err)
	assert.Equal(t, []string{"light off top", "light off bottom"}, cmds)
	assert.Equal(t, []string{"light off bottom"}, link.sent)
}

func TestExecute_UnknownSendsNothing(t *testing.T) {
	link := &recordingLink{}
	p := NewProtocol(link, zerolog.Nop())
	_, err := p.Execute("garage", "open", "")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Empty(t, link.sent)

	assert.Error(t, p.Raw("   "))
	assert.Empty(t, link.sent)
}

func TestEmotionCommand(t *testing.T) {
	assert.Equal(t, "emotion happy", EmotionCommand("Surprise"))
	assert.Equal(t, "emotion sad", EmotionCommand("disgust"))
	assert.Equal(t, "emotion neutral", EmotionCommand("fear"))
	assert.Equal(t, "emotion neutral", EmotionCommand(""))
}

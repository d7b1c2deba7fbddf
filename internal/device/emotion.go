package device

import "strings"

// EmotionCommand maps a classifier label to the advisory face command.
func EmotionCommand(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "happy", "surprise", "excited":
		return "emotion happy"
	case "angry", "sad", "disgust":
		return "emotion sad"
	default:
		return "emotion neutral"
	}
}

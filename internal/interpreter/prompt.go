package interpreter

import (
	"bytes"
	"encoding/json"
	"strings"
)

const systemInstructions = `You are Travis' command parser. Understand English and Arabic.
Input: a user's natural-language request.
Output: STRICT JSON with optional keys:
- speak: short English sentence to speak back.
- serial: array of strings to send over serial to Arduino (each ends with a newline on host).
- calendar: object for scheduling tasks, e.g. {"action": "add", "title": "...", "datetime": "YYYY-MM-DD HH:MM"}.
- open_url: absolute URL to open in browser; or open_search: plain text to search for booking.
- reminder: object like {"message": "...", "at": "YYYY-MM-DD HH:MM"} or {"for_title": "...", "minutes_before": 30}.
- ask: if information is missing, include a clarifying question instead of guessing.
Rules:
- Do not add markdown, code fences, or commentary. JSON only.
- If the request is a device action, map it to clear serial strings understood by Arduino.
- Prefer commands like: 'open door', 'close door', 'light on top', 'light off bottom', 'light on bottom'.
- If user mentions new hardware/commands, pass through a reasonable serial string matching the wording.
- For calendar additions, convert any relative time (e.g., 'tomorrow 3 pm') into local time in 'YYYY-MM-DD HH:MM' 24-hour format.
- If no action is needed, return only {"speak": "..."}.
`

type example struct {
	user string
	want Result
}

var examples = []example{
	{"open the door", Result{Speak: "Opening the door.", Serial: []string{"open door"}}},
	{"turn on the light", Result{Speak: "Turning on lights.", Serial: []string{"light on top", "light on bottom"}}},
	{"turn off the light", Result{Speak: "Turning lights off.", Serial: []string{"light off top", "light off bottom"}}},
	{"turn off the top light", Result{Speak: "Turning off the top light.", Serial: []string{"light off top"}}},
	{"turn on the bottom light", Result{Speak: "Turning on the bottom light.", Serial: []string{"light on bottom"}}},
	{"switch off the light", Result{Speak: "Turning lights off.", Serial: []string{"light off top", "light off bottom"}}},
	{"close the door", Result{Speak: "Closing the door.", Serial: []string{"close door"}}},
	{"what time is it?", Result{Speak: "Let me check the time for you."}},
	{"add a dentist appointment tomorrow at 15:00", Result{
		Speak:    "Added to your calendar.",
		Calendar: &CalendarAction{Action: "add", Title: "Dentist appointment", Datetime: "2025-05-20 15:00"},
	}},
	{"add an appointment to my schedule", Result{Ask: "What date and time? Please say YYYY-MM-DD HH:MM or 'today 3 pm'."}},
	{"remind me at 9:30 to call mom", Result{
		Speak:    "Okay, I'll remind you.",
		Reminder: &ReminderAction{Message: "Call mom", At: "2025-05-20 09:30"},
	}},
	{"open booking page for Pizza Hut in Riyadh", Result{Speak: "Opening booking search.", OpenSearch: "Pizza Hut Riyadh"}},
	{"أضف موعد لجدولي اليوم الساعة 3 مساء", Result{
		Speak:    "تمت الإضافة.",
		Calendar: &CalendarAction{Action: "add", Title: "موعد", Datetime: "2025-05-20 15:00"},
	}},
	{"اطفئ الاضاءة العلوية", Result{Speak: "حسنًا، أطفأت الإضاءة العلوية.", Serial: []string{"light off top"}}},
	{"شغّل الإضاءة السفلية", Result{Speak: "تم تشغيل الإضاءة السفلية.", Serial: []string{"light on bottom"}}},
}

// BuildPrompt renders the instructions, the examples and the user's text.
// The output depends only on userText.
func BuildPrompt(userText string) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("Examples:\n")
	for _, ex := range examples {
		b.WriteString("User: ")
		b.WriteString(ex.user)
		b.WriteString("\nJSON: ")
		b.WriteString(compactJSON(ex.want))
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(strings.TrimSpace(userText))
	b.WriteString("\nJSON:")
	return b.String()
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}

package intent

// eventCues are nouns that suggest a dated event even without an add verb.
var eventCues = normalizeAll(
	"lunch", "dinner", "breakfast", "interview", "class", "lecture", "party",
	"visit", "call with", "flight",
	"غداء", "عشاء", "مقابلة", "محاضرة", "حفلة", "زيارة", "اجتماع", "لقاء",
)

// HasEventCue reports whether text names an event-like noun. The dispatcher
// uses it to gate its date-only calendar path for unresolved input.
func HasEventCue(text string) bool {
	return newInput(text).has(eventCues)
}

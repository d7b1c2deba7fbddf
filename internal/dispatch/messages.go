package dispatch

// Sentences spoken by the dispatcher.
const (
	msgUnknownAction      = "Sorry, I don't understand the action."
	msgDeviceUnavailable  = "I couldn't reach the home controller."
	msgFaceSecurity       = "For security, owner please look at the camera."
	msgFaceDenied         = "Access denied. Only the owner can add faces."
	msgFaceWho            = "Who's joining? After the name, please bring the new person in front of the camera and look straight."
	msgFaceNoName         = "No name provided."
	msgFaceAdded          = "%s added successfully."
	msgFaceFailed         = "Failed to add face. Try again."
	msgCalendarReadFailed = "I couldn't read your calendar right now."
	msgCalendarSaveFailed = "I couldn't save the event."
	msgInvalidEventTime   = "Invalid date format. Use YYYY-MM-DD HH:MM."
	msgInvalidReminder    = "Invalid time. Use YYYY-MM-DD HH:MM"
	msgReminderFailed     = "I couldn't save the reminder."
	msgAskWhen            = "What date and time for '%s'? Say like 2025-11-10 14:30 or 'today 3 pm'."
	msgNoTimeHeard        = "I didn't catch the time. Please try again later."
	msgTimeUnparsed       = "Couldn't parse the time. Please say the exact date and time, like 2025-11-10 14:30."
	msgBookingOpened      = "Opening booking options in your browser."
	msgURLOpened          = "Opening in your browser."
	msgBrowserFailed      = "I couldn't open the browser."
	msgRelativeReminder   = "Please tell me the exact time for the reminder, like 2025-11-10 09:30."
)

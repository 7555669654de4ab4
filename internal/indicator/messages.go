package indicator

type messages struct {
	enabledTitle  string
	disabledTitle string
	disabledBody  string
	modeTitle     string
	currentMode   string
	heardTitle    string
}

// Notification text is English only; the media center renders it as given.
var defaultMessages = messages{
	enabledTitle:  "Voice recognition enabled",
	disabledTitle: "Voice recognition disabled",
	disabledBody:  "Not listening for commands",
	modeTitle:     "Voice recognition mode changed",
	currentMode:   "Current mode: %s",
	heardTitle:    "Voice command heard",
}

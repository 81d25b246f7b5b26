package config

// Default returns the built-in fallback Configuration. It is the floor of
// the authority order: adopted only when the bundled baseline resource
// itself cannot be loaded, so a consumer never observes an empty value.
// Always valid by construction.
func Default() *Configuration {
	return &Configuration{
		Patterns: map[Field]string{
			FieldFlightNumber:     `^[A-Z0-9]{2}\s?[0-9]{1,4}[A-Z]?$`,
			FieldBookingReference: `^[A-Z0-9]{6}$`,
			FieldSeatNumber:       `^[0-9]{1,3}[A-K]$`,
			FieldPassengerName:    `^[A-Z][A-Z '/-]{1,59}$`,
			FieldDepartureDate:    `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`,
		},
		Placeholders: map[Field]string{
			FieldFlightNumber:     "e.g. BA 117",
			FieldBookingReference: "6-character reference",
			FieldSeatNumber:       "e.g. 14C",
			FieldPassengerName:    "Name as printed on the pass",
			FieldDepartureDate:    "YYYY-MM-DD",
		},
		Messages: map[Message]string{
			MessageInvalidFlightNumber:     "That doesn't look like a valid flight number.",
			MessageInvalidBookingReference: "Booking references are 6 letters or digits.",
			MessageInvalidSeatNumber:       "That doesn't look like a valid seat.",
			MessageInvalidPassengerName:    "Enter the name exactly as printed.",
			MessageInvalidDepartureDate:    "Enter the date as YYYY-MM-DD.",
			MessageScanFailed:              "Couldn't read the pass. Try again or enter the details manually.",
			MessagePublishFailed:           "The override could not be published.",
		},
		Buttons: map[Button]string{
			ButtonScan:        "Scan pass",
			ButtonManualEntry: "Enter manually",
			ButtonSubmit:      "Submit",
			ButtonRetry:       "Try again",
			ButtonCancel:      "Cancel",
		},
	}
}

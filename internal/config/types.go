package config

import (
	"maps"
	"regexp"
)

// Field identifies an input field the scanner validates and labels.
type Field string

const (
	// FieldFlightNumber is the flight designator field (e.g. "BA 117").
	FieldFlightNumber Field = "flightNumber"

	// FieldBookingReference is the booking reference (PNR) field.
	FieldBookingReference Field = "bookingReference"

	// FieldSeatNumber is the seat assignment field.
	FieldSeatNumber Field = "seatNumber"

	// FieldPassengerName is the passenger name field.
	FieldPassengerName Field = "passengerName"

	// FieldDepartureDate is the departure date field.
	FieldDepartureDate Field = "departureDate"
)

// Fields returns every member of the closed Field enumeration.
func Fields() []Field {
	return []Field{
		FieldFlightNumber,
		FieldBookingReference,
		FieldSeatNumber,
		FieldPassengerName,
		FieldDepartureDate,
	}
}

// Message identifies a user-facing error message.
type Message string

const (
	// MessageInvalidFlightNumber is shown when flight number validation fails.
	MessageInvalidFlightNumber Message = "invalidFlightNumber"

	// MessageInvalidBookingReference is shown when the booking reference is rejected.
	MessageInvalidBookingReference Message = "invalidBookingReference"

	// MessageInvalidSeatNumber is shown when the seat assignment is rejected.
	MessageInvalidSeatNumber Message = "invalidSeatNumber"

	// MessageInvalidPassengerName is shown when the passenger name is rejected.
	MessageInvalidPassengerName Message = "invalidPassengerName"

	// MessageInvalidDepartureDate is shown when the departure date is rejected.
	MessageInvalidDepartureDate Message = "invalidDepartureDate"

	// MessageScanFailed is shown when document recognition produced nothing usable.
	MessageScanFailed Message = "scanFailed"

	// MessagePublishFailed is shown when publishing an override fails.
	MessagePublishFailed Message = "publishFailed"
)

// Messages returns every member of the closed Message enumeration.
func Messages() []Message {
	return []Message{
		MessageInvalidFlightNumber,
		MessageInvalidBookingReference,
		MessageInvalidSeatNumber,
		MessageInvalidPassengerName,
		MessageInvalidDepartureDate,
		MessageScanFailed,
		MessagePublishFailed,
	}
}

// Button identifies a labelled UI action.
type Button string

const (
	// ButtonScan starts document scanning.
	ButtonScan Button = "scan"

	// ButtonManualEntry switches to manual field entry.
	ButtonManualEntry Button = "manualEntry"

	// ButtonSubmit submits the entered fields.
	ButtonSubmit Button = "submit"

	// ButtonRetry retries the last failed action.
	ButtonRetry Button = "retry"

	// ButtonCancel abandons the current flow.
	ButtonCancel Button = "cancel"
)

// Buttons returns every member of the closed Button enumeration.
func Buttons() []Button {
	return []Button{
		ButtonScan,
		ButtonManualEntry,
		ButtonSubmit,
		ButtonRetry,
		ButtonCancel,
	}
}

// Configuration aggregates the validation patterns and UI text for the
// scanning application. Values are interchangeable: a Configuration has no
// identity beyond its content, and a resolver replaces the whole value
// atomically rather than mutating individual entries.
//
// A valid Configuration carries an entry for every member of the Field,
// Message, and Button enumerations; absence is a schema violation detected
// by Validate, never a runtime lookup failure.
type Configuration struct {
	// Patterns maps each field to its validation regular expression.
	Patterns map[Field]string `json:"patterns" toml:"patterns"`

	// Placeholders maps each field to its input placeholder text.
	Placeholders map[Field]string `json:"placeholders" toml:"placeholders"`

	// Messages maps each message kind to its user-facing text.
	Messages map[Message]string `json:"messages" toml:"messages"`

	// Buttons maps each button to its label.
	Buttons map[Button]string `json:"buttons" toml:"buttons"`
}

// Validate checks the schema invariant: every enumeration member must have
// a non-empty entry, and every validation pattern must compile. A failing
// Configuration is rejected whole; it is never partially accepted.
func (c *Configuration) Validate() error {
	schemaErr := &SchemaError{}

	for _, f := range Fields() {
		if c.Patterns[f] == "" {
			schemaErr.Missing = append(schemaErr.Missing, "patterns."+string(f))
		} else if _, err := regexp.Compile(c.Patterns[f]); err != nil {
			schemaErr.BadPatterns = append(schemaErr.BadPatterns, string(f))
		}
		if c.Placeholders[f] == "" {
			schemaErr.Missing = append(schemaErr.Missing, "placeholders."+string(f))
		}
	}
	for _, m := range Messages() {
		if c.Messages[m] == "" {
			schemaErr.Missing = append(schemaErr.Missing, "messages."+string(m))
		}
	}
	for _, b := range Buttons() {
		if c.Buttons[b] == "" {
			schemaErr.Missing = append(schemaErr.Missing, "buttons."+string(b))
		}
	}

	if len(schemaErr.Missing) > 0 || len(schemaErr.BadPatterns) > 0 {
		return schemaErr
	}
	return nil
}

// Equal reports whether two Configuration values have identical content.
func (c *Configuration) Equal(o *Configuration) bool {
	if c == nil || o == nil {
		return c == o
	}
	return maps.Equal(c.Patterns, o.Patterns) &&
		maps.Equal(c.Placeholders, o.Placeholders) &&
		maps.Equal(c.Messages, o.Messages) &&
		maps.Equal(c.Buttons, o.Buttons)
}

// Clone returns a deep copy. Mutating the copy does not affect the original.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	return &Configuration{
		Patterns:     maps.Clone(c.Patterns),
		Placeholders: maps.Clone(c.Placeholders),
		Messages:     maps.Clone(c.Messages),
		Buttons:      maps.Clone(c.Buttons),
	}
}

// Pattern returns the validation pattern for a field. Identifiers outside
// the declared Field constants yield an empty string; every declared
// identifier is guaranteed present by Validate.
func (c *Configuration) Pattern(f Field) string {
	return c.Patterns[f]
}

// Placeholder returns the input placeholder text for a field.
func (c *Configuration) Placeholder(f Field) string {
	return c.Placeholders[f]
}

// ErrorMessage returns the user-facing text for a message kind.
func (c *Configuration) ErrorMessage(m Message) string {
	return c.Messages[m]
}

// ButtonLabel returns the label for a button.
func (c *Configuration) ButtonLabel(b Button) string {
	return c.Buttons[b]
}

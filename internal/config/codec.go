package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
)

// TOML is the human-authored format: the bundled baseline resource and
// override files fed to the publish flow. JSON is the machine format used
// for the cache record and the remote override payload. Every decode
// validates; malformed bytes and schema violations are both decode-class
// failures.

// DecodeTOML parses and validates a TOML-encoded Configuration.
func DecodeTOML(data []byte) (*Configuration, error) {
	var c Configuration
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, &DecodeError{Format: "toml", Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodeTOML serializes a Configuration for human-authored files.
func EncodeTOML(c *Configuration) ([]byte, error) {
	return toml.Marshal(c)
}

// DecodeJSON parses and validates a JSON-encoded Configuration.
func DecodeJSON(data []byte) (*Configuration, error) {
	var c Configuration
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodeJSON serializes a Configuration for the cache and remote payloads.
func EncodeJSON(c *Configuration) ([]byte, error) {
	return json.Marshal(c)
}

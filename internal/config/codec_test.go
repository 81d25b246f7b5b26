package config

import (
	"errors"
	"testing"
)

func TestTOMLRoundTrip(t *testing.T) {
	orig := Default()
	orig.Buttons[ButtonSubmit] = "Send"

	data, err := EncodeTOML(orig)
	if err != nil {
		t.Fatalf("EncodeTOML() error: %v", err)
	}

	decoded, err := DecodeTOML(data)
	if err != nil {
		t.Fatalf("DecodeTOML() error: %v", err)
	}
	if !orig.Equal(decoded) {
		t.Error("round-tripped configuration differs")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := Default()
	orig.Placeholders[FieldSeatNumber] = "e.g. 22F"

	data, err := EncodeJSON(orig)
	if err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}

	decoded, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error: %v", err)
	}
	if !orig.Equal(decoded) {
		t.Error("round-tripped configuration differs")
	}
}

func TestDecodeTOML_Malformed(t *testing.T) {
	_, err := DecodeTOML([]byte("not = [valid"))
	if err == nil {
		t.Fatal("DecodeTOML() = nil error for malformed input")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("errors.Is(err, ErrDecode) = false for %v", err)
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON([]byte("{"))
	if err == nil {
		t.Fatal("DecodeJSON() = nil error for malformed input")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("errors.Is(err, ErrDecode) = false for %v", err)
	}
}

func TestDecodeJSON_SchemaViolation(t *testing.T) {
	cfg := Default()
	delete(cfg.Buttons, ButtonRetry)

	data, err := EncodeJSON(cfg)
	if err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}

	_, err = DecodeJSON(data)
	if err == nil {
		t.Fatal("DecodeJSON() accepted a configuration violating the schema")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("schema violation not a decode-class error: %v", err)
	}
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// DecodeRecord parses one tagged submission. Every field of the chosen
// variant must be present and non-null; unknown extra keys are ignored.
func DecodeRecord(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedPayload)
	}

	raw, ok := fields["type"]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: missing type tag", ErrMalformedPayload)
	}
	var kind Kind
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, fmt.Errorf("%w: type tag: %w", ErrMalformedPayload, err)
	}

	var rec Record
	switch kind {
	case KindMatch:
		rec = &MatchRecord{}
	case KindPit:
		rec = &PitRecord{}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedPayload, kind)
	}

	declared, err := declaredFields(reflect.TypeOf(rec).Elem(), fields, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, kind, err)
	}
	exact, err := json.Marshal(declared)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, kind, err)
	}
	if err := json.Unmarshal(exact, rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, kind, err)
	}
	return rec, nil
}

// Envelope decodes a record in place, for use inside larger documents.
type Envelope struct {
	Record Record
}

// UnmarshalJSON implements json.Unmarshaler via DecodeRecord.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	rec, err := DecodeRecord(data)
	if err != nil {
		return err
	}
	e.Record = rec
	return nil
}

// MarshalJSON writes the wrapped record.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record)
}

// declaredFields returns the json-tagged fields of t taken from fields by
// exact key, descending into nested structs. Every field must be present
// and non-null. Other keys are dropped so encoding/json's case-insensitive
// matching cannot let them shadow a declared field.
func declaredFields(t reflect.Type, fields map[string]json.RawMessage, prefix string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := fields[name]
		if !ok || isNull(raw) {
			return nil, fmt.Errorf("missing field %q", prefix+name)
		}
		if f.Type.Kind() != reflect.Struct {
			out[name] = raw
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil || nested == nil {
			return nil, fmt.Errorf("field %q must be an object", prefix+name)
		}
		inner, err := declaredFields(f.Type, nested, prefix+name+".")
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(inner)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

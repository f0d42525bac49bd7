// Package parser decodes model-derivative JSON payloads into models.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ParseError represents a payload that could not be decoded.
type ParseError struct {
	Payload string // "hierarchy", "properties", "views"
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Payload, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("expected JSON object")

// member is one key/value pair of a JSON object, kept in document order.
type member struct {
	Key   string
	Value json.RawMessage
}

// decodeObject splits a JSON object into its members without losing key
// order. A null document yields no members and no error.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}
		members = append(members, member{Key: key, Value: raw})
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

// lookup returns the value of the first member named key.
func lookup(members []member, key string) (json.RawMessage, bool) {
	for _, m := range members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// unwrapData returns the "data" member of an API envelope, or the document
// itself when it carries no envelope. A "data" object counts as an envelope
// only when it is the sole member or declares a "type"; otherwise it is an
// ordinary category that happens to be named data.
func unwrapData(data []byte) ([]member, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	inner, ok := lookup(members, "data")
	if !ok || kind(inner) != '{' {
		return members, nil
	}
	innerMembers, err := decodeObject(inner)
	if err != nil {
		return nil, err
	}
	if len(members) == 1 {
		return innerMembers, nil
	}
	if _, typed := lookup(innerMembers, "type"); typed {
		return innerMembers, nil
	}
	return members, nil
}

// kind returns the first significant byte of a JSON value.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// parseInt64 reads an integer JSON value. Strings holding digits are accepted.
func parseInt64(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Package extract pulls a single JSON object out of free-form oracle replies.
//
// Grammar: the object is the span from the first '{' to the last '}' of the
// reply, inclusive. Anything outside that span (prose, markdown fences) is
// ignored. Several objects or unbalanced braces inside the span are not
// repaired; they simply fail to decode and the caller falls back to its
// default value.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject is returned when the reply contains no '{' ... '}' span.
var ErrNoObject = errors.New("no JSON object in reply")

// ObjectSpan returns the outer-brace span of reply.
func ObjectSpan(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoObject
	}
	return reply[start : end+1], nil
}

// Decode extracts the object span of reply, unmarshals it into v and
// validates the result against v's `validate` tags.
func Decode(reply string, v any) error {
	span, err := ObjectSpan(reply)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	if err := Validate(v); err != nil {
		return fmt.Errorf("validate object: %w", err)
	}
	return nil
}

// DecodeOr is Decode with a guaranteed value: on any failure it returns def
// together with the failure reason.
func DecodeOr[T any](reply string, def T) (T, error) {
	var out T
	if err := Decode(reply, &out); err != nil {
		return def, err
	}
	return out, nil
}

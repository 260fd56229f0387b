// Package webhook provides the call-completion webhook bounded context.
// It reconciles provider end-of-call reports against lead records: extract the
// identifying fields, classify the outcome, resolve the lead and update it.
package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	errPayloadNotObject    = errors.New("webhook payload must be a JSON object")
	errPayloadTrailingData = errors.New("webhook payload has data after the JSON object")
)

// Payload is a schema-less JSON document. Lookups never fail; a missing or
// mistyped segment simply yields no value.
type Payload struct {
	root map[string]any
}

// ParsePayload decodes body into a Payload. Numbers keep their textual form.
func ParsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{}, errors.New("empty webhook payload")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return Payload{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Payload{}, errPayloadTrailingData
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return Payload{}, errPayloadNotObject
	}
	return Payload{root: obj}, nil
}

// Lookup walks a dotted path ("message.artifact.customer.number").
func (p Payload) Lookup(path string) (any, bool) {
	var current any = p.root
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := obj[segment]
		if !ok || next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

// FirstString returns the first path holding a non-blank string or number.
func (p Payload) FirstString(paths []string) (string, bool) {
	for _, path := range paths {
		value, ok := p.Lookup(path)
		if !ok {
			continue
		}
		if s, ok := asString(value); ok {
			return s, true
		}
	}
	return "", false
}

// FirstPositiveNumber returns the first path holding a finite number greater than zero.
// Numeric strings are accepted.
func (p Payload) FirstPositiveNumber(paths []string) (float64, bool) {
	for _, path := range paths {
		value, ok := p.Lookup(path)
		if !ok {
			continue
		}
		if n, ok := asNumber(value); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// FirstBool returns the first path holding a boolean (or "true"/"false").
func (p Payload) FirstBool(paths []string) (bool, bool) {
	for _, path := range paths {
		value, ok := p.Lookup(path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

// FirstObject returns the first path holding a JSON object.
func (p Payload) FirstObject(paths []string) (map[string]any, bool) {
	for _, path := range paths {
		value, ok := p.Lookup(path)
		if !ok {
			continue
		}
		if obj, ok := value.(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func asNumber(value any) (float64, bool) {
	var (
		n   float64
		err error
	)
	switch v := value.(type) {
	case json.Number:
		n, err = v.Float64()
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		n, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

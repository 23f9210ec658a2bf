package protocol

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// WriteQuery is a parsed WRITE command.
//
// Ex: WRITE tenant=acme collection=articles id=a1 payload=%7B%22x%22%3A1%7D
type WriteQuery struct {
	Tenant     string
	Collection string
	ID         string
	Payload    json.RawMessage
}

// DeleteQuery is a parsed DELETE command. Without an id the delete targets
// the whole collection; with all=true every live record is tombstoned
// individually.
type DeleteQuery struct {
	Tenant     string
	Collection string
	ID         string
	All        bool
}

// ReadQuery is a parsed READ command.
type ReadQuery struct {
	Tenant     string
	Collection string
	ID         string
}

// VersionQuery is a parsed VERSION command.
type VersionQuery struct {
	Tenant     string
	Collection string
}

// ChangesQuery is a parsed CHANGES command. Since is the exclusive floor
// timestamp in epoch milliseconds.
type ChangesQuery struct {
	Tenant     string
	Collection string
	Since      int64
}

// fields splits a query into key=value pairs, URL-unescaping values so
// payloads can carry arbitrary bytes.
func fields(input string) (map[string]string, error) {
	parts := strings.Fields(input)
	out := make(map[string]string, len(parts))

	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, newError(errInvalidFormat, "%s", part)
		}

		key := strings.TrimLeft(kv[0], "-")
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			return nil, newError(errInvalidFormat, "failed to decode value for %s: %v", key, err)
		}
		out[key] = value
	}

	return out, nil
}

func requireTarget(kv map[string]string) error {
	if kv["tenant"] == "" {
		return newError(errMissingField, "tenant")
	}
	if kv["collection"] == "" {
		return newError(errMissingField, "collection")
	}
	return nil
}

// ParseWrite parses a WRITE query string into a structured form
func ParseWrite(input string) (*WriteQuery, error) {
	kv, err := fields(input)
	if err != nil {
		return nil, err
	}

	parsed := &WriteQuery{}
	for key, value := range kv {
		switch key {
		case "tenant":
			parsed.Tenant = value
		case "collection":
			parsed.Collection = value
		case "id":
			parsed.ID = value
		case "payload":
			if !json.Valid([]byte(value)) {
				return nil, newError(errInvalidFormat, "payload is not valid JSON")
			}
			parsed.Payload = json.RawMessage(value)
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if err := requireTarget(kv); err != nil {
		return nil, err
	}
	if len(parsed.Payload) == 0 {
		return nil, newError(errMissingField, "payload")
	}

	return parsed, nil
}

// ParseDelete parses a DELETE query string into a structured form
func ParseDelete(input string) (*DeleteQuery, error) {
	kv, err := fields(input)
	if err != nil {
		return nil, err
	}

	parsed := &DeleteQuery{}
	for key, value := range kv {
		switch key {
		case "tenant":
			parsed.Tenant = value
		case "collection":
			parsed.Collection = value
		case "id":
			parsed.ID = value
		case "all":
			all, err := strconv.ParseBool(value)
			if err != nil {
				return nil, newError(errInvalidFormat, "invalid all value: %s", value)
			}
			parsed.All = all
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if err := requireTarget(kv); err != nil {
		return nil, err
	}
	if parsed.All && parsed.ID != "" {
		return nil, newError(errInvalidFormat, "all=true cannot carry an id")
	}

	return parsed, nil
}

// ParseRead parses a READ query string into a structured form
func ParseRead(input string) (*ReadQuery, error) {
	kv, err := fields(input)
	if err != nil {
		return nil, err
	}

	parsed := &ReadQuery{}
	for key, value := range kv {
		switch key {
		case "tenant":
			parsed.Tenant = value
		case "collection":
			parsed.Collection = value
		case "id":
			parsed.ID = value
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if err := requireTarget(kv); err != nil {
		return nil, err
	}
	if parsed.ID == "" {
		return nil, newError(errMissingField, "id")
	}

	return parsed, nil
}

// ParseVersion parses a VERSION query string into a structured form
func ParseVersion(input string) (*VersionQuery, error) {
	kv, err := fields(input)
	if err != nil {
		return nil, err
	}

	parsed := &VersionQuery{}
	for key, value := range kv {
		switch key {
		case "tenant":
			parsed.Tenant = value
		case "collection":
			parsed.Collection = value
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if err := requireTarget(kv); err != nil {
		return nil, err
	}

	return parsed, nil
}

// ParseChanges parses a CHANGES query string into a structured form
func ParseChanges(input string) (*ChangesQuery, error) {
	kv, err := fields(input)
	if err != nil {
		return nil, err
	}

	parsed := &ChangesQuery{}
	for key, value := range kv {
		switch key {
		case "tenant":
			parsed.Tenant = value
		case "collection":
			parsed.Collection = value
		case "since":
			since, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, newError(errInvalidFormat, "invalid since value: %s", value)
			}
			parsed.Since = since
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if err := requireTarget(kv); err != nil {
		return nil, err
	}

	return parsed, nil
}

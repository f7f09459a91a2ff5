package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the backend, decoded from its error
// envelope. Field-level validation errors (DRF style: field name mapped to
// a list of messages) land in Fields so forms can attach them to inputs;
// everything else collapses into Message.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msgs := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
		}
		msg = strings.Join(parts, ", ")
	}
	if msg == "" {
		msg = "request rejected"
	}
	return fmt.Sprintf("api request failed: status code %d, message %s", e.StatusCode, msg)
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// decodeAPIError parses whatever error envelope the backend produced:
// {"error": ..., "detail": ...}, {"message": ...}, or a map of field names
// to lists of validation messages.
func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	for key, raw := range envelope {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			switch key {
			case "error", "message":
				apiErr.Message = text
			case "detail":
				apiErr.Detail = text
			}
			continue
		}

		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil && len(msgs) > 0 {
			if key == "non_field_errors" {
				apiErr.Message = strings.Join(msgs, "; ")
				continue
			}
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = msgs
		}
	}

	if apiErr.Message == "" && apiErr.Detail != "" {
		apiErr.Message = apiErr.Detail
	}
	return apiErr
}

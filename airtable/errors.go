package airtable

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the upstream API.
type Error struct {
	StatusCode int
	Type       string
	Message    string
	Table      string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("airtable: %s %d %s: %s", e.Table, e.StatusCode, e.Type, msg)
	}
	return fmt.Sprintf("airtable: %s %d: %s", e.Table, e.StatusCode, msg)
}

// Throttled reports whether the upstream rejected the call for exceeding its rate limit.
func (e *Error) Throttled() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// NotFound reports whether the table or record does not exist.
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// The upstream reports errors either as {"error": {"type": ..., "message": ...}}
// or as {"error": "NOT_FOUND"}.
func decodeError(table string, status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status, Table: table}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var detailed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detailed); err == nil {
		apiErr.Type = detailed.Type
		apiErr.Message = detailed.Message
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		apiErr.Type = code
	}
	return apiErr
}

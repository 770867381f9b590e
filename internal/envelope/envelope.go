// Package envelope defines the JSON wrapper every tool result and CLI
// command emits: status "ok" with a data payload, or status "error"
// with a message.
package envelope

import (
	"encoding/json"
	"fmt"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the uniform wire shape.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data interface{}) string {
	return render(Response{Status: StatusOK, Data: data})
}

// Error wraps an error in a failure envelope.
func Error(err error) string {
	if err == nil {
		return Errorf("unknown error")
	}
	return render(Response{Status: StatusError, Message: err.Error()})
}

// Errorf wraps a formatted message in a failure envelope.
func Errorf(format string, args ...interface{}) string {
	return render(Response{Status: StatusError, Message: fmt.Sprintf(format, args...)})
}

func render(resp Response) string {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"status":"error","message":%q}`, "encode response: "+err.Error())
	}
	return string(out)
}

// Package api defines the JSON request and response shapes shared by the HTTP handlers.
package api

import "time"

// Envelope is the uniform response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// TokenEnvelope is the login success response.
type TokenEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ServerStatus is returned by the root endpoint.
type ServerStatus struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a success envelope.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// MsgInternalError is the only message clients see for unclassified failures.
const MsgInternalError = "Internal server error"

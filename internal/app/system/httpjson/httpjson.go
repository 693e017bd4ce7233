// internal/app/system/httpjson/httpjson.go

// Package httpjson writes the response envelope shared by every API
// endpoint: {"success": bool, "message": string, "data": ..., "errors": [...]}.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// FieldError names a single violated constraint in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Count   *int         `json:"count,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 success envelope with a message and data.
func OKMessage(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// CreatedMessage writes a 201 success envelope with a message and data.
func CreatedMessage(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// List writes a 200 success envelope with data and an item count.
func List(w http.ResponseWriter, data any, count int) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Error writes a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// ValidationFailed writes a 400 envelope carrying the field-level list of
// violated constraints.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	write(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	})
}

// DecodeBody decodes a JSON request body into dst, rejecting unknown
// syntax errors but tolerating unknown fields (immutable fields are
// ignored rather than rejected, per the profile-update contract).
func DecodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

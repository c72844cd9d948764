// Package response writes the JSON envelope the API speaks:
// {"status":"success","data":...} / {"status":"error","message":...}.
package response

import (
	"encoding/json"
	"net/http"
)

type successBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorBody struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a success envelope with data.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, successBody{Status: "success", Data: data})
}

// SuccessMessage sends a success envelope with a message and optional data.
func SuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, successBody{Status: "success", Message: message, Data: data})
}

// Error sends an error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Status: "error", Message: message})
}

// ValidationFailed sends a 400 with per-field messages.
func ValidationFailed(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{
		Status:  "error",
		Message: "Validation failed",
		Errors:  fields,
	})
}

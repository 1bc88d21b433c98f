package checkout

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every endpoint.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

const (
	codeBadRequest   = "bad_request"
	codeValidation   = "validation_error"
	codePayment      = "payment_failed"
	codeNotFound     = "not_found"
	codeConflict     = "in_progress"
	codeInternal     = "internal_error"
	msgInternalError = "something went wrong, please try again"
)

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string][]string) {
	writeJSON(w, status, Response{Error: &ErrorDetail{Code: code, Message: message, Details: details}})
}

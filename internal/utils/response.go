package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorItem is one field-level failure in a validation error response.
type ErrorItem struct {
	Msg string `json:"msg"`
}

// JSONResponse sends any payload as JSON with the given status.
func JSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Message sends a {"msg": ...} body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, map[string]string{"msg": msg})
}

// ValidationErrors sends a 400 with {"errors":[{"msg":...},...]}.
func ValidationErrors(w http.ResponseWriter, errs []ErrorItem) {
	JSONResponse(w, http.StatusBadRequest, map[string][]ErrorItem{"errors": errs})
}

// ServerError sends the opaque 500 body. The internal cause stays in the
// server logs only.
func ServerError(w http.ResponseWriter) {
	Message(w, http.StatusInternalServerError, "Server error")
}

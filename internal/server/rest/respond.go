package rest

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the stable failure body. Every failure carries an
// "error" key; no error path produces a bodyless response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// internalError logs the cause and hides it from the client.
func (s *RESTServer) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(r.Context(), msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeJSON parses the request body into v. A false return means the 422
// response has already been written.
func (s *RESTServer) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return false
	}
	return true
}

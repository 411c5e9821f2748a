package rest

import (
	"net/http"
)

func (s *RESTServer) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.media.UploadURL(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to create upload URL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

func (s *RESTServer) handleViewURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusUnprocessableEntity, "Invalid storage key")
		return
	}

	url, err := s.media.ViewURL(r.Context(), key)
	if err != nil {
		s.internalError(w, r, "Failed to create view URL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

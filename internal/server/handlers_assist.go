package server

import (
	"net/http"

	"github.com/jonathan/oneclickresume/internal/assist"
)

// handleAssist runs one AI text-assist action. Upstream rate limits and
// exhausted credits keep their own status codes so the client can tell them apart.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req assist.Request
	if !s.decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := s.assist.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

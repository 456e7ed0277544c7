package api

import "net/http"

// handleGetConfig returns the running configuration. It holds no secrets;
// every data source in use is unauthenticated.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.cfg)
}

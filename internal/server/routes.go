package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withRequestLogging)

	// Health check.
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Board.
	r.HandleFunc("/v1/board", s.handleBoard).Methods(http.MethodGet)
	r.HandleFunc("/v1/stamp", s.handleStamp).Methods(http.MethodPost)

	// Journal and worklog.
	r.HandleFunc("/v1/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/v1/worklog", s.handleWorklog).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(errRouteNotFound, ErrCodeRouteNotFound))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorReq(w, r, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
	return r
}

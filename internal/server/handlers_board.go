package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kanstamp/internal/api"
	"kanstamp/internal/journal"
	"kanstamp/internal/stamper"
	"kanstamp/internal/timestamp"
)

const maxRunsLimit = 500

func (s *Server) resolvePath(w http.ResponseWriter, r *http.Request, explicit string) (string, bool) {
	path, err := stamper.ResolveActiveDocument(explicit, s.boardPath)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, documentError(err))
		return "", false
	}
	return path, true
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request, path string) (string, bool) {
	content, err := s.store.Read(r.Context(), path)
	if err != nil {
		apiErr := documentError(err)
		s.writeErrorReq(w, r, httpStatusFromError(apiErr), apiErr)
		return "", false
	}
	return content, true
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolvePath(w, r, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	content, ok := s.readDocument(w, r, path)
	if !ok {
		return
	}

	resp, err := api.NewBoardResponse(path, content, s.opts)
	if err != nil {
		s.log().Warn("front matter unreadable", "path", path, "error", err)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStamp(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.stampLimiter, w, r, "stamp") {
		return
	}
	defer s.releaseLimiter(s.stampLimiter)

	var req api.StampRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	path, ok := s.resolvePath(w, r, req.Path)
	if !ok {
		return
	}

	result, err := s.stamper.Stamp(r.Context(), path, stamper.TriggerCommand)
	if err != nil {
		apiErr := documentError(err)
		s.writeErrorReq(w, r, httpStatusFromError(apiErr), apiErr)
		return
	}
	if result.Outcome == stamper.OutcomeSkipped && result.Reason == stamper.ReasonInFlight {
		err := makeAPIError(http.StatusConflict, "conflict", ErrCodeStampInFlight, fmt.Errorf("%s: %s", path, result.Reason))
		s.writeErrorReq(w, r, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.StampResponse{Result: result})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented, errJournalDisabled)
		return
	}

	limit := journal.DefaultRecentLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRunsLimit {
			err := badRequestCode(fmt.Errorf("limit must be between 1 and %d", maxRunsLimit), ErrCodeInvalidQuery)
			s.writeErrorReq(w, r, http.StatusBadRequest, err)
			return
		}
		limit = parsed
	}

	runs, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		apiErr := makeAPIError(http.StatusInternalServerError, "internal", ErrCodeJournalFailure, err)
		s.writeErrorReq(w, r, http.StatusInternalServerError, apiErr)
		return
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleWorklog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	today := timestamp.FromTime(s.now()).Date
	if raw := strings.TrimSpace(query.Get("date")); raw != "" {
		date, err := timestamp.ParseDate(raw)
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidQuery))
			return
		}
		today = date
	}

	path, ok := s.resolvePath(w, r, query.Get("path"))
	if !ok {
		return
	}
	content, ok := s.readDocument(w, r, path)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, api.NewWorklogResponse(path, content, today))
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/runnerr0/diary/internal/diary"
)

// entryRequest is the body of create and edit requests. Date is epoch
// milliseconds.
type entryRequest struct {
	Date    int64         `json:"date"`
	Content string        `json:"content"`
	Emotion diary.Emotion `json:"emotion"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func entryID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": len(s.manager.Entries()),
	})
}

// handleList serves the listing view. Query params: order, mood, month.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	order, err := diary.ParseOrder(q.Get("order"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mood, err := diary.ParseMood(q.Get("mood"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := diary.ParseMonth(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := diary.Query{Order: order, Mood: mood, Month: month}
	writeJSON(w, http.StatusOK, query.Apply(s.manager.Entries()))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	entry, err := s.manager.Create(r.Context(), time.UnixMilli(req.Date), req.Content, req.Emotion)
	if err != nil {
		s.logger.Error("create entry", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, ok := s.manager.Entry(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("entry %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleEdit applies the edit even when the id is unknown, matching the
// manager's semantics, and reports 404 afterwards.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.manager.Edit(r.Context(), id, req.Content, req.Emotion, time.UnixMilli(req.Date)); err != nil {
		s.logger.Error("edit entry", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry, ok := s.manager.Entry(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("entry %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.manager.Remove(r.Context(), id); err != nil {
		s.logger.Error("remove entry", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams the entry list as server-sent events: once on
// connect, then after every committed transition. Slow readers skip
// intermediate snapshots and always receive the latest one.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	updates := make(chan []diary.Entry, 1)
	push := func(entries []diary.Entry) {
		select {
		case updates <- entries:
		default:
			// Drop the stale snapshot and queue the newest.
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- entries:
			default:
			}
		}
	}
	cancel := s.manager.Subscribe(push)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(entries []diary.Entry) error {
		data, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: entries\ndata: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := send(s.manager.Entries()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case entries := <-updates:
			if err := send(entries); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}

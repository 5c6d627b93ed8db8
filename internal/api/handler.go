// Package api serves the logbook over HTTP
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logger"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// Service is the part of the logbook the API exposes.
type Service interface {
	Record(ctx context.Context, in logbook.RecordInput) (model.Event, error)
	Events(ctx context.Context, from, to time.Time) ([]model.Event, error)
	Summary(ctx context.Context, from, to time.Time) (logbook.Summary, error)
	Submit(ctx context.Context, day string) (model.DailyLog, error)
	DailyLogs(ctx context.Context, from, to time.Time) ([]model.DailyLog, error)
	Inspect(ctx context.Context, in logbook.InspectInput) (model.Inspection, error)
	Inspections(ctx context.Context, from, to time.Time) ([]model.Inspection, error)
	ParseRange(from, to string) (time.Time, time.Time, error)
}

// Handler wires the v1 endpoints to the logbook.
type Handler struct {
	svc Service
	log *logger.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Named("api")
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the v1 endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/events", h.createEvent)
		r.Get("/events", h.listEvents)
		r.Get("/hos", h.summary)
		r.Get("/daily-logs", h.listDailyLogs)
		r.Post("/daily-logs/{day}/submit", h.submit)
		r.Post("/inspections", h.createInspection)
		r.Get("/inspections", h.listInspections)
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps validation failures to 400 and hides everything else
// behind a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, logbook.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// decode reads a JSON body into v, rejecting unknown fields. It writes the
// 400 itself and reports false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var in logbook.RecordInput
	if !decode(w, r, &in) {
		return
	}
	in.Source = model.SourceAPI

	ev, err := h.svc.Record(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// rangeOf reads the from/to query parameters.
func (h *Handler) rangeOf(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	return h.svc.ParseRange(q.Get("from"), q.Get("to"))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeOf(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	events, err := h.svc.Events(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeOf(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sum, err := h.svc.Summary(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) listDailyLogs(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeOf(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	logs, err := h.svc.DailyLogs(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = []model.DailyLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	log, err := h.svc.Submit(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) createInspection(w http.ResponseWriter, r *http.Request) {
	var in logbook.InspectInput
	if !decode(w, r, &in) {
		return
	}
	rec, err := h.svc.Inspect(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) listInspections(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeOf(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recs, err := h.svc.Inspections(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []model.Inspection{}
	}
	writeJSON(w, http.StatusOK, recs)
}

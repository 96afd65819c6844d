package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/job"
	"github.com/torkay/prospect-command-center/internal/store"
)

type JobsHandler struct {
	Jobs *job.Manager
}

// Create submits a new search. Validation failures come back as 400 before
// any discovery call is made.
func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req domain.SearchRequest
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	j, err := h.Jobs.Submit(req)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	WriteJSON(w, http.StatusAccepted, j.Snapshot())
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Jobs.List())
}

// Route dispatches /jobs/{id} and its sub-resources.
func (h JobsHandler) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "missing job id")
		return
	}

	j, ok := h.Jobs.Get(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	}

	switch sub {
	case "":
		requireMethod(w, r, http.MethodGet, func() {
			writeJSON(w, j.Snapshot())
		})
	case "results":
		requireMethod(w, r, http.MethodGet, func() {
			h.results(w, r, j)
		})
	case "events":
		requireMethod(w, r, http.MethodGet, func() {
			serveEventsSince(w, r, j)
		})
	case "stream":
		requireMethod(w, r, http.MethodGet, func() {
			serveEventStream(w, r, j)
		})
	case "cancel":
		requireMethod(w, r, http.MethodPost, func() {
			if !j.Cancel() {
				WriteError(w, r, http.StatusConflict, "already_finished", "job already finished")
				return
			}
			writeJSON(w, map[string]any{"ok": true, "id": j.ID})
		})
	case "export.csv":
		requireMethod(w, r, http.MethodGet, func() {
			h.exportCSV(w, r, j)
		})
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown resource")
	}
}

// results distinguishes "complete with results" from every other state; a
// caller never mistakes a partial run for a finished one.
func (h JobsHandler) results(w http.ResponseWriter, r *http.Request, j *job.Job) {
	snap := j.Snapshot()
	if snap.State != job.StateComplete {
		WriteError(w, r, http.StatusConflict, "not_complete",
			fmt.Sprintf("job is %s, results exist only for complete jobs", snap.State))
		return
	}
	prospects, summary := j.Results()
	writeJSON(w, map[string]any{
		"job_id":    j.ID,
		"summary":   summary,
		"prospects": prospects,
	})
}

func (h JobsHandler) exportCSV(w http.ResponseWriter, r *http.Request, j *job.Job) {
	snap := j.Snapshot()
	if snap.State != job.StateComplete {
		WriteError(w, r, http.StatusConflict, "not_complete", "export exists only for complete jobs")
		return
	}
	prospects, _ := j.Results()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "prospects-"+j.ID+".csv"))
	if err := store.WriteProspectsCSV(w, prospects); err != nil {
		// headers are out; just log via the access layer's status
		return
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string, h func()) {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h()
}

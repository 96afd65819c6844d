package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/torkay/prospect-command-center/internal/store"
)

// HistoryHandler serves completed searches out of the archive, long after
// their jobs are gone from memory.
type HistoryHandler struct {
	DB *store.DB
}

func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}
	searches, err := h.DB.ListSearches(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, searches)
}

// Route dispatches /searches/{id} and its sub-resources.
func (h HistoryHandler) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/searches/")
	idStr, sub, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid search id")
		return
	}

	switch sub {
	case "results":
		requireMethod(w, r, http.MethodGet, func() {
			prospects, err := h.DB.GetSearchProspects(r.Context(), id)
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
				return
			}
			if prospects == nil {
				WriteError(w, r, http.StatusNotFound, "not_found", "no such search")
				return
			}
			writeJSON(w, map[string]any{"search_id": id, "prospects": prospects})
		})
	case "export.csv":
		requireMethod(w, r, http.MethodGet, func() {
			prospects, err := h.DB.GetSearchProspects(r.Context(), id)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
				return
			}
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("search-%d.csv", id)))
			_ = store.WriteProspectsCSV(w, prospects)
		})
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "unknown resource")
	}
}

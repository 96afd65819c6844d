package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/torkay/prospect-command-center/internal/events"
	"github.com/torkay/prospect-command-center/internal/job"
)

// serveEventsSince is the poll transport: every event with seq > since, as a
// JSON array. A client resumes by passing the last seq it saw.
func serveEventsSince(w http.ResponseWriter, r *http.Request, j *job.Job) {
	since := 0
	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_since", "since must be a non-negative integer")
			return
		}
		since = n
	}

	evs := j.Log().Since(since)
	writeJSON(w, map[string]any{
		"job_id": j.ID,
		"state":  j.State(),
		"events": evs,
	})
}

// serveEventStream is the push transport: an SSE tail of the job's event
// log. The full log is replayed first, so a late subscriber sees the same
// sequence a poller would.
func serveEventStream(w http.ResponseWriter, r *http.Request, j *job.Job) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	ch, replay := j.Log().Subscribe()
	defer j.Log().Unsubscribe(ch)

	for _, ev := range replay {
		writeSSE(w, ev)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev events.Event) {
	b, _ := json.Marshal(ev)
	fmt.Fprintf(w, "id: %d\nevent: message\ndata: %s\n\n", ev.Seq, b)
}

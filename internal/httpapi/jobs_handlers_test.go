package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/enrich"
	"github.com/torkay/prospect-command-center/internal/job"
	"github.com/torkay/prospect-command-center/internal/score"
)

type fakeProvider struct{ results domain.ChannelResults }

func (p fakeProvider) Search(ctx context.Context, businessType, location string, limit int) (domain.ChannelResults, error) {
	return p.results, nil
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(ctx context.Context, rawURL string) (enrich.Page, error) {
	return enrich.Page{StatusCode: 200, Body: []byte("<html><body>ok</body></html>")}, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *job.Manager) {
	t.Helper()
	results := domain.ChannelResults{
		Maps: []domain.RawListing{
			{Channel: domain.ChannelMaps, Position: 1, Name: "Acme Plumbing", Phone: "0299990001", Website: "https://acme.com.au"},
		},
	}
	mgr := job.NewManager(&job.Runner{
		Provider: fakeProvider{results: results},
		Pool:     enrich.NewPool(fakeFetcher{}),
		Weights:  score.DefaultWeights(),
	})
	return NewMux(Deps{Jobs: mgr}), mgr
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func submitAndWait(t *testing.T, mux *http.ServeMux, mgr *job.Manager) job.Snapshot {
	t.Helper()
	rec := do(mux, http.MethodPost, "/search", `{"business_type":"plumber","location":"Sydney"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var snap job.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotEmpty(t, snap.ID)

	j, ok := mgr.Get(snap.ID)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return j.State() == job.StateComplete
	}, 3*time.Second, 5*time.Millisecond)
	return j.Snapshot()
}

func TestCreateSearch(t *testing.T) {
	mux, mgr := newTestMux(t)

	t.Run("accepted", func(t *testing.T) {
		snap := submitAndWait(t, mux, mgr)
		assert.Equal(t, job.StateComplete, snap.State)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/search", `{"business_type":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_json")
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/search", `{"business_type":"plumber","location":"Sydney","bogus":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing location", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/search", `{"business_type":"plumber"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_request")
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestJobRoutes(t *testing.T) {
	mux, mgr := newTestMux(t)
	snap := submitAndWait(t, mux, mgr)

	t.Run("list includes the job", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), snap.ID)
	})

	t.Run("snapshot by id", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got job.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, job.StateComplete, got.State)
		assert.NotNil(t, got.Summary)
	})

	t.Run("results for complete job", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID+"/results", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Prospects []domain.Prospect `json:"prospects"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Prospects, 1)
		assert.Equal(t, "Acme Plumbing", got.Prospects[0].Candidate.Name)
	})

	t.Run("csv export", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID+"/export.csv", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Body.String(), "Acme Plumbing")
	})

	t.Run("events since", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID+"/events", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			State  job.State         `json:"state"`
			Events []json.RawMessage `json:"events"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, job.StateComplete, got.State)
		require.NotEmpty(t, got.Events)

		// resuming past the end yields an empty slice, not an error
		rec = do(mux, http.MethodGet, "/jobs/"+snap.ID+"/events?since=9999", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad since param", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID+"/events?since=abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_since")
	})

	t.Run("cancel after completion conflicts", func(t *testing.T) {
		rec := do(mux, http.MethodPost, "/jobs/"+snap.ID+"/cancel", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already_finished")
	})

	t.Run("unknown job", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown sub-resource", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/jobs/"+snap.ID+"/frobnicate", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResultsRequireCompletion(t *testing.T) {
	// a provider that never returns keeps the job in flight
	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })

	mgr := job.NewManager(&job.Runner{
		Provider: blockingProvider{ch: blocked},
		Pool:     enrich.NewPool(fakeFetcher{}),
		Weights:  score.DefaultWeights(),
	})
	mux := NewMux(Deps{Jobs: mgr})

	rec := do(mux, http.MethodPost, "/search", `{"business_type":"plumber","location":"Sydney"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var snap job.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	rec = do(mux, http.MethodGet, "/jobs/"+snap.ID+"/results", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_complete")
}

type blockingProvider struct{ ch chan struct{} }

func (p blockingProvider) Search(ctx context.Context, businessType, location string, limit int) (domain.ChannelResults, error) {
	select {
	case <-p.ch:
	case <-ctx.Done():
	}
	return domain.ChannelResults{}, ctx.Err()
}

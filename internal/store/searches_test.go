package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/job"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func sampleSnapshot(jobID string) job.Snapshot {
	created := time.Now().UTC().Add(-time.Minute)
	finished := time.Now().UTC()
	return job.Snapshot{
		ID: jobID,
		Request: domain.SearchRequest{
			BusinessType: "plumber",
			Location:     "Sydney",
		},
		State:      job.StateComplete,
		CreatedAt:  created,
		FinishedAt: &finished,
	}
}

func sampleProspects() []domain.Prospect {
	return []domain.Prospect{
		{
			Candidate: domain.Candidate{
				ID: "aaaa000011112222", Name: "Acme Plumbing",
				Domain: "acme.com.au", Website: "https://acme.com.au", Phone: "+61299990001",
			},
			Enrichment: domain.EnrichmentResult{CandidateID: "aaaa000011112222", Outcome: domain.FetchOK},
			Scores:     domain.ScoreBreakdown{Fit: 70, Opportunity: 40, Priority: 52},
		},
		{
			Candidate: domain.Candidate{
				ID: "bbbb000011112222", Name: "Pipe Masters",
			},
			Enrichment: domain.EnrichmentResult{CandidateID: "bbbb000011112222", Outcome: domain.FetchUnreachable},
			Scores:     domain.ScoreBreakdown{Fit: 30, Opportunity: 80, Priority: 60},
		},
	}
}

func TestArchiveSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ArchiveSearch(ctx, sampleSnapshot("job-1"), sampleProspects()))

	s, err := db.GetSearchByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "plumber", s.BusinessType)
	assert.Equal(t, 2, s.ProspectCount)
	assert.InDelta(t, 50.0, s.AvgFit, 0.001)
	assert.InDelta(t, 60.0, s.AvgOpp, 0.001)

	t.Run("re-archiving the same job is a no-op", func(t *testing.T) {
		require.NoError(t, db.ArchiveSearch(ctx, sampleSnapshot("job-1"), sampleProspects()))

		list, err := db.ListSearches(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		prospects, err := db.GetSearchProspects(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, prospects, 2)
	})

	t.Run("payload replays the full prospect", func(t *testing.T) {
		prospects, err := db.GetSearchProspects(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, prospects, 2)

		assert.Equal(t, "Acme Plumbing", prospects[0].Candidate.Name)
		assert.Equal(t, domain.FetchOK, prospects[0].Enrichment.Outcome)
		assert.Equal(t, 70, prospects[0].Scores.Fit)
		assert.Equal(t, "Pipe Masters", prospects[1].Candidate.Name)
	})

	t.Run("unknown job id", func(t *testing.T) {
		_, err := db.GetSearchByJobID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListSearchesOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	older := sampleSnapshot("job-old")
	older.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, db.ArchiveSearch(ctx, older, nil))
	require.NoError(t, db.ArchiveSearch(ctx, sampleSnapshot("job-new"), nil))

	list, err := db.ListSearches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "job-new", list[0].JobID)
	assert.Equal(t, "job-old", list[1].JobID)

	t.Run("limit applies", func(t *testing.T) {
		list, err := db.ListSearches(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestCleanupOldSearches(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := sampleSnapshot("job-old")
	old.CreatedAt = time.Now().UTC().AddDate(0, 0, -120)
	require.NoError(t, db.ArchiveSearch(ctx, old, sampleProspects()))
	require.NoError(t, db.ArchiveSearch(ctx, sampleSnapshot("job-new"), sampleProspects()))

	deleted, err := CleanupOldSearches(db.Pool, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, err := db.ListSearches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "job-new", list[0].JobID)

	_, err = db.GetSearchByJobID(ctx, "job-old")
	assert.ErrorIs(t, err, ErrNotFound)
}

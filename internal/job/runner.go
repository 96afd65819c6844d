package job

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/torkay/prospect-command-center/internal/dedupe"
	"github.com/torkay/prospect-command-center/internal/discovery"
	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/enrich"
	"github.com/torkay/prospect-command-center/internal/score"
)

const (
	// DefaultJobTimeout bounds discovery + enrichment end to end.
	DefaultJobTimeout = 5 * time.Minute
	// DefaultEnrichDeadline bounds the enrichment phase alone; units that
	// miss it settle as unknown and scoring proceeds.
	DefaultEnrichDeadline = 2 * time.Minute
)

// Error codes carried by a failed job.
const (
	ErrCodeRateLimited = "rate_limited"
	ErrCodeUnauth      = "unauthenticated"
	ErrCodeUpstream    = "upstream_unavailable"
	ErrCodeTimeout     = "timeout"
	ErrCodeInternal    = "internal"
)

// Archiver persists a completed search. Failure to archive is logged, never
// fatal to the job.
type Archiver interface {
	ArchiveSearch(ctx context.Context, snap Snapshot, prospects []domain.Prospect) error
}

// Runner drives one job through the pipeline. Stateless across jobs; all
// per-job state lives on the Job.
type Runner struct {
	Provider discovery.Provider
	Pool     *enrich.Pool
	Weights  score.Weights
	// WeightsFn, when set, resolves weights per job so config reloads take
	// effect without a restart. A job uses one snapshot end to end.
	WeightsFn func() score.Weights
	Archive   Archiver

	JobTimeout     time.Duration
	EnrichDeadline time.Duration
}

func (r *Runner) weights() score.Weights {
	if r.WeightsFn != nil {
		return r.WeightsFn()
	}
	return r.Weights
}

// Run executes the full pipeline for j. It always leaves j in a terminal
// state.
func (r *Runner) Run(ctx context.Context, j *Job) {
	jobTimeout := r.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[job] %s panicked: %v", j.ID, rec)
			j.fail(ErrCodeInternal, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	req := j.Request
	weights := r.weights()

	// Discovery.
	j.setState(StateSearching, fmt.Sprintf("searching %q in %q", req.BusinessType, req.Location))
	results, err := r.Provider.Search(ctx, req.BusinessType, req.Location, req.ResultLimit)
	if err != nil {
		r.finishErr(j, err)
		return
	}

	candidates := dedupe.Merge(results, req.ResultLimit)
	log.Printf("[job] %s: %d candidates after dedupe", j.ID, len(candidates))

	// Enrichment.
	var enriched []domain.EnrichmentResult
	if req.SkipEnrichment {
		j.setTotal(0)
		enriched = synthesizeUnknown(candidates)
	} else {
		j.setTotal(len(candidates))
		j.setState(StateEnriching, fmt.Sprintf("enriching %d candidates", len(candidates)))

		deadline := r.EnrichDeadline
		if deadline <= 0 {
			deadline = DefaultEnrichDeadline
		}
		ectx, ecancel := context.WithTimeout(ctx, deadline)
		enriched, err = r.Pool.Run(ectx, candidates, req.EnrichmentConcurrency, func(completed int, res domain.EnrichmentResult) {
			j.unitDone(completed, fmt.Sprintf("enriched %s (%s)", res.CandidateID, res.Outcome))
		})
		ecancel()

		if err != nil {
			switch {
			case j.cancelRequested():
				j.setState(StateCancelled, "cancelled")
				return
			case ctx.Err() != nil:
				// The overall job budget ran out, not just the phase's.
				j.fail(ErrCodeTimeout, "job timed out during enrichment")
				return
			}
			// Phase deadline alone: settle the stragglers as unknown and
			// keep going.
			log.Printf("[job] %s: enrichment deadline hit, scoring with partial signals", j.ID)
		}
		enriched = fillUnsettled(candidates, enriched)
	}

	if j.cancelRequested() {
		j.setState(StateCancelled, "cancelled")
		return
	}

	// Scoring. Pure and cheap; runs after every unit has settled.
	j.setState(StateScoring, fmt.Sprintf("scoring %d candidates", len(candidates)))
	prospects := make([]domain.Prospect, 0, len(candidates))
	for i, cand := range candidates {
		e := enriched[i]
		p := domain.Prospect{
			Candidate:  cand,
			Enrichment: e,
			Scores:     score.Score(cand, e, weights),
		}
		if req.Filters.Keep(p) {
			prospects = append(prospects, p)
		}
	}

	j.complete(prospects, domain.Summarize(prospects))

	if r.Archive != nil {
		// Archival happens after completion on a fresh context; the job's
		// own deadline no longer applies.
		actx, acancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer acancel()
		if err := r.Archive.ArchiveSearch(actx, j.Snapshot(), prospects); err != nil {
			log.Printf("[job] %s: archive failed: %v", j.ID, err)
		}
	}
}

func (r *Runner) finishErr(j *Job, err error) {
	if j.cancelRequested() {
		j.setState(StateCancelled, "cancelled")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		j.fail(ErrCodeTimeout, "job timed out during discovery")
		return
	}
	switch discovery.Kind(err) {
	case discovery.KindRateLimited:
		j.fail(ErrCodeRateLimited, err.Error())
	case discovery.KindUnauthenticated:
		j.fail(ErrCodeUnauth, err.Error())
	case discovery.KindUpstreamUnavailable:
		j.fail(ErrCodeUpstream, err.Error())
	default:
		j.fail(ErrCodeInternal, err.Error())
	}
}

// synthesizeUnknown produces the all-unknown results a skip_enrichment job
// scores against.
func synthesizeUnknown(candidates []domain.Candidate) []domain.EnrichmentResult {
	out := make([]domain.EnrichmentResult, len(candidates))
	for i, c := range candidates {
		out[i] = domain.Unknown(c.ID, domain.FetchUnreachable)
	}
	return out
}

// fillUnsettled backfills units the pool never reached (phase deadline) with
// timeout results so scoring sees a settled value for every candidate.
func fillUnsettled(candidates []domain.Candidate, results []domain.EnrichmentResult) []domain.EnrichmentResult {
	for i := range results {
		if results[i].CandidateID == "" {
			results[i] = domain.Unknown(candidates[i].ID, domain.FetchTimeout)
		}
	}
	return results
}

package enrich

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// DefaultFetchTimeout bounds one website fetch; a slow site degrades its own
// result, never the phase.
const DefaultFetchTimeout = 10 * time.Second

// Pool runs enrichment units under a bounded concurrency limit. The limit is
// per Run call, so each job gets its own bound.
type Pool struct {
	Fetcher      Fetcher
	FetchTimeout time.Duration
}

func NewPool(f Fetcher) *Pool {
	return &Pool{Fetcher: f, FetchTimeout: DefaultFetchTimeout}
}

// Run enriches every candidate and returns results in candidate order.
// Candidates without a website short-circuit to an all-unknown unreachable
// result without consuming a worker slot. onDone, when set, is called once
// per settled unit in completion order with the running completed count.
//
// A unit failure never fails the run; the only error returned is the
// context's, when cancellation stopped units from being scheduled.
func (p *Pool) Run(ctx context.Context, candidates []domain.Candidate, concurrency int, onDone func(completed int, res domain.EnrichmentResult)) ([]domain.EnrichmentResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > domain.MaxConcurrency {
		concurrency = domain.MaxConcurrency
	}

	results := make([]domain.EnrichmentResult, len(candidates))

	var mu sync.Mutex
	completed := 0
	settle := func(i int, res domain.EnrichmentResult) {
		mu.Lock()
		results[i] = res
		completed++
		done := completed
		mu.Unlock()
		if onDone != nil {
			onDone(done, res)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, cand := range candidates {
		if cand.Website == "" {
			settle(i, domain.Unknown(cand.ID, domain.FetchUnreachable))
			continue
		}
		if gctx.Err() != nil {
			break
		}
		i, cand := i, cand
		g.Go(func() error {
			if gctx.Err() != nil {
				// Cancelled while queued; the caller decides how an
				// unsettled unit reads.
				return nil
			}
			settle(i, p.enrichOne(gctx, cand))
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}

func (p *Pool) enrichOne(ctx context.Context, cand domain.Candidate) domain.EnrichmentResult {
	timeout := p.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := p.Fetcher.Fetch(fctx, cand.Website)
	if err != nil {
		outcome := domain.FetchUnreachable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fctx.Err(), context.DeadlineExceeded) {
			outcome = domain.FetchTimeout
		}
		log.Printf("[enrich] fetch failed url=%s outcome=%s err=%v", cand.Website, outcome, err)
		return domain.Unknown(cand.ID, outcome)
	}

	switch {
	case page.StatusCode == 200:
		return Analyze(cand.ID, page)
	case page.StatusCode == 403 || page.StatusCode == 429:
		return domain.Unknown(cand.ID, domain.FetchBlocked)
	default:
		log.Printf("[enrich] fetch status=%d url=%s", page.StatusCode, cand.Website)
		return domain.Unknown(cand.ID, domain.FetchUnreachable)
	}
}

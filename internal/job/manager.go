package job

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// Manager owns the in-memory job table. Jobs run independently; the manager
// only creates, indexes and cancels them.
type Manager struct {
	runner *Runner

	mu   sync.Mutex
	jobs map[string]*Job
}

func NewManager(r *Runner) *Manager {
	return &Manager{runner: r, jobs: make(map[string]*Job)}
}

// Submit validates the request, creates the job and starts its runner.
// Validation failures happen here, before any external call.
func (m *Manager) Submit(req domain.SearchRequest) (*Job, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := m.runner.weights().Validate(); err != nil {
		return nil, err
	}

	j := newJob(req)
	ctx, cancel := context.WithCancel(context.Background())
	j.cancelFn = cancel

	m.mu.Lock()
	m.jobs[j.ID] = j
	m.mu.Unlock()

	go func() {
		defer cancel()
		m.runner.Run(ctx, j)
	}()
	return j, nil
}

func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	return j, ok
}

// Cancel requests cancellation of a running job. Returns false when the job
// is unknown or already terminal.
func (m *Manager) Cancel(id string) bool {
	j, ok := m.Get(id)
	if !ok {
		return false
	}
	return j.Cancel()
}

// List returns snapshots of every known job, newest first.
func (m *Manager) List() []Snapshot {
	m.mu.Lock()
	jobs := make([]*Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	m.mu.Unlock()

	out := make([]Snapshot, len(jobs))
	for i, j := range jobs {
		out[i] = j.Snapshot()
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

// Sweep drops terminal jobs older than maxAge from the table. Completed
// searches live on in the store; this only bounds process memory.
func (m *Manager) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, j := range m.jobs {
		snap := j.Snapshot()
		if snap.State.Terminal() && snap.FinishedAt != nil && snap.FinishedAt.Before(cutoff) {
			delete(m.jobs, id)
			n++
		}
	}
	return n
}

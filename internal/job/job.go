package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/events"
)

// State is a job's position in the pipeline. complete, error and cancelled
// are terminal.
type State string

const (
	StatePending   State = "pending"
	StateSearching State = "searching"
	StateEnriching State = "enriching"
	StateScoring   State = "scoring"
	StateComplete  State = "complete"
	StateError     State = "error"
	StateCancelled State = "cancelled"
)

func (s State) Terminal() bool {
	return s == StateComplete || s == StateError || s == StateCancelled
}

// Progress is the counters attached to every emitted event. Total is fixed
// once dedupe settles the candidate set; Completed never decreases.
type Progress struct {
	Phase     string `json:"phase"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
}

// Snapshot is the poll view of a job.
type Snapshot struct {
	ID         string               `json:"id"`
	Request    domain.SearchRequest `json:"request"`
	State      State                `json:"state"`
	Progress   Progress             `json:"progress"`
	CreatedAt  time.Time            `json:"created_at"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
	ErrorCode  string               `json:"error_code,omitempty"`
	ErrorMsg   string               `json:"error_message,omitempty"`
	Summary    *domain.Summary      `json:"summary,omitempty"`
}

// Job is one SearchRequest in flight. All mutation goes through its runner;
// everything else reads snapshots.
type Job struct {
	ID        string
	Request   domain.SearchRequest
	CreatedAt time.Time

	log *events.Log

	mu         sync.Mutex
	state      State
	progress   Progress
	prospects  []domain.Prospect
	summary    domain.Summary
	errCode    string
	errMsg     string
	startedAt  time.Time
	finishedAt time.Time

	cancelOnce sync.Once
	cancelFn   context.CancelFunc
	cancelReq  bool
}

func newJob(req domain.SearchRequest) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Request:   req,
		CreatedAt: time.Now().UTC(),
		log:       events.NewLog(),
		state:     StatePending,
		progress:  Progress{Phase: string(StatePending)},
	}
}

// Log exposes the append-only event stream for push and poll transports.
func (j *Job) Log() *events.Log { return j.log }

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Cancel requests cancellation. Safe to call in any state; a terminal job is
// unaffected. Returns whether the request landed on a running job.
func (j *Job) Cancel() bool {
	j.mu.Lock()
	if j.state.Terminal() {
		j.mu.Unlock()
		return false
	}
	j.cancelReq = true
	j.mu.Unlock()

	j.cancelOnce.Do(func() {
		if j.cancelFn != nil {
			j.cancelFn()
		}
	})
	return true
}

func (j *Job) cancelRequested() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelReq
}

// Results returns the final prospect list; nil until the job completes.
func (j *Job) Results() ([]domain.Prospect, domain.Summary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateComplete {
		return nil, domain.Summary{}
	}
	out := make([]domain.Prospect, len(j.prospects))
	copy(out, j.prospects)
	return out, j.summary
}

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Snapshot{
		ID:        j.ID,
		Request:   j.Request,
		State:     j.state,
		Progress:  j.progress,
		CreatedAt: j.CreatedAt,
		ErrorCode: j.errCode,
		ErrorMsg:  j.errMsg,
	}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		s.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		s.FinishedAt = &t
	}
	if j.state == StateComplete {
		sum := j.summary
		s.Summary = &sum
	}
	return s
}

// setState moves the job forward and emits a phase event. Transitions out of
// a terminal state are ignored, which makes late runner writes after a
// cancellation harmless. The append happens under j.mu so the log order
// matches the state order; the log's own lock is independent and never
// takes j.mu.
func (j *Job) setState(s State, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	j.state = s
	j.progress.Phase = string(s)
	j.progress.Message = msg
	if s == StateSearching && j.startedAt.IsZero() {
		j.startedAt = time.Now().UTC()
	}
	if s.Terminal() {
		j.finishedAt = time.Now().UTC()
	}

	typ := events.TypePhase
	switch s {
	case StateComplete:
		typ = events.TypeComplete
	case StateError:
		typ = events.TypeError
	case StateCancelled:
		typ = events.TypeCancel
	}
	j.log.Append(events.Make(j.ID, typ, j.progress))
}

// setTotal fixes the enrichment unit count once the candidate set is known.
func (j *Job) setTotal(n int) {
	j.mu.Lock()
	j.progress.Total = n
	j.mu.Unlock()
}

// unitDone records one settled enrichment unit. Workers report counts
// concurrently and may race each other here; Completed only moves forward,
// and appending under j.mu keeps the logged counts non-decreasing.
func (j *Job) unitDone(completed int, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return
	}
	if completed > j.progress.Completed {
		j.progress.Completed = completed
	}
	j.progress.Message = msg
	j.log.Append(events.Make(j.ID, events.TypeProgress, j.progress))
}

func (j *Job) complete(prospects []domain.Prospect, summary domain.Summary) {
	j.mu.Lock()
	if j.state.Terminal() {
		j.mu.Unlock()
		return
	}
	j.prospects = prospects
	j.summary = summary
	j.mu.Unlock()

	j.setState(StateComplete, "done")
}

func (j *Job) fail(code, msg string) {
	j.mu.Lock()
	if j.state.Terminal() {
		j.mu.Unlock()
		return
	}
	j.errCode = code
	j.errMsg = msg
	j.mu.Unlock()

	j.setState(StateError, msg)
}

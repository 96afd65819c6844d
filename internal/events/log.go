package events

import "sync"

// Log is a per-job append-only event log. Poll consumers read Since(n);
// stream consumers Subscribe and get every prior event replayed before
// live delivery, so both views agree on seq numbers.
type Log struct {
	mu     sync.Mutex
	events []Event
	subs   map[chan Event]struct{}
}

func NewLog() *Log {
	return &Log{subs: make(map[chan Event]struct{})}
}

// Append assigns the next seq, stores the event and fans it out. Returns the
// event as stored.
func (l *Log) Append(e Event) Event {
	l.mu.Lock()
	e.Seq = len(l.events) + 1
	l.events = append(l.events, e)
	for ch := range l.subs {
		select {
		case ch <- e:
		default:
			// drop if slow; the client sees the seq gap and re-polls
		}
	}
	l.mu.Unlock()
	return e
}

// Since returns a copy of every event with seq greater than n.
func (l *Log) Since(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(l.events) {
		return nil
	}
	out := make([]Event, len(l.events)-n)
	copy(out, l.events[n:])
	return out
}

// Subscribe registers a live channel and returns it along with a replay of
// everything already logged. The replay is captured under the same lock as
// the registration, so no event is missed or duplicated across the seam.
func (l *Log) Subscribe() (chan Event, []Event) {
	ch := make(chan Event, 64)
	l.mu.Lock()
	replay := make([]Event, len(l.events))
	copy(replay, l.events)
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch, replay
}

func (l *Log) Unsubscribe(ch chan Event) {
	l.mu.Lock()
	if _, ok := l.subs[ch]; ok {
		delete(l.subs, ch)
		close(ch)
	}
	l.mu.Unlock()
}

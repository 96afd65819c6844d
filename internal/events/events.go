package events

import (
	"encoding/json"
	"time"
)

// Event types emitted over a job's lifetime.
const (
	TypePhase    = "phase"
	TypeProgress = "progress"
	TypeComplete = "complete"
	TypeError    = "error"
	TypeCancel   = "cancelled"
)

// Event is one entry in a job's log. Seq is assigned by the log on append,
// starts at 1 and never repeats within a job.
type Event struct {
	Seq   int             `json:"seq"`
	JobID string          `json:"job_id"`
	Type  string          `json:"type"`
	At    time.Time       `json:"at"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Make builds an unsequenced event; Log.Append assigns the seq.
func Make(jobID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		JobID: jobID,
		Type:  typ,
		At:    time.Now().UTC(),
		Data:  raw,
	}
}

package job

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// Pool workers call unitDone concurrently, so completion reports can arrive
// with their counts inverted. The logged counts must still never decrease.
func TestUnitDoneConcurrent(t *testing.T) {
	const units = 64

	j := newJob(domain.SearchRequest{BusinessType: "plumber", Location: "Sydney"}.Normalize())
	j.setState(StateEnriching, "enriching")
	j.setTotal(units)

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < units; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.unitDone(int(count.Add(1)), "settled")
		}()
	}
	wg.Wait()

	last := 0
	for _, ev := range j.Log().Since(0) {
		var p Progress
		require.NoError(t, json.Unmarshal(ev.Data, &p))
		assert.GreaterOrEqual(t, p.Completed, last, "seq %d", ev.Seq)
		last = p.Completed
	}
	assert.Equal(t, units, last)
}

func TestSetStateIgnoresTerminalTransitions(t *testing.T) {
	j := newJob(domain.SearchRequest{BusinessType: "plumber", Location: "Sydney"}.Normalize())
	j.setState(StateSearching, "searching")
	j.setState(StateCancelled, "cancelled")

	before := len(j.Log().Since(0))
	j.setState(StateComplete, "done")
	j.unitDone(1, "late worker")

	assert.Equal(t, StateCancelled, j.State())
	assert.Len(t, j.Log().Since(0), before)
}

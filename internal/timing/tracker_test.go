package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(steps ...time.Duration) func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	var elapsed time.Duration
	return func() time.Time {
		if i < len(steps) {
			elapsed += steps[i]
			i++
		}
		return base.Add(elapsed)
	}
}

func TestTracker_RecordsStats(t *testing.T) {
	tt := NewTracker()
	// start, stop pairs: 10ms then 30ms
	tt.now = fakeClock(0, 10*time.Millisecond, 0, 30*time.Millisecond)

	assert.Equal(t, 10*time.Millisecond, tt.Start("load")())
	assert.Equal(t, 30*time.Millisecond, tt.Start("load")())

	s := tt.Get("load")
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 40*time.Millisecond, s.Total)
	assert.Equal(t, 30*time.Millisecond, s.Max)
	assert.Equal(t, 20*time.Millisecond, s.Average())
}

func TestTracker_AllSortedAndReset(t *testing.T) {
	tt := NewTracker()
	tt.Start("save")()
	tt.Start("load")()

	all := tt.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "load", all[0].Operation)
	assert.Equal(t, "save", all[1].Operation)

	tt.Reset("load")
	assert.Zero(t, tt.Get("load").Count)
	assert.Equal(t, 1, tt.Get("save").Count)

	tt.Reset("")
	assert.Empty(t, tt.All())
}

func TestTracker_Disabled(t *testing.T) {
	tt := NewTracker()
	tt.SetEnabled(false)
	tt.Start("load")()

	assert.Zero(t, tt.Get("load").Count)
	assert.Zero(t, tt.Get("load").Average())
}

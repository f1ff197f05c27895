// Package timing records how long named operations take.
package timing

import (
	"sort"
	"sync"
	"time"
)

// Stats summarises the recorded durations of one operation
type Stats struct {
	Operation string
	Count     int
	Total     time.Duration
	Max       time.Duration
}

// Average returns the mean duration, or zero when nothing was recorded
func (s Stats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

type Tracker struct {
	mu      sync.RWMutex
	stats   map[string]*Stats
	enabled bool
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		stats:   make(map[string]*Stats),
		enabled: true,
		now:     time.Now,
	}
}

// Start begins timing operation. The returned function stops the clock,
// records the duration and returns it.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := tt.now()

	return func() time.Duration {
		duration := tt.now().Sub(start)
		tt.record(operation, duration)
		return duration
	}
}

func (tt *Tracker) record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if !tt.enabled {
		return
	}

	s, ok := tt.stats[operation]
	if !ok {
		s = &Stats{Operation: operation}
		tt.stats[operation] = s
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Get returns the stats of one operation
func (tt *Tracker) Get(operation string) Stats {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	if s, ok := tt.stats[operation]; ok {
		return *s
	}
	return Stats{Operation: operation}
}

// All returns the stats of every operation, sorted by name
func (tt *Tracker) All() []Stats {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	result := make([]Stats, 0, len(tt.stats))
	for _, s := range tt.stats {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Operation < result[j].Operation
	})
	return result
}

func (tt *Tracker) SetEnabled(enabled bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.enabled = enabled
}

// Reset clears one operation, or everything when operation is empty
func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.stats = make(map[string]*Stats)
	} else {
		delete(tt.stats, operation)
	}
}

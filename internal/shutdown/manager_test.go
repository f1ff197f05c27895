package shutdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdown_RunsHooksNewestFirst(t *testing.T) {
	m := NewManager(nil)
	var order []string
	m.Register("first", Func(func() { order = append(order, "first") }))
	m.Register("second", Func(func() { order = append(order, "second") }))

	m.Shutdown()

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdown_RunsOnce(t *testing.T) {
	m := NewManager(nil)
	calls := 0
	m.Register("counter", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
}

func TestShutdown_SlowHookTimesOut(t *testing.T) {
	m := NewManager(nil)
	m.SetTimeout(20 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	ran := false
	m.Register("fast", Func(func() { ran = true }))
	m.Register("slow", Func(func() { <-block }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, ran)
	assert.Less(t, time.Since(start), 2*time.Second)
}

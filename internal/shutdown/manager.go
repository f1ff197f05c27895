package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"csvedit/internal/logger"
)

const (
	component             = "ShutdownManager"
	defaultHandlerTimeout = 10 * time.Second
)

type Shutdownable interface {
	Shutdown()
}

// Func adapts a plain function to Shutdownable
type Func func()

func (f Func) Shutdown() {
	f()
}

type registration struct {
	name   string
	target Shutdownable
}

// Manager runs registered shutdown hooks once, newest first, when a signal
// arrives or Shutdown is called.
type Manager struct {
	logger  logger.Logger
	timeout time.Duration

	mu    sync.Mutex
	hooks []registration

	once   sync.Once
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	stop   func()
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		logger:  log,
		timeout: defaultHandlerTimeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetTimeout bounds how long a single hook may run
func (m *Manager) SetTimeout(d time.Duration) {
	if d > 0 {
		m.timeout = d
	}
}

func (m *Manager) Register(name string, target Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = append(m.hooks, registration{name: name, target: target})
}

// Listen starts shutdown on SIGINT or SIGTERM.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	m.stop = func() { signal.Stop(sigChan) }

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info(component, "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

func (m *Manager) Shutdown() {
	m.once.Do(m.run)
}

func (m *Manager) run() {
	close(m.done)
	if m.stop != nil {
		m.stop()
	}

	m.mu.Lock()
	hooks := append([]registration(nil), m.hooks...)
	m.mu.Unlock()

	m.logger.Info(component, "shutdown sequence initiated", map[string]interface{}{
		"components": len(hooks),
	})

	m.cancel()

	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			hook.target.Shutdown()
		}()

		select {
		case <-finished:
		case <-time.After(m.timeout):
			m.logger.Warning(component, "component shutdown timeout", map[string]interface{}{
				"component": hook.name,
			})
		}
	}

	m.logger.Info(component, "shutdown sequence completed", nil)
}

// Context is cancelled when shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}

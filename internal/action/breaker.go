package action

import (
	"sync"
	"time"

	"piccolo/pkg/logging"

	"github.com/sony/gobreaker"
)

// breakerPool hands out one circuit breaker per node, so a node that keeps
// failing trips independently of its siblings (§4.5's per-node isolation).
type breakerPool struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func newBreakerPool() *breakerPool {
	return &breakerPool{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (p *breakerPool) forNode(node string) *gobreaker.CircuitBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cb, ok := p.breakers[node]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend/" + node,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("ActionController", "circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	p.breakers[node] = cb
	return cb
}

// call runs fn through node's breaker, mapping an open breaker into the
// BackendUnavailable kind the retry layer and caller both understand.
func (p *breakerPool) call(node string, fn func() error) error {
	_, err := p.forNode(node).Execute(func() (any, error) {
		return nil, fn()
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return newErr(ErrBackendUnavailable, "node %s: circuit breaker open: %v", node, err)
	}
	return err
}

package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned while the breaker is cooling down after repeated
// upstream failures.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

// CircuitBreaker guards calls to an external collaborator (the metadata
// resolver). It trips open after a run of consecutive failures and allows a
// single probe once the cooldown has elapsed.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	cooldown     time.Duration

	mutex    sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		maxFailures: 5,
		cooldown:    30 * time.Second,
		state:       BreakerClosed,
	}
}

// Execute runs req unless the breaker is open. A context already past its
// deadline is rejected without counting as an upstream failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func() (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cb.beforeRequest(); err != nil {
		return nil, err
	}

	result, err := req()
	cb.afterRequest(err == nil)
	return result, err
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case BreakerOpen:
		if time.Since(cb.openedAt) < cb.cooldown {
			return ErrBreakerOpen
		}
		// Cooldown elapsed: let one probe through.
		cb.state = BreakerHalfOpen
	case BreakerHalfOpen:
		return ErrBreakerOpen
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.state = BreakerClosed
		cb.failures = 0
		return
	}

	cb.failures++
	if cb.state == BreakerHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = BreakerOpen
		cb.openedAt = time.Now()
	}
}

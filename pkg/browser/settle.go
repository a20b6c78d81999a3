package browser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Settle errors.
var (
	// ErrSettleTimeout reports that the native browser never converged
	// on the requested URL within the retry bound. Fatal under strict
	// execution, logged and swallowed otherwise.
	ErrSettleTimeout = errors.New("browser: native navigation failed to settle")

	errClosed = errors.New("browser: closed")
)

const (
	defaultSettleRetries  = 45
	defaultSettleInterval = 3 * time.Millisecond
)

// settleRequest is one queued "wait for the browser to reach target"
// request.
type settleRequest struct {
	target string
	done   chan error
}

// settler serializes all browser-settle waits through one polling
// goroutine. Only one wait actively polls at a time; concurrent
// requests queue in arrival order and drain strictly FIFO. An active
// poll is never cancelled from outside — it completes or times out.
type settler struct {
	native    Native
	reqs      chan settleRequest
	retries   int
	interval  time.Duration
	onRetries func(int)
	logger    *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// newSettler starts the polling worker. onRetries, if non-nil,
// observes the retry count of every completed wait.
func newSettler(native Native, logger *slog.Logger, onRetries func(int)) *settler {
	s := &settler{
		native:    native,
		reqs:      make(chan settleRequest, 64),
		retries:   defaultSettleRetries,
		interval:  defaultSettleInterval,
		onRetries: onRetries,
		logger:    logger,
		closed:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *settler) run() {
	for {
		select {
		case req := <-s.reqs:
			req.done <- s.poll(req.target)
		case <-s.closed:
			return
		}
	}
}

// poll spins until the native URL equals target or the retry bound is
// exceeded.
func (s *settler) poll(target string) error {
	tries := 0
	for {
		if s.native.URL() == target {
			if s.onRetries != nil {
				s.onRetries(tries)
			}
			return nil
		}
		tries++
		if tries > s.retries {
			s.logger.Warn("browser settle exceeded retry bound",
				"target", target, "current", s.native.URL(), "retries", s.retries)
			return ErrSettleTimeout
		}
		select {
		case <-time.After(s.interval):
		case <-s.closed:
			return errClosed
		}
	}
}

// Wait queues a settle wait and blocks until it resolves. The context
// only bounds the enqueue: once a wait is active it always runs to
// completion (the caller may discard the result, never abort the
// poll).
func (s *settler) Wait(ctx context.Context, target string) error {
	req := settleRequest{target: target, done: make(chan error, 1)}
	select {
	case s.reqs <- req:
	case <-s.closed:
		return errClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-s.closed:
		return errClosed
	}
}

func (s *settler) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

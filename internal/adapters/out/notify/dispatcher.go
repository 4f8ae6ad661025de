// Package notify moves notification delivery off the request path.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"freight/internal/core/ports"

	"golang.org/x/sync/semaphore"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxInFlight = 64
)

// Dispatcher delivers notifications off the caller's goroutine. Deliveries to
// one user run one at a time in submission order, which keeps the per-user
// ordering the kafka key promises; different users are delivered in parallel.
// At most maxInFlight notifications are queued or sending at once; beyond that
// notifications are dropped and logged so that callers never block on the rail.
type Dispatcher struct {
	sender  ports.Notifier
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup

	mu     sync.Mutex
	queues map[string][]queued
}

type queued struct {
	ctx context.Context
	n   ports.Notification
}

func NewDispatcher(sender ports.Notifier, timeout time.Duration, maxInFlight int, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Dispatcher{
		sender:  sender,
		sem:     semaphore.NewWeighted(int64(maxInFlight)),
		timeout: timeout,
		logger:  logger.With("component", "NotificationDispatcher"),
		queues:  make(map[string][]queued),
	}
}

// Notify always returns nil; delivery errors are only logged.
func (d *Dispatcher) Notify(ctx context.Context, n ports.Notification) error {
	if !d.sem.TryAcquire(1) {
		d.logger.WarnContext(ctx, "notification dropped, dispatcher saturated",
			"event", n.Event, "userID", n.UserID.String())
		return nil
	}

	d.wg.Add(1)
	key := n.UserID.String()
	item := queued{ctx: context.WithoutCancel(ctx), n: n}

	d.mu.Lock()
	pending, draining := d.queues[key]
	d.queues[key] = append(pending, item)
	d.mu.Unlock()

	if !draining {
		go d.drain(key)
	}
	return nil
}

// drain sends the user's queue head first until it is empty.
func (d *Dispatcher) drain(key string) {
	for {
		d.mu.Lock()
		pending := d.queues[key]
		if len(pending) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		item := pending[0]
		d.queues[key] = pending[1:]
		d.mu.Unlock()

		d.send(item)
	}
}

func (d *Dispatcher) send(item queued) {
	defer d.wg.Done()
	defer d.sem.Release(1)

	sendCtx, cancel := context.WithTimeout(item.ctx, d.timeout)
	defer cancel()

	if err := d.sender.Notify(sendCtx, item.n); err != nil {
		d.logger.ErrorContext(sendCtx, "notification delivery failed",
			"event", item.n.Event, "userID", item.n.UserID.String(), "error", err)
	}
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

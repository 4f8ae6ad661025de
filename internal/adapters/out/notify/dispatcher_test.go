package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"freight/internal/adapters/out/notify"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	received []ports.Notification
	release  chan struct{}
	err      error
	deadline bool
}

func (s *recordingSender) Notify(ctx context.Context, n ports.Notification) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, s.deadline = ctx.Deadline()
	s.received = append(s.received, n)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// routingSender holds back one user's deliveries and lets everyone else through.
type routingSender struct {
	slow       kernel.UUID
	slowSender *recordingSender
	fast       *recordingSender
}

func (s *routingSender) Notify(ctx context.Context, n ports.Notification) error {
	if n.UserID.IsEqual(s.slow) {
		return s.slowSender.Notify(ctx, n)
	}
	return s.fast.Notify(ctx, n)
}

func notification(event string) ports.Notification {
	return ports.Notification{UserID: kernel.NewUUID(), Event: event, Payload: map[string]string{"shipmentId": "s1"}}
}

func TestDispatcher_DeliversAsynchronously(t *testing.T) {
	sender := &recordingSender{}
	d := notify.NewDispatcher(sender, time.Second, 4, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Notify(context.Background(), notification(ports.EventOfferReceived)))
	require.NoError(t, d.Wait(context.Background()))

	assert.Equal(t, 1, sender.count())
	assert.True(t, sender.deadline)
}

func TestDispatcher_SurvivesCallerCancellation(t *testing.T) {
	sender := &recordingSender{}
	d := notify.NewDispatcher(sender, time.Second, 4, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, d.Notify(ctx, notification(ports.EventOfferAccepted)))
	cancel()
	require.NoError(t, d.Wait(context.Background()))

	assert.Equal(t, 1, sender.count())
}

func TestDispatcher_KeepsPerUserOrder(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	d := notify.NewDispatcher(sender, time.Minute, 8, slog.New(slog.DiscardHandler))
	userID := kernel.NewUUID()
	events := []string{
		ports.EventOfferAccepted, ports.EventAgreementAccepted, ports.EventShipmentStatus, ports.EventWalletCredited,
	}

	for _, event := range events {
		require.NoError(t, d.Notify(context.Background(), ports.Notification{UserID: userID, Event: event}))
	}
	close(sender.release)
	require.NoError(t, d.Wait(context.Background()))

	got := make([]string, 0, len(events))
	for _, n := range sender.received {
		got = append(got, n.Event)
	}
	assert.Equal(t, events, got)
}

func TestDispatcher_DeliversUsersIndependently(t *testing.T) {
	blocked := &recordingSender{release: make(chan struct{})}
	defer close(blocked.release)
	sender := &routingSender{slow: kernel.NewUUID(), slowSender: blocked, fast: &recordingSender{}}
	d := notify.NewDispatcher(sender, time.Minute, 4, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Notify(context.Background(), ports.Notification{UserID: sender.slow, Event: ports.EventOfferReceived}))
	require.NoError(t, d.Notify(context.Background(), notification(ports.EventOfferRejected)))

	assert.Eventually(t, func() bool { return sender.fast.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDispatcher_DropsWhenSaturated(t *testing.T) {
	logs := &syncBuffer{}
	sender := &recordingSender{release: make(chan struct{})}
	d := notify.NewDispatcher(sender, time.Minute, 1, slog.New(slog.NewTextHandler(logs, nil)))

	require.NoError(t, d.Notify(context.Background(), notification(ports.EventOfferReceived)))
	require.NoError(t, d.Notify(context.Background(), notification(ports.EventOfferRejected)))
	close(sender.release)
	require.NoError(t, d.Wait(context.Background()))

	assert.Equal(t, 1, sender.count())
	assert.Contains(t, logs.String(), "dispatcher saturated")
	assert.Contains(t, logs.String(), ports.EventOfferRejected)
}

func TestDispatcher_LogsFailures(t *testing.T) {
	logs := &syncBuffer{}
	sender := &recordingSender{err: errors.New("broker unavailable")}
	d := notify.NewDispatcher(sender, time.Second, 2, slog.New(slog.NewTextHandler(logs, nil)))

	require.NoError(t, d.Notify(context.Background(), notification(ports.EventWalletCredited)))
	require.NoError(t, d.Wait(context.Background()))

	assert.Contains(t, logs.String(), "notification delivery failed")
	assert.Contains(t, logs.String(), "broker unavailable")
}

func TestDispatcher_TimesOutSlowSender(t *testing.T) {
	logs := &syncBuffer{}
	sender := &recordingSender{release: make(chan struct{})}
	d := notify.NewDispatcher(sender, 20*time.Millisecond, 1, slog.New(slog.NewTextHandler(logs, nil)))

	require.NoError(t, d.Notify(context.Background(), notification(ports.EventShipmentStatus)))
	require.NoError(t, d.Wait(context.Background()))

	assert.Zero(t, sender.count())
	assert.Contains(t, logs.String(), "context deadline exceeded")
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	defer close(sender.release)
	d := notify.NewDispatcher(sender, time.Minute, 1, slog.New(slog.DiscardHandler))
	require.NoError(t, d.Notify(context.Background(), notification(ports.EventOfferExpired)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}

func TestLogSender_Notify(t *testing.T) {
	logs := &syncBuffer{}
	s := notify.NewLogSender(slog.New(slog.NewTextHandler(logs, nil)))

	require.NoError(t, s.Notify(context.Background(), notification(ports.EventAgreementAccepted)))

	assert.Contains(t, logs.String(), "event="+ports.EventAgreementAccepted)
	assert.Contains(t, logs.String(), "shipmentId=s1")
}

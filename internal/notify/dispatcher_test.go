package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// gatedNotifier blocks every delivery until release is closed.
type gatedNotifier struct {
	started chan struct{}
	release chan struct{}
	err     error

	mu   sync.Mutex
	sent []models.Sale
}

func newGatedNotifier() *gatedNotifier {
	return &gatedNotifier{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (n *gatedNotifier) NotifySale(_ context.Context, sale models.Sale, _ models.Customer) error {
	n.started <- struct{}{}
	<-n.release
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sale)
	return n.err
}

func (n *gatedNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func waitStarted(t *testing.T, n *gatedNotifier) {
	t.Helper()
	select {
	case <-n.started:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never started")
	}
}

func TestDispatcherReturnsBeforeDelivery(t *testing.T) {
	log, _ := test.NewNullLogger()
	inner := newGatedNotifier()
	d := NewDispatcher(inner, 4, log)
	sale, customer := sampleSale()

	require.NoError(t, d.NotifySale(context.Background(), sale, customer))
	waitStarted(t, inner)
	assert.Zero(t, inner.count(), "delivery still blocked")

	close(inner.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, inner.count())
}

func TestDispatcherQueueFull(t *testing.T) {
	log, _ := test.NewNullLogger()
	inner := newGatedNotifier()
	d := NewDispatcher(inner, 1, log)
	sale, customer := sampleSale()
	ctx := context.Background()

	require.NoError(t, d.NotifySale(ctx, sale, customer))
	waitStarted(t, inner)
	require.NoError(t, d.NotifySale(ctx, sale, customer))
	assert.Equal(t, 1, d.Pending())
	assert.ErrorIs(t, d.NotifySale(ctx, sale, customer), ErrQueueFull)

	close(inner.release)
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, 2, inner.count())
}

func TestDispatcherCloseDrainsAndLogsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	inner := newGatedNotifier()
	inner.err = errors.New("webhook responded 502")
	close(inner.release)
	d := NewDispatcher(inner, 8, log)
	sale, customer := sampleSale()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, d.NotifySale(ctx, sale, customer))
	}
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, 3, inner.count())

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "sale notification failed" {
			warnings++
		}
	}
	assert.Equal(t, 3, warnings)

	assert.ErrorIs(t, d.NotifySale(ctx, sale, customer), ErrClosed)
	assert.NoError(t, d.Close(ctx))
}

func TestDispatcherCloseHonoursDeadline(t *testing.T) {
	log, _ := test.NewNullLogger()
	inner := newGatedNotifier()
	d := NewDispatcher(inner, 0, log)
	sale, customer := sampleSale()

	require.NoError(t, d.NotifySale(context.Background(), sale, customer))
	waitStarted(t, inner)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(inner.release)
	assert.NoError(t, d.Close(context.Background()))
}

func TestDispatcherOverWebhookRetries(t *testing.T) {
	log, _ := test.NewNullLogger()
	webhook := NewWebhookNotifier(WebhookConfig{
		URL:        "http://127.0.0.1:1/unreachable",
		Timeout:    50 * time.Millisecond,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
	}, log)
	d := NewDispatcher(webhook, 1, log)
	sale, customer := sampleSale()

	start := time.Now()
	require.NoError(t, d.NotifySale(context.Background(), sale, customer))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	require.NoError(t, d.Close(context.Background()))
}

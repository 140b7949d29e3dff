package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrClosed    = errors.New("notification dispatcher is closed")
)

// DefaultQueueSize is used when NewDispatcher is given a non-positive size.
const DefaultQueueSize = 100

// Notifier delivers one sale notification.
type Notifier interface {
	NotifySale(ctx context.Context, sale models.Sale, customer models.Customer) error
}

type job struct {
	sale     models.Sale
	customer models.Customer
}

// Dispatcher queues notifications and hands them to next on a single
// background worker, so callers never wait on delivery or its retries.
// NotifySale only fails when the notification could not be queued.
type Dispatcher struct {
	next Notifier
	log  logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan job
	done   chan struct{}
}

func NewDispatcher(next Notifier, size int, log logrus.FieldLogger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		next:  next,
		log:   log,
		queue: make(chan job, size),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) NotifySale(_ context.Context, sale models.Sale, customer models.Customer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- job{sale: sale, customer: customer}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued notifications not yet picked up.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Close stops accepting notifications and waits until the queue is drained
// or ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		if err := d.next.NotifySale(context.Background(), j.sale, j.customer); err != nil {
			d.log.WithError(err).WithField("sale_id", j.sale.ID).Warn("sale notification failed")
		}
	}
}

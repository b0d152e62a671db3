// internal/services/notification_queue.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/config"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// DeliveryProgress records the delivery steps of one message that have
// already succeeded. It is safe for concurrent use and nil-safe.
type DeliveryProgress struct {
	mu   sync.Mutex
	done map[string]bool
}

func NewDeliveryProgress() *DeliveryProgress {
	return &DeliveryProgress{done: make(map[string]bool)}
}

func (p *DeliveryProgress) Done(step string) bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done[step]
}

func (p *DeliveryProgress) Mark(step string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done[step] = true
}

type QueueOptions struct {
	Size       int
	Workers    int
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

func QueueOptionsFromConfig(cfg config.TelegramConfig) QueueOptions {
	return QueueOptions{
		Size:       cfg.QueueSize,
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Backoff:    time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
		MaxBackoff: 30 * time.Second,
	}
}

// NotificationQueue decouples delivery from the request that produced the
// message. Workers retry failed sends with exponential backoff and hand the
// message to the fallback sender once retries are exhausted.
type NotificationQueue struct {
	sender   Sender
	fallback Sender
	opts     QueueOptions
	sleep    func(ctx context.Context, d time.Duration) bool

	mu     sync.RWMutex
	closed bool
	jobs   chan Message
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewNotificationQueue(sender Sender, fallback Sender, opts QueueOptions) *NotificationQueue {
	if opts.Size <= 0 {
		opts.Size = 64
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff < opts.Backoff {
		opts.MaxBackoff = opts.Backoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationQueue{
		sender:   sender,
		fallback: fallback,
		opts:     opts,
		sleep:    sleepContext,
		jobs:     make(chan Message, opts.Size),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (q *NotificationQueue) Start() {
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	logrus.WithField("workers", q.opts.Workers).Info("Notification queue started")
}

// Dispatch enqueues msg without blocking.
func (q *NotificationQueue) Dispatch(msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- msg:
		return nil
	default:
		logrus.WithField("kind", msg.Kind).Warn("Notification queue full, dropping message")
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for workers to drain it. When ctx expires
// first, pending retries are abandoned.
func (q *NotificationQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		logrus.Info("Notification queue drained")
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *NotificationQueue) worker(id int) {
	defer q.wg.Done()
	for msg := range q.jobs {
		q.deliver(id, msg)
	}
}

func (q *NotificationQueue) deliver(worker int, msg Message) {
	log := logrus.WithFields(logrus.Fields{
		"worker": worker,
		"kind":   msg.Kind,
	})

	if msg.Progress == nil {
		msg.Progress = NewDeliveryProgress()
	}

	backoff := q.opts.Backoff
	var err error
	for attempt := 0; attempt <= q.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if !q.sleep(q.ctx, backoff) {
				break
			}
			backoff *= 2
			if backoff > q.opts.MaxBackoff {
				backoff = q.opts.MaxBackoff
			}
		}

		if err = q.sender.Send(q.ctx, msg); err == nil {
			return
		}
		log.WithError(err).WithField("attempt", attempt+1).Warn("Notification delivery failed")
	}

	if q.fallback == nil || q.ctx.Err() != nil {
		log.WithError(err).Error("Notification dropped after retries")
		return
	}
	if fbErr := q.fallback.Send(q.ctx, msg); fbErr != nil {
		log.WithError(fbErr).Error("Notification fallback failed")
		return
	}
	log.Info("Notification delivered through fallback")
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

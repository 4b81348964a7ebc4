package notification

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool sends reject alerts to the subscribers of the affected line.
type WorkerPool struct {
	size    int
	jobs    chan model.Measurement
	subs    store.SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. The job queue holds size*16 alerts.
func NewWorkerPool(size int, subs store.SubscriptionStore, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Measurement, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		log:     log,
	}
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("worker started")
	for {
		select {
		case m := <-wp.jobs:
			log.Debug("processing reject", zap.Int64("measurement_id", m.ID), zap.String("line", m.Line))
			wp.notifyLine(ctx, m)
		case <-ctx.Done():
			log.Debug("worker shutting down")
			return
		}
	}
}

// Dispatch queues a reject alert. It never blocks the caller: when the queue
// is full the alert is dropped and false is returned.
func (wp *WorkerPool) Dispatch(m model.Measurement) bool {
	select {
	case wp.jobs <- m:
		return true
	default:
		wp.log.Warn("notification queue full, dropping alert", zap.Int64("measurement_id", m.ID))
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.Measurement {
	return wp.jobs
}

// Message renders the alert text for a rejected measurement.
func Message(m model.Measurement) string {
	return fmt.Sprintf("Line %s shift %d (%s): %s, suhu %d°C, berat %.2f kg",
		m.Line, m.Shift, m.Group, m.Kualitas, m.Suhu, m.Berat)
}

func (wp *WorkerPool) notifyLine(ctx context.Context, m model.Measurement) {
	subscriptions, err := wp.subs.SubscriptionsForLine(ctx, m.Line)
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.String("line", m.Line), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	wp.log.Info("sending reject alerts",
		zap.Int("subscriptions", len(subscriptions)),
		zap.String("line", m.Line),
		zap.Int64("measurement_id", m.ID))

	payload := []byte(Message(m))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

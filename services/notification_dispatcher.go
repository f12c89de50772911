package services

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

// Publisher accepts committed reservation events.
type Publisher interface {
	Publish(ev ReservationEvent)
}

// NotificationDispatcher delivers reservation events in the background:
// an email to the customer and a push to the floor displays. Failures are
// logged and never reach the request that caused them.
type NotificationDispatcher struct {
	sender      Sender
	broadcaster Broadcaster
	signature   string
	timeout     time.Duration

	queue  chan ReservationEvent
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

func NewNotificationDispatcher(sender Sender, broadcaster Broadcaster, signature string, queueSize int) *NotificationDispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &NotificationDispatcher{
		sender:      sender,
		broadcaster: broadcaster,
		signature:   signature,
		timeout:     15 * time.Second,
		queue:       make(chan ReservationEvent, queueSize),
		done:        make(chan struct{}),
	}
}

func (d *NotificationDispatcher) Start() {
	go func() {
		defer close(d.done)
		for ev := range d.queue {
			d.deliver(ev)
		}
	}()
}

// Stop refuses new events, drains the queue and waits for the worker.
func (d *NotificationDispatcher) Stop() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}

// Publish never blocks; when the queue is full the event is dropped.
func (d *NotificationDispatcher) Publish(ev ReservationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		utils.ErrorLogger.WithField("reservation_id", ev.ReservationID).Error("Notification dispatcher stopped, event dropped")
		return
	}
	select {
	case d.queue <- ev:
	default:
		utils.ErrorLogger.WithFields(logrus.Fields{
			"reservation_id": ev.ReservationID,
			"kind":           ev.Kind,
		}).Error("Notification queue full, event dropped")
	}
}

func (d *NotificationDispatcher) deliver(ev ReservationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notify(ctx, ev); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"reservation_id": ev.ReservationID,
			"kind":           ev.Kind,
		}).Errorf("Failed to deliver reservation notification: %v", err)
		return
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": ev.ReservationID,
		"kind":           ev.Kind,
	}).Info("Reservation notification delivered")
}

func (d *NotificationDispatcher) notify(ctx context.Context, ev ReservationEvent) error {
	var result *multierror.Error
	if d.sender != nil && ev.CustomerEmail != "" {
		if err := d.sender.Send(ctx, ev.CustomerEmail, ev.EmailSubject(), ev.EmailBody(d.signature)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if d.broadcaster != nil {
		if err := d.broadcaster.Broadcast(ev.FloorEvent(), ev); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

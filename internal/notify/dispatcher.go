package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Message struct {
	To   string
	Body string
}

// Notifier is what the use cases depend on. Dispatch never blocks and never
// surfaces delivery errors.
type Notifier interface {
	Dispatch(to, body string)
}

// Dispatcher queues outbound SMS behind a buffered channel and a single
// worker. Failures are logged and swallowed; a full queue drops the message
// rather than delaying the triggering mutation.
type Dispatcher struct {
	sender Sender
	queue  chan Message
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := d.sender.Send(ctx, msg.To, msg.Body); err != nil {
			zap.L().Error("failed to send sms",
				zap.String("to", msg.To),
				zap.Error(err))
		}
		cancel()
	}
}

// Dispatch enqueues an SMS. Messages without a destination are ignored.
func (d *Dispatcher) Dispatch(to, body string) {
	if to == "" {
		return
	}

	select {
	case d.queue <- Message{To: to, Body: body}:
	default:
		zap.L().Warn("sms queue full, dropping message",
			zap.String("to", to))
	}
}

var _ Notifier = (*Dispatcher)(nil)

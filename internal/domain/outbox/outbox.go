package outbox

import "context"

// Event is a domain fact identified by name, e.g. "order.finalized".
type Event interface {
	EventName() string
}

// Handler processes a published event.
type Handler func(ctx context.Context, e Event) error

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers handlers for event names. Handlers run asynchronously and must
// tolerate redelivery.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}

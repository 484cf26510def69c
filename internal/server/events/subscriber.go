package events

// Subscriber consumes broker events.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error

	// Close releases the subscriber.
	Close() error
}

// SubscriberFunc adapts a function to Subscriber with a no-op Close.
type SubscriberFunc func(Event) error

// Send calls f.
func (f SubscriberFunc) Send(e Event) error { return f(e) }

// Close does nothing.
func (f SubscriberFunc) Close() error { return nil }

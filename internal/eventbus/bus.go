package eventbus

import (
	"fmt"
	"log"
	"sync"
)

// Handler receives every published event. A non-nil error (or a panic) is
// reported through the bus error callback and never reaches the publisher.
type Handler func(event any) error

type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	onError  func(err error)
}

func New() *Bus {
	return &Bus{
		onError: func(err error) { log.Printf("eventbus: %v", err) },
	}
}

// OnError replaces the default error logger. Must be called before Publish.
func (b *Bus) OnError(fn func(err error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers events synchronously, in argument order, to every current
// subscriber. Delivery order across concurrent Publish calls is up to the
// callers; commands for the same file id are serialized upstream.
func (b *Bus) Publish(events ...any) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	onError := b.onError
	b.mu.RUnlock()

	for _, evt := range events {
		for _, h := range handlers {
			b.deliver(h, evt, onError)
		}
	}
}

func (b *Bus) deliver(h Handler, evt any, onError func(error)) {
	defer func() {
		if r := recover(); r != nil {
			onError(fmt.Errorf("subscriber panic on %T: %v", evt, r))
		}
	}()

	if err := h(evt); err != nil {
		onError(fmt.Errorf("subscriber failed on %T: %w", evt, err))
	}
}

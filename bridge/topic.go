package bridge

import (
	"sync"

	"github.com/qkd/kdplayer/log"
)

// Topic delivers values of one type to at most one subscriber.
// Publish never blocks: a value with no subscriber, or one that finds the
// subscriber's buffer full, is dropped.
type Topic[T any] struct {
	name   Name
	buffer int

	mu sync.Mutex
	ch chan T
}

func NewTopic[T any](name Name, buffer int) *Topic[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Topic[T]{name: name, buffer: buffer}
}

func (t *Topic[T]) Name() Name {
	return t.name
}

// Subscribe returns a fresh channel that receives values published from
// now on. A previous subscriber's channel is closed.
func (t *Topic[T]) Subscribe() <-chan T {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch != nil {
		close(t.ch)
	}
	t.ch = make(chan T, t.buffer)
	return t.ch
}

// Unsubscribe closes the current channel, if any.
func (t *Topic[T]) Unsubscribe() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch != nil {
		close(t.ch)
		t.ch = nil
	}
}

// Subscribed reports whether a subscriber is attached.
func (t *Topic[T]) Subscribed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch != nil
}

// Publish reports whether the value was delivered.
func (t *Topic[T]) Publish(v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch == nil {
		return false
	}

	select {
	case t.ch <- v:
		return true
	default:
		log.WithField("topic", t.name).Debug("subscriber buffer full, dropping event")
		return false
	}
}

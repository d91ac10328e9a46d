// Package event is the notification channel between the editing engine
// and its observers (renderer, application chrome, instrumentation).
// Delivery is synchronous on the publishing goroutine; the engine never
// depends on the result of an emission.
package event

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Topic names an event stream, dot-separated ("drag.finished").
type Topic string

// Match reports whether the topic satisfies a subscription pattern.
// Patterns are either exact, a "*" wildcard, or a "prefix.*" suffix
// wildcard matching everything under the prefix.
func (t Topic) Match(pattern Topic) bool {
	if pattern == "*" || pattern == t {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(pattern), ".*"); ok {
		return strings.HasPrefix(string(t), prefix+".")
	}
	return false
}

// TopicProvider is implemented by event payloads to name their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// Handler receives published events.
type Handler func(event any)

// Subscription is a handle for cancelling a subscription.
type Subscription struct {
	id      uint64
	emitter *Emitter
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.emitter != nil {
		s.emitter.unsubscribe(s.id)
	}
}

type subscriber struct {
	id      uint64
	pattern Topic
	handler Handler
}

// Stats holds delivery counters for an emitter.
type Stats struct {
	Published uint64
	Delivered uint64
	Panics    uint64
}

// Emitter is a synchronous topic-matched publisher.
type Emitter struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers a handler for all topics matching the pattern.
func (e *Emitter) Subscribe(pattern Topic, handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.subs = append(e.subs, subscriber{id: e.nextID, pattern: pattern, handler: handler})
	return Subscription{id: e.nextID, emitter: e}
}

// Publish delivers the event to every matching subscriber in
// subscription order. Events that do not implement TopicProvider are
// dropped. A panicking handler is recovered and counted; delivery
// continues to the remaining handlers.
func (e *Emitter) Publish(event any) {
	tp, ok := event.(TopicProvider)
	if !ok {
		return
	}
	topic := tp.EventTopic()

	e.mu.RLock()
	subs := make([]subscriber, 0, len(e.subs))
	for _, s := range e.subs {
		if topic.Match(s.pattern) {
			subs = append(subs, s)
		}
	}
	e.mu.RUnlock()

	e.published.Add(1)
	for _, s := range subs {
		e.deliver(s.handler, event)
	}
}

func (e *Emitter) deliver(h Handler, event any) {
	defer func() {
		if recover() != nil {
			e.panics.Add(1)
		}
	}()
	h(event)
	e.delivered.Add(1)
}

// Stats returns current delivery counters.
func (e *Emitter) Stats() Stats {
	return Stats{
		Published: e.published.Load(),
		Delivered: e.delivered.Load(),
		Panics:    e.panics.Load(),
	}
}

func (e *Emitter) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

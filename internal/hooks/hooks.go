// Package hooks implements named extension points with ordered subscribers.
//
// A filter folds a value through its subscribers: each one receives the
// previous subscriber's output. An action notifies its subscribers and
// discards anything they do. Subscribers run synchronously in registration
// order on the caller's goroutine.
package hooks

import (
	"context"
	"sync"
)

// Filter transforms a value passed through a named hook.
type Filter[T any] func(context.Context, T) T

// Action observes a payload published on a named hook.
type Action[T any] func(context.Context, T)

type subscription struct {
	id uint64
	fn any // Filter[T] or Action[T] stored without type
}

// Bus holds the filter and action subscriptions of one process.
type Bus struct {
	mu      sync.RWMutex
	nextID  uint64
	filters map[string][]subscription
	actions map[string][]subscription
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		filters: make(map[string][]subscription),
		actions: make(map[string][]subscription),
	}
}

type kind int

const (
	filterKind kind = iota
	actionKind
)

// table must be called with b.mu held.
func (b *Bus) table(k kind) map[string][]subscription {
	if k == actionKind {
		return b.actions
	}
	return b.filters
}

func (b *Bus) add(k kind, name string, fn any) (remove func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	t := b.table(k)
	t[name] = append(t[name], subscription{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		t := b.table(k)
		subs := t[name]
		for i, s := range subs {
			if s.id == id {
				subs = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(subs) == 0 {
			delete(t, name)
		} else {
			t[name] = subs
		}
	}
}

func (b *Bus) snapshot(k kind, name string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := b.table(k)[name]
	if len(subs) == 0 {
		return nil
	}
	return append([]subscription(nil), subs...)
}

// HasFilter reports whether name has at least one filter subscriber.
func (b *Bus) HasFilter(name string) bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.filters[name]) > 0
}

// HasAction reports whether name has at least one action subscriber.
func (b *Bus) HasAction(name string) bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.actions[name]) > 0
}

// Reset drops every subscription.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.filters = make(map[string][]subscription)
	b.actions = make(map[string][]subscription)
	b.mu.Unlock()
}

// AddFilter subscribes f to the filter hook name.
func AddFilter[T any](b *Bus, name string, f Filter[T]) (remove func()) {
	return b.add(filterKind, name, f)
}

// ApplyFilters passes value through every filter subscribed to name and
// returns the result. Subscribers registered for a different value type
// are skipped. A nil Bus returns value unchanged.
func ApplyFilters[T any](ctx context.Context, b *Bus, name string, value T) T {
	if b == nil {
		return value
	}
	for _, s := range b.snapshot(filterKind, name) {
		f, ok := s.fn.(Filter[T])
		if !ok {
			continue
		}
		value = f(ctx, value)
	}
	return value
}

// AddAction subscribes a to the action hook name.
func AddAction[T any](b *Bus, name string, a Action[T]) (remove func()) {
	return b.add(actionKind, name, a)
}

// DoAction invokes every action subscribed to name with payload.
func DoAction[T any](ctx context.Context, b *Bus, name string, payload T) {
	if b == nil {
		return
	}
	for _, s := range b.snapshot(actionKind, name) {
		a, ok := s.fn.(Action[T])
		if !ok {
			continue
		}
		a(ctx, payload)
	}
}

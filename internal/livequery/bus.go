// Package livequery keeps in-memory views synchronized with store writes.
//
// Repositories publish a change notification for their collection after each
// committed write. Subscriptions re-run their query function whenever one of
// the collections they read from changes, and deliver the fresh result to
// the consumer without polling.
package livequery

import "sync"

// Collection names, matching the store's table names.
const (
	CollectionVehicles  = "vehicles"
	CollectionLocations = "locations"
	CollectionSessions  = "charging_sessions"
	CollectionSettings  = "settings"
)

// Bus routes per-collection change notifications to subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[*receiver]struct{}
}

type receiver struct {
	collections map[string]struct{}
	notify      chan struct{} // capacity 1, pending notifications coalesce
}

// NewBus creates an empty change bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*receiver]struct{})}
}

// Publish notifies subscribers watching any of the given collections.
// Called by repositories after a write commits; a notification that is
// already pending for a subscriber is not duplicated.
func (b *Bus) Publish(collections ...string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.watchesAny(collections) {
			continue
		}
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

func (b *Bus) attach(collections []string) *receiver {
	sub := &receiver{
		collections: make(map[string]struct{}, len(collections)),
		notify:      make(chan struct{}, 1),
	}
	for _, c := range collections {
		sub.collections[c] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

func (b *Bus) detach(sub *receiver) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

func (r *receiver) watchesAny(collections []string) bool {
	for _, c := range collections {
		if _, ok := r.collections[c]; ok {
			return true
		}
	}
	return false
}

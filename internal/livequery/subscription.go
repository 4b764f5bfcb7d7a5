package livequery

import (
	"fmt"
	"sync"
)

// Update carries one query result to the subscriber. A failing query
// delivers Err instead of tearing the subscription down.
type Update[T any] struct {
	Value T
	Err   error
}

// Subscription is a live view over a query function. The function runs once
// immediately and again after every write touching one of the subscribed
// collections. Query functions must be side-effect-free: they may run
// several times per logical change.
//
// A subscription's query and collections are fixed; to watch with different
// parameters, close it and subscribe again.
type Subscription[T any] struct {
	bus     *Bus
	sub     *receiver
	updates chan Update[T]
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers fn against the given collections and starts delivering
// results on Updates.
func Subscribe[T any](bus *Bus, collections []string, fn func() (T, error)) *Subscription[T] {
	s := &Subscription[T]{
		bus:     bus,
		sub:     bus.attach(collections),
		updates: make(chan Update[T]),
		done:    make(chan struct{}),
	}
	go s.run(fn)
	return s
}

// Updates delivers a fresh result after every relevant change. The channel
// closes when the subscription is closed.
func (s *Subscription[T]) Updates() <-chan Update[T] {
	return s.updates
}

// Close detaches from the bus and stops deliveries. Safe to call more
// than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.bus.detach(s.sub)
		close(s.done)
	})
}

func (s *Subscription[T]) run(fn func() (T, error)) {
	defer close(s.updates)

	for {
		update := execute(fn)
		select {
		case s.updates <- update:
		case <-s.done:
			return
		}

		select {
		case <-s.sub.notify:
		case <-s.done:
			return
		}
	}
}

// execute runs the query, converting a panic into an error state so a
// faulty query function cannot crash the process.
func execute[T any](fn func() (T, error)) (update Update[T]) {
	defer func() {
		if r := recover(); r != nil {
			update.Err = fmt.Errorf("live query panicked: %v", r)
		}
	}()

	update.Value, update.Err = fn()
	return update
}

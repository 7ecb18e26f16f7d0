// Package broadcast implements a single-slot watch channel: publishers
// overwrite one stored snapshot and subscribers only ever observe the
// latest value. Rapid updates coalesce, so a slow subscriber can never
// stall a producer, and the final snapshot after the last publish is
// always delivered.
package broadcast

import (
	"sync"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

type Watch struct {
	mu     sync.Mutex
	latest *entity.State
	subs   map[*Subscriber]struct{}
}

// Subscriber observes a Watch. Ready returns a channel that carries a
// signal whenever the stored value may have changed; State reads the
// latest value. Dropping a subscriber without Close leaks a map entry
// until the watch itself is garbage collected, so sessions defer Close.
type Subscriber struct {
	watch *Watch
	ready chan struct{}
}

// NewWatch - creates a watch primed with an initial snapshot, so the
// very first subscriber already has a value to read.
func NewWatch(initial *entity.State) *Watch {
	return &Watch{
		latest: initial,
		subs:   make(map[*Subscriber]struct{}),
	}
}

// Publish - stores the snapshot as the current value and wakes every
// subscriber. Signals are non-blocking: a subscriber that has not
// consumed its previous signal keeps exactly one pending, which is
// enough because it always reads the latest value.
func (that *Watch) Publish(snapshot *entity.State) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.latest = snapshot

	for sub := range that.subs {
		select {
		case sub.ready <- struct{}{}:
		default:
		}
	}
}

// Subscribe - registers a new subscriber. The signal channel starts
// pre-armed so a late subscriber immediately observes the current
// value instead of blocking for the next change.
func (that *Watch) Subscribe() *Subscriber {
	sub := &Subscriber{
		watch: that,
		ready: make(chan struct{}, 1),
	}
	sub.ready <- struct{}{}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.subs[sub] = struct{}{}

	return sub
}

// Ready - the coalescing change signal. Receive from it, then call
// State to get the snapshot it announced.
func (that *Subscriber) Ready() <-chan struct{} {
	return that.ready
}

// State - the latest published snapshot.
func (that *Subscriber) State() *entity.State {
	that.watch.mu.Lock()
	defer that.watch.mu.Unlock()

	return that.watch.latest
}

// Close - detaches the subscriber. Closing has no effect on the watch
// or its other subscribers; game eviction is driven by player count,
// not subscriber count.
func (that *Subscriber) Close() {
	that.watch.mu.Lock()
	defer that.watch.mu.Unlock()

	delete(that.watch.subs, that)
}

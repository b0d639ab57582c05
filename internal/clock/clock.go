// Package clock provides the injected time source and the wall-clock tick
// used to refresh the "now" indicator. Nothing in the scheduling engine reads
// time.Now directly.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source injected into the engine.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Fake is a manually advanced Clock for tests.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

// NewFake creates a fake clock frozen at t.
func NewFake(t time.Time) *Fake {
	return &Fake{t: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

// Ticker broadcasts the current time at a fixed interval to every subscriber.
// Subscribers that fall behind miss ticks rather than blocking the broadcast.
type Ticker struct {
	interval time.Duration

	mu     sync.Mutex
	subs   map[int]chan time.Time
	nextID int
	stop   chan struct{}
}

// NewTicker creates a stopped ticker with the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{
		interval: interval,
		subs:     make(map[int]chan time.Time),
	}
}

// Start begins broadcasting. Calling Start on a running ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	go t.run(t.stop)
}

// Stop halts broadcasting. Subscriptions survive a Stop/Start cycle.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Subscribe registers a listener and returns its channel together with an
// unsubscribe function. The unsubscribe function is idempotent.
func (t *Ticker) Subscribe() (<-chan time.Time, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan time.Time, 1)
	t.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
		})
	}
	return ch, cancel
}

func (t *Ticker) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t.broadcast(now)
		}
	}
}

func (t *Ticker) broadcast(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- now:
		default:
		}
	}
}

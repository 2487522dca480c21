package grid

import (
	"slices"
	"sync"
	"time"
)

// DefaultFilterDebounce is the quiescence interval before typed filter
// text is committed.
const DefaultFilterDebounce = 500 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running and reports whether it was
	// still pending.
	Stop() bool
}

// Scheduler runs f once after d. Implementations decide which goroutine
// f runs on.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on wall-clock time via time.AfterFunc. f runs
// on its own goroutine.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual clock. Nothing runs until Advance moves the
// clock past a call's deadline; due calls then run synchronously on the
// caller's goroutine in deadline order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	queue []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.queue = append(s.queue, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of calls that have neither fired nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.queue {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every call that became
// due, including calls scheduled by earlier calls within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.f()
	}
}

// nextDue pops the earliest live timer at or before target. Caller holds mu.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	s.queue = slices.DeleteFunc(s.queue, func(t *manualTimer) bool {
		return t.stopped || t.fired
	})
	best := -1
	for i, t := range s.queue {
		if t.at > target {
			continue
		}
		if best < 0 || t.at < s.queue[best].at || (t.at == s.queue[best].at && t.seq < s.queue[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return s.queue[best]
}

// Debouncer delays calls per key until no new call for that key has been
// scheduled for the quiescence interval. Scheduling again cancels the
// prior pending call for the key: the last writer wins and superseded
// calls never run, even when their timer already fired.
type Debouncer struct {
	sched Scheduler
	delay time.Duration

	mu      sync.Mutex
	gen     map[string]uint64
	pending map[string]Timer
	stopped bool
}

// NewDebouncer returns a Debouncer. A nil scheduler means RealScheduler;
// a non-positive delay means DefaultFilterDebounce.
func NewDebouncer(sched Scheduler, delay time.Duration) *Debouncer {
	if sched == nil {
		sched = RealScheduler{}
	}
	if delay <= 0 {
		delay = DefaultFilterDebounce
	}
	return &Debouncer{
		sched:   sched,
		delay:   delay,
		gen:     make(map[string]uint64),
		pending: make(map[string]Timer),
	}
}

// Delay returns the quiescence interval.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule arranges for fn to run after the quiescence interval unless
// key is scheduled again or cancelled first.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.pending[key]; ok {
		t.Stop()
	}
	d.gen[key]++
	gen := d.gen[key]
	d.pending[key] = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || d.gen[key] != gen {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call for key and reports whether one existed.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.pending[key]
	if !ok {
		return false
	}
	t.Stop()
	d.gen[key]++
	delete(d.pending, key)
	return true
}

// Pending returns the keys with a pending call, sorted.
func (d *Debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Stop cancels every pending call. Later Schedule calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for k, t := range d.pending {
		t.Stop()
		delete(d.pending, k)
	}
}

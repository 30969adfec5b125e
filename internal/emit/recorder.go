package emit

import "sync"

// Recorded is one event captured by a Recorder. Exactly one field is set.
type Recorded struct {
	Pointer *PointerEvent
	Scroll  *ScrollEvent
	Touch   *TouchEvent
}

// Recorder is an in-memory Sink that keeps every event in submission order.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	closed bool

	// Fail, when set, is returned from every injection call
	Fail error
}

func (r *Recorder) Pointer(ev PointerEvent) error {
	return r.record(Recorded{Pointer: &ev})
}

func (r *Recorder) Scroll(ev ScrollEvent) error {
	return r.record(Recorded{Scroll: &ev})
}

func (r *Recorder) Touch(ev TouchEvent) error {
	return r.record(Recorded{Touch: &ev})
}

func (r *Recorder) record(ev Recorded) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrSinkClosed
	}
	if r.Fail != nil {
		return r.Fail
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Touches returns only the recorded touch events
func (r *Recorder) Touches() []TouchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []TouchEvent
	for _, ev := range r.events {
		if ev.Touch != nil {
			out = append(out, *ev.Touch)
		}
	}
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

package bloomfield

// DeferQueue runs presentation callbacks after a delay, keyed by the handle
// of the bloom they animate. A callback whose handle is no longer alive when
// it comes due is dropped, so work scheduled before a reset can never act on
// the new field.
//
// There is no clock of its own: callers drive it with Advance once per
// frame, the same way tweens are driven.
type DeferQueue struct {
	alive func(Handle) bool
	now   float64
	items []deferred
	due   []deferred
}

type deferred struct {
	h  Handle
	at float64
	fn func()
}

// NewDeferQueue creates a queue that consults alive before firing. A nil
// alive treats every handle as live.
func NewDeferQueue(alive func(Handle) bool) *DeferQueue {
	return &DeferQueue{alive: alive}
}

// After schedules fn to run delay seconds from now on behalf of h.
func (q *DeferQueue) After(h Handle, delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	q.items = append(q.items, deferred{h: h, at: q.now + delay, fn: fn})
}

// Advance moves the queue clock by dt seconds and runs every callback that
// came due, in scheduling order. It returns how many ran. Callbacks may
// schedule more work; it is considered from the next Advance on.
func (q *DeferQueue) Advance(dt float64) int {
	q.now += dt
	q.due = q.due[:0]
	kept := q.items[:0]
	for _, d := range q.items {
		if d.at <= q.now {
			q.due = append(q.due, d)
		} else {
			kept = append(kept, d)
		}
	}
	clear(q.items[len(kept):])
	q.items = kept

	ran := 0
	for i := range q.due {
		d := q.due[i]
		q.due[i] = deferred{}
		if q.alive != nil && !q.alive(d.h) {
			continue
		}
		d.fn()
		ran++
	}
	return ran
}

// Cancel drops every pending callback.
func (q *DeferQueue) Cancel() {
	clear(q.items)
	q.items = q.items[:0]
}

// Len returns the number of pending callbacks.
func (q *DeferQueue) Len() int { return len(q.items) }

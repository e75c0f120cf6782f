package bloomfield

// Handle identifies one live population member. Eviction and reset bump the
// slot generation, so a handle kept by a deferred callback goes stale in O(1)
// without searching the population. The zero Handle is never live.
type Handle struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// Entry pairs a bloom with its handle in a snapshot.
type Entry struct {
	Handle Handle
	Bloom  Bloom
}

type slot struct {
	gen   uint32
	live  bool
	bloom Bloom
}

// Population is the ordered, capped set of live blooms, oldest first. It is a
// ring buffer over a fixed arena of slots: Append at capacity evicts exactly
// the oldest member first. Not safe for concurrent use; Session serializes it.
type Population struct {
	slots []slot
	head  int // index of the oldest member
	n     int
}

// NewPopulation creates a population holding at most max blooms. A max of 0
// yields a population that ignores every append.
func NewPopulation(max int) *Population {
	if max < 0 {
		max = 0
	}
	p := &Population{slots: make([]slot, max)}
	for i := range p.slots {
		p.slots[i].gen = 1
	}
	return p
}

// Len returns the number of live blooms.
func (p *Population) Len() int { return p.n }

// Cap returns the maximum population size.
func (p *Population) Cap() int { return len(p.slots) }

// Append adds b as the newest member, evicting the oldest first when full.
// It returns false only when the capacity is zero.
func (p *Population) Append(b Bloom) (Handle, bool) {
	if len(p.slots) == 0 {
		return Handle{}, false
	}
	if p.n == len(p.slots) {
		p.EvictOldest()
	}
	i := (p.head + p.n) % len(p.slots)
	s := &p.slots[i]
	s.live = true
	s.bloom = b
	p.n++
	return Handle{slot: uint32(i), gen: s.gen}, true
}

// EvictOldest removes the oldest member. It is a no-op on an empty population.
func (p *Population) EvictOldest() bool {
	if p.n == 0 {
		return false
	}
	p.kill(p.head)
	p.head = (p.head + 1) % len(p.slots)
	p.n--
	return true
}

// Reset replaces the whole population with blooms, in order. When blooms
// holds more than Cap members only the newest Cap are kept. Every handle
// issued before the call goes stale.
func (p *Population) Reset(blooms []Bloom) []Handle {
	p.Clear()
	if len(blooms) > len(p.slots) {
		blooms = blooms[len(blooms)-len(p.slots):]
	}
	handles := make([]Handle, 0, len(blooms))
	for _, b := range blooms {
		h, _ := p.Append(b)
		handles = append(handles, h)
	}
	return handles
}

// Clear removes every member and invalidates every outstanding handle.
func (p *Population) Clear() {
	for i := range p.slots {
		if p.slots[i].live {
			p.kill(i)
		}
	}
	p.head = 0
	p.n = 0
}

func (p *Population) kill(i int) {
	s := &p.slots[i]
	s.live = false
	s.bloom = Bloom{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
}

// Live reports whether h still refers to a member.
func (p *Population) Live(h Handle) bool {
	if h.IsZero() || int(h.slot) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.slot]
	return s.live && s.gen == h.gen
}

// Get returns the bloom behind h.
func (p *Population) Get(h Handle) (Bloom, bool) {
	if !p.Live(h) {
		return Bloom{}, false
	}
	return p.slots[h.slot].bloom, true
}

// Oldest returns the oldest member.
func (p *Population) Oldest() (Entry, bool) {
	if p.n == 0 {
		return Entry{}, false
	}
	return p.entry(p.head), true
}

func (p *Population) entry(i int) Entry {
	s := &p.slots[i]
	return Entry{Handle: Handle{slot: uint32(i), gen: s.gen}, Bloom: s.bloom}
}

// AppendSnapshot appends every member to dst, oldest first, and returns the
// extended slice. The entries are copies; the caller cannot change membership
// through them.
func (p *Population) AppendSnapshot(dst []Entry) []Entry {
	for k := 0; k < p.n; k++ {
		dst = append(dst, p.entry((p.head+k)%len(p.slots)))
	}
	return dst
}

// Snapshot returns a fresh copy of every member, oldest first.
func (p *Population) Snapshot() []Entry {
	return p.AppendSnapshot(make([]Entry, 0, p.n))
}

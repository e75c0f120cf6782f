package bloomfield

import "testing"

func numbered(n int) Bloom { return Bloom{ID: BloomID{Seq: uint64(n)}} }

func seqs(entries []Entry) []uint64 {
	out := make([]uint64, len(entries))
	for i, e := range entries {
		out[i] = e.Bloom.ID.Seq
	}
	return out
}

func equalSeqs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPopulationFIFOEviction(t *testing.T) {
	p := NewPopulation(3)
	var handles []Handle
	for i := 1; i <= 5; i++ {
		h, ok := p.Append(numbered(i))
		if !ok {
			t.Fatalf("Append(%d) ok = false", i)
		}
		handles = append(handles, h)
		if p.Len() > 3 {
			t.Fatalf("Len = %d after append %d", p.Len(), i)
		}
	}
	if got := seqs(p.Snapshot()); !equalSeqs(got, []uint64{3, 4, 5}) {
		t.Errorf("Snapshot = %v, want [3 4 5]", got)
	}
	for i, h := range handles {
		if want := i >= 2; p.Live(h) != want {
			t.Errorf("Live(handle %d) = %v, want %v", i+1, p.Live(h), want)
		}
	}
	oldest, ok := p.Oldest()
	if !ok || oldest.Bloom.ID.Seq != 3 || oldest.Handle != handles[2] {
		t.Errorf("Oldest = %+v", oldest)
	}
}

func TestPopulationZeroCap(t *testing.T) {
	for _, max := range []int{0, -4} {
		p := NewPopulation(max)
		if _, ok := p.Append(numbered(1)); ok {
			t.Errorf("NewPopulation(%d).Append ok = true", max)
		}
		if p.Len() != 0 || p.Cap() != 0 {
			t.Errorf("Len/Cap = %d/%d", p.Len(), p.Cap())
		}
		if hs := p.Reset([]Bloom{numbered(1)}); len(hs) != 0 {
			t.Errorf("Reset kept %d blooms", len(hs))
		}
	}
}

func TestPopulationEvictEmpty(t *testing.T) {
	p := NewPopulation(2)
	if p.EvictOldest() {
		t.Error("EvictOldest on empty = true")
	}
	if _, ok := p.Oldest(); ok {
		t.Error("Oldest on empty ok = true")
	}
}

func TestPopulationResetKeepsNewest(t *testing.T) {
	p := NewPopulation(3)
	old, _ := p.Append(numbered(100))
	hs := p.Reset([]Bloom{numbered(1), numbered(2), numbered(3), numbered(4), numbered(5)})
	if len(hs) != 3 {
		t.Fatalf("Reset returned %d handles", len(hs))
	}
	if got := seqs(p.Snapshot()); !equalSeqs(got, []uint64{3, 4, 5}) {
		t.Errorf("Snapshot = %v, want [3 4 5]", got)
	}
	if p.Live(old) {
		t.Error("handle from before Reset is still live")
	}
	for _, h := range hs {
		if !p.Live(h) {
			t.Errorf("handle %+v from Reset not live", h)
		}
	}
}

func TestPopulationStaleHandleAfterSlotReuse(t *testing.T) {
	p := NewPopulation(1)
	a, _ := p.Append(numbered(1))
	b, _ := p.Append(numbered(2))
	if a.slot != b.slot {
		t.Fatalf("single-slot population used slots %d and %d", a.slot, b.slot)
	}
	if p.Live(a) {
		t.Error("evicted handle is live after its slot was reused")
	}
	if bl, ok := p.Get(b); !ok || bl.ID.Seq != 2 {
		t.Errorf("Get(b) = %+v, %v", bl, ok)
	}
	if _, ok := p.Get(a); ok {
		t.Error("Get(stale) ok = true")
	}
}

func TestPopulationZeroHandle(t *testing.T) {
	p := NewPopulation(2)
	p.Append(numbered(1))
	if p.Live(Handle{}) {
		t.Error("zero handle is live")
	}
	if !(Handle{}).IsZero() {
		t.Error("Handle{}.IsZero() = false")
	}
	if p.Live(Handle{slot: 99, gen: 1}) {
		t.Error("out-of-range handle is live")
	}
}

func TestPopulationClear(t *testing.T) {
	p := NewPopulation(4)
	h, _ := p.Append(numbered(1))
	p.Append(numbered(2))
	p.Clear()
	if p.Len() != 0 || p.Live(h) || len(p.Snapshot()) != 0 {
		t.Errorf("after Clear: Len=%d live=%v", p.Len(), p.Live(h))
	}
	p.Append(numbered(3))
	if got := seqs(p.Snapshot()); !equalSeqs(got, []uint64{3}) {
		t.Errorf("Snapshot after Clear+Append = %v", got)
	}
}

func TestPopulationSnapshotIsCopy(t *testing.T) {
	p := NewPopulation(3)
	p.Append(numbered(1))
	snap := p.Snapshot()
	snap[0].Bloom.Scale = 99
	if b, _ := p.Get(snap[0].Handle); b.Scale == 99 {
		t.Error("mutating a snapshot changed the population")
	}
}

func TestPopulationAppendSnapshotReusesBuffer(t *testing.T) {
	p := NewPopulation(4)
	for i := 1; i <= 6; i++ {
		p.Append(numbered(i))
	}
	buf := make([]Entry, 0, 8)
	buf = p.AppendSnapshot(buf[:0])
	if got := seqs(buf); !equalSeqs(got, []uint64{3, 4, 5, 6}) {
		t.Errorf("AppendSnapshot = %v", got)
	}
	if cap(buf) != 8 {
		t.Errorf("AppendSnapshot reallocated: cap %d", cap(buf))
	}
}

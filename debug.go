package bloomfield

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and draw metrics. Only populated when
// Config.Debug is set.
type debugStats struct {
	snapshotTime time.Duration
	syncTime     time.Duration
	drawTime     time.Duration
	drawCalls    int
	session      SessionStats
}

// debugEvery is how many frames pass between logged stat lines.
const debugEvery = 60

// String renders the stats as the one-line on-screen readout.
func (s debugStats) String() string {
	state := "idle"
	if s.session.Drawing {
		state = "drawing"
	}
	return fmt.Sprintf("blooms %d/%d | %s | epoch %d | added %d\nsnapshot %v | sync %v | draw %v | calls %d",
		s.session.Len, s.session.Cap, state, s.session.Epoch, s.session.Added,
		s.snapshotTime, s.syncTime, s.drawTime, s.drawCalls)
}

// debugLog writes the stats to the package log every debugEvery frames.
func debugLog(frame uint64, s debugStats) {
	if frame%debugEvery != 0 {
		return
	}
	logf("blooms: %d/%d | snapshot: %v | sync: %v | draw: %v | draw calls: %d",
		s.session.Len, s.session.Cap, s.snapshotTime, s.syncTime, s.drawTime, s.drawCalls)
}

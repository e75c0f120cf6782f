package bloomfield

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestManager(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "bloomfield_test"})
	if err != nil {
		t.Skipf("gdata storage unavailable: %v", err)
	}
	return m
}

func TestPreferenceStoreMemoryOnly(t *testing.T) {
	s, err := NewPreferenceStore(nil)
	if err != nil {
		t.Fatalf("NewPreferenceStore(nil): %v", err)
	}
	if s.Persistent() {
		t.Error("nil manager reported persistent")
	}
	if !s.Get().MusicEnabled {
		t.Error("default MusicEnabled = false, want true")
	}
	if err := s.SetMusicEnabled(false); err != nil {
		t.Fatalf("SetMusicEnabled: %v", err)
	}
	if s.Get().MusicEnabled {
		t.Error("SetMusicEnabled(false) not applied")
	}
}

func TestPreferenceStoreRoundTrip(t *testing.T) {
	m := openTestManager(t)
	s, err := NewPreferenceStore(m)
	if err != nil {
		t.Fatalf("NewPreferenceStore: %v", err)
	}
	if !s.Persistent() || !s.Get().MusicEnabled {
		t.Fatalf("fresh store: persistent=%v prefs=%+v", s.Persistent(), s.Get())
	}
	if err := s.SetMusicEnabled(false); err != nil {
		t.Fatalf("SetMusicEnabled: %v", err)
	}

	reopened, err := NewPreferenceStore(m)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Get().MusicEnabled {
		t.Error("saved MusicEnabled=false came back true")
	}
}

func TestPreferenceStoreCorruptData(t *testing.T) {
	m := openTestManager(t)
	if err := m.SaveObjectProp(prefsObject, prefsProperty, []byte("musicEnabled: [oops")); err != nil {
		t.Fatal(err)
	}
	s, err := NewPreferenceStore(m)
	if err == nil {
		t.Error("corrupt preferences loaded without error")
	}
	if s == nil || !s.Get().MusicEnabled {
		t.Error("corrupt preferences did not fall back to defaults")
	}
}

package bloomfield

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMusicSilent(t *testing.T) {
	m, err := LoadMusic(AudioConfig{})
	if err != nil {
		t.Fatalf("LoadMusic(no track): %v", err)
	}
	if m.HasTrack() || m.Enabled() {
		t.Errorf("silent music: track=%v enabled=%v", m.HasTrack(), m.Enabled())
	}
	if m.Label() != "Play Music" {
		t.Errorf("Label = %q", m.Label())
	}
	if !m.Toggle() || m.Label() != "Pause Music" {
		t.Errorf("Toggle on a silent track did not record the choice")
	}
	if m.Toggle() {
		t.Error("second Toggle did not switch off")
	}
}

func TestLoadMusicMissingFile(t *testing.T) {
	m, err := LoadMusic(AudioConfig{Track: filepath.Join(t.TempDir(), "gone.mp3")})
	if err == nil {
		t.Fatal("missing track loaded without error")
	}
	if m == nil || m.HasTrack() {
		t.Error("failed load did not return a usable silent Music")
	}
}

func TestDecodeTrackUnsupported(t *testing.T) {
	_, err := decodeTrack("song.wav", bytes.NewReader(nil))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v, want unsupported format", err)
	}
}

func TestDecodeTrackGarbage(t *testing.T) {
	for _, name := range []string{"a.mp3", "b.OGG"} {
		if _, err := decodeTrack(name, bytes.NewReader([]byte("not audio"))); err == nil {
			t.Errorf("decodeTrack(%s, garbage) err = nil", name)
		}
	}
}

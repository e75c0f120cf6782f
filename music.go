package bloomfield

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
)

// Music plays one looping background track. A Music with no track is
// silent; toggling still records the user's choice.
type Music struct {
	player  *audio.Player
	enabled bool
}

// audioContext is created once per process; Ebitengine allows only one.
var audioContext *audio.Context

func ensureAudioContext(sampleRate int) *audio.Context {
	if audioContext == nil {
		audioContext = audio.NewContext(sampleRate)
	}
	return audioContext
}

// LoadMusic decodes the .mp3 or .ogg file at cfg.Track into a looping
// player. An empty track yields a silent Music and no error.
func LoadMusic(cfg AudioConfig) (*Music, error) {
	if cfg.Track == "" {
		return &Music{}, nil
	}
	data, err := os.ReadFile(cfg.Track)
	if err != nil {
		return &Music{}, fmt.Errorf("load music %s: %w", cfg.Track, err)
	}
	stream, err := decodeTrack(cfg.Track, bytes.NewReader(data))
	if err != nil {
		return &Music{}, err
	}
	ctx := ensureAudioContext(cfg.SampleRate)
	player, err := ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return &Music{}, fmt.Errorf("load music %s: %w", cfg.Track, err)
	}
	player.SetVolume(cfg.Volume)
	return &Music{player: player}, nil
}

type lengthReadSeeker interface {
	io.ReadSeeker
	Length() int64
}

func decodeTrack(path string, r io.ReadSeeker) (lengthReadSeeker, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(r)
		if err != nil {
			return nil, fmt.Errorf("decode mp3 %s: %w", path, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(r)
		if err != nil {
			return nil, fmt.Errorf("decode ogg %s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("load music %s: unsupported format %q (want .mp3 or .ogg)", path, ext)
	}
}

// Enabled reports whether music is switched on.
func (m *Music) Enabled() bool { return m.enabled }

// HasTrack reports whether a track was loaded.
func (m *Music) HasTrack() bool { return m.player != nil }

// SetEnabled starts or pauses playback.
func (m *Music) SetEnabled(on bool) {
	m.enabled = on
	if m.player == nil {
		return
	}
	if on {
		m.player.Play()
	} else {
		m.player.Pause()
	}
}

// Toggle flips playback and returns the new state.
func (m *Music) Toggle() bool {
	m.SetEnabled(!m.enabled)
	return m.enabled
}

// Label is the text of the music button.
func (m *Music) Label() string {
	if m.enabled {
		return "Pause Music"
	}
	return "Play Music"
}

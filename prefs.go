package bloomfield

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Preferences are the per-user settings kept between runs.
type Preferences struct {
	MusicEnabled bool `yaml:"musicEnabled"`
}

// DefaultPreferences returns the settings of a first run.
func DefaultPreferences() Preferences {
	return Preferences{MusicEnabled: true}
}

// Storage location inside the gdata app directory.
const (
	prefsObject   = "prefs"
	prefsProperty = "card"
)

// PreferenceStore loads and saves Preferences through gdata. With a nil
// manager it works from memory only and Save is a no-op.
type PreferenceStore struct {
	manager *gdata.Manager
	prefs   Preferences
}

// OpenPreferenceStore opens the gdata storage for appName and loads the
// saved preferences. Storage that cannot be opened degrades to memory only;
// the error is logged, not returned.
func OpenPreferenceStore(appName string) *PreferenceStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logf("preferences: open storage: %v (not persisting)", err)
		m = nil
	}
	s, err := NewPreferenceStore(m)
	if err != nil {
		logf("preferences: %v (using defaults)", err)
	}
	return s
}

// NewPreferenceStore wraps manager, which may be nil, and loads the saved
// preferences. A load error leaves the defaults in place; the store is
// usable either way.
func NewPreferenceStore(manager *gdata.Manager) (*PreferenceStore, error) {
	s := &PreferenceStore{manager: manager, prefs: DefaultPreferences()}
	return s, s.Load()
}

// Load reads the saved preferences. Missing data is not an error.
func (s *PreferenceStore) Load() error {
	s.prefs = DefaultPreferences()
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode preferences: %w", err)
	}
	s.prefs = p
	return nil
}

// Save writes the current preferences.
func (s *PreferenceStore) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Get returns the current preferences.
func (s *PreferenceStore) Get() Preferences { return s.prefs }

// SetMusicEnabled updates and saves the music preference.
func (s *PreferenceStore) SetMusicEnabled(on bool) error {
	s.prefs.MusicEnabled = on
	return s.Save()
}

// Persistent reports whether preferences survive the process.
func (s *PreferenceStore) Persistent() bool { return s.manager != nil }

package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SoundManifest represents the sound manifest loaded from YAML.
// It defines the structure of data/sounds.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: assets/sounds
//	sounds:
//	  - id: heavy_boom
//	    synth: heavy_boom
//	  - id: launch
//	    path: launch.ogg
//	music:
//	  synth: festive
//	  volume: 0.5
type SoundManifest struct {
	Version  string          `yaml:"version"`   // Manifest version
	BasePath string          `yaml:"base_path"` // Base path for local sound files
	Sounds   []SoundResource `yaml:"sounds"`    // One-shot effects keyed by id
	Music    *MusicResource  `yaml:"music"`     // Optional looping background track
}

// SoundResource is a single sound effect definition.
// Exactly one of Path, URL and Synth must be set.
//
// Examples:
//
//	- id: launch
//	  path: launch.ogg
//	- id: heavy_boom
//	  url: https://example.com/boom.mp3
//	- id: crackle
//	  synth: crackle
type SoundResource struct {
	ID    string `yaml:"id"`              // Name passed to Play
	Path  string `yaml:"path,omitempty"`  // Relative file path from base_path
	URL   string `yaml:"url,omitempty"`   // Remote file fetched over HTTP
	Synth string `yaml:"synth,omitempty"` // Built-in synthesized preset
}

// MusicResource is the background music track. Same source rules as SoundResource.
type MusicResource struct {
	Path   string  `yaml:"path,omitempty"`
	URL    string  `yaml:"url,omitempty"`
	Synth  string  `yaml:"synth,omitempty"`
	Volume float64 `yaml:"volume,omitempty"` // 0 means defaultMusicVolume
}

const defaultMusicVolume = 0.5

// ParseSoundManifest parses and validates a manifest.
func ParseSoundManifest(data []byte) (*SoundManifest, error) {
	var manifest SoundManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse sound manifest: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sound manifest: %w", err)
	}
	return &manifest, nil
}

// Validate checks ids are unique and every entry names exactly one source.
func (m *SoundManifest) Validate() error {
	seen := make(map[string]bool, len(m.Sounds))
	for i, s := range m.Sounds {
		if s.ID == "" {
			return fmt.Errorf("sound #%d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate sound id %q", s.ID)
		}
		seen[s.ID] = true

		if err := validateSource(s.Path, s.URL, s.Synth); err != nil {
			return fmt.Errorf("sound %q: %w", s.ID, err)
		}
	}

	if m.Music != nil {
		if err := validateSource(m.Music.Path, m.Music.URL, m.Music.Synth); err != nil {
			return fmt.Errorf("music: %w", err)
		}
		if m.Music.Volume < 0 || m.Music.Volume > 1 {
			return fmt.Errorf("music: volume must be within [0, 1], got %.2f", m.Music.Volume)
		}
	}
	return nil
}

func validateSource(path, url, synth string) error {
	n := 0
	for _, v := range []string{path, url, synth} {
		if v != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("exactly one of path, url, synth must be set (got %d)", n)
	}
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("unsupported url scheme: %s", url)
	}
	if synth != "" && !HasPreset(synth) {
		return fmt.Errorf("unknown synth preset %q", synth)
	}
	return nil
}

// MusicVolume returns the configured music gain or the default.
func (m *MusicResource) MusicVolume() float64 {
	if m.Volume <= 0 {
		return defaultMusicVolume
	}
	return m.Volume
}

// buildFullPath constructs the full file path for a resource.
// It combines the base path with the resource's relative path.
//
// Parameters:
//   - basePath: The base path from SoundManifest (e.g., "assets/sounds")
//   - relativePath: The resource's relative path (e.g., "launch.ogg")
//
// Returns:
//   - The full file path (e.g., "assets/sounds/launch.ogg")
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	if len(relativePath) > 0 && relativePath[0] == '/' {
		return basePath + relativePath
	}
	return basePath + "/" + relativePath
}

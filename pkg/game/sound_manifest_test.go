package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/fireworks/pkg/fireworks"
)

func TestParseSoundManifest(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SoundManifest)
	}{
		{
			name: "mixed sources",
			yamlContent: `
version: "1.0"
base_path: assets/sounds
sounds:
  - id: launch
    path: launch.ogg
  - id: heavy_boom
    url: https://example.com/boom.mp3
  - id: crackle
    synth: crackle
music:
  synth: festive
`,
			validate: func(t *testing.T, m *SoundManifest) {
				if len(m.Sounds) != 3 {
					t.Fatalf("expected 3 sounds, got %d", len(m.Sounds))
				}
				if m.Sounds[0].Path != "launch.ogg" || m.Sounds[1].URL == "" || m.Sounds[2].Synth != "crackle" {
					t.Errorf("unexpected sounds %+v", m.Sounds)
				}
				if m.Music == nil || m.Music.MusicVolume() != defaultMusicVolume {
					t.Errorf("unexpected music %+v", m.Music)
				}
			},
		},
		{
			name:        "missing id",
			yamlContent: "sounds:\n  - synth: pop\n",
			wantErr:     true,
			errContains: "no id",
		},
		{
			name:        "duplicate id",
			yamlContent: "sounds:\n  - id: pop\n    synth: pop\n  - id: pop\n    synth: pop\n",
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name:        "two sources",
			yamlContent: "sounds:\n  - id: pop\n    synth: pop\n    path: pop.ogg\n",
			wantErr:     true,
			errContains: "exactly one",
		},
		{
			name:        "no source",
			yamlContent: "sounds:\n  - id: pop\n",
			wantErr:     true,
			errContains: "exactly one",
		},
		{
			name:        "unknown preset",
			yamlContent: "sounds:\n  - id: pop\n    synth: kazoo\n",
			wantErr:     true,
			errContains: "unknown synth preset",
		},
		{
			name:        "bad url scheme",
			yamlContent: "sounds:\n  - id: pop\n    url: ftp://host/pop.mp3\n",
			wantErr:     true,
			errContains: "url scheme",
		},
		{
			name:        "music volume out of range",
			yamlContent: "music:\n  synth: festive\n  volume: 2\n",
			wantErr:     true,
			errContains: "volume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseSoundManifest([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, m)
			}
		})
	}
}

func TestBuildFullPath(t *testing.T) {
	tests := []struct {
		base, rel, want string
	}{
		{"", "launch.ogg", "launch.ogg"},
		{"assets/sounds", "launch.ogg", "assets/sounds/launch.ogg"},
		{"assets/sounds", "/launch.ogg", "assets/sounds/launch.ogg"},
	}
	for _, tt := range tests {
		if got := buildFullPath(tt.base, tt.rel); got != tt.want {
			t.Errorf("buildFullPath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
		}
	}
}

// TestShippedSoundManifest 仓库自带的清单覆盖模拟用到的全部音效
func TestShippedSoundManifest(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "sounds.yaml"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	m, err := ParseSoundManifest(data)
	if err != nil {
		t.Fatalf("ParseSoundManifest error: %v", err)
	}

	ids := make(map[string]bool)
	for _, s := range m.Sounds {
		ids[s.ID] = true
	}
	for _, name := range fireworks.SoundNames() {
		if !ids[name] {
			t.Errorf("manifest is missing sound %q", name)
		}
	}
	if m.Music == nil {
		t.Error("manifest should define background music")
	}
}

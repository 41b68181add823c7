package game

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/decker502/fireworks/pkg/fireworks"
)

func newTestSoundManager() (*SoundManager, *recordingOutput) {
	out := &recordingOutput{}
	sm := NewSoundManager(out, nil)
	sm.SetRand(rand.New(rand.NewSource(1)))
	return sm, out
}

// TestPlayUnloadedIsSilent 未加载的音效静默忽略
func TestPlayUnloadedIsSilent(t *testing.T) {
	sm, out := newTestSoundManager()

	sm.Play(fireworks.SoundHeavyBoom, fireworks.PlayOptions{})
	if out.count() != 0 {
		t.Errorf("expected no voices, got %d", out.count())
	}
	if sm.VoicesStarted() != 0 {
		t.Errorf("expected 0 voices started, got %d", sm.VoicesStarted())
	}
}

// TestPlayNilOutput 没有输出后端时不会 panic
func TestPlayNilOutput(t *testing.T) {
	sm := NewSoundManager(nil, nil)
	sm.Register("x", constBuffer(0.5, 100))
	sm.Play("x", fireworks.PlayOptions{})
	sm.Resume()
	sm.SetMusic(true)
}

// TestPlayGain 默认音量 0.5 × 0.6，静音时输出为 0
func TestPlayGain(t *testing.T) {
	tests := []struct {
		name   string
		opts   fireworks.PlayOptions
		muted  bool
		volume float64
		want   float64
	}{
		{"default volume", fireworks.PlayOptions{Rate: 1}, false, 1, 0.5 * 0.6},
		{"explicit volume", fireworks.PlayOptions{Volume: 0.8, Rate: 1}, false, 1, 0.8 * 0.6},
		{"master volume", fireworks.PlayOptions{Volume: 1, Rate: 1}, false, 0.5, 0.6 * 0.5},
		{"muted", fireworks.PlayOptions{Volume: 1, Rate: 1}, true, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, out := newTestSoundManager()
			sm.Register("tone", constBuffer(1.0, 4800))
			sm.SetMute(tt.muted)
			sm.SetVolume(tt.volume)

			sm.Play("tone", tt.opts)
			if out.count() != 1 {
				t.Fatalf("expected 1 voice, got %d", out.count())
			}

			// 抖动后速率不为 1，取中段样本避开重采样边缘
			got := sampleAt(out.voices[0], 2000)
			if diff := got - tt.want; diff > 0.01 || diff < -0.01 {
				t.Errorf("sample: got %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

// TestMuteAffectsPlayingVoice 静音立即作用于正在播放的声部
func TestMuteAffectsPlayingVoice(t *testing.T) {
	sm, out := newTestSoundManager()
	sm.Register("tone", constBuffer(1.0, 48000))
	sm.SetMute(false)
	sm.Play("tone", fireworks.PlayOptions{Volume: 1})

	voice := out.voices[0]
	buf := make([][2]float64, 256)
	voice.Stream(buf)
	if buf[100][0] == 0 {
		t.Fatal("expected audible output before mute")
	}

	sm.SetMute(true)
	voice.Stream(buf)
	for i := range buf {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			t.Fatalf("frame %d not silent after mute: %v", i, buf[i])
		}
	}
}

// TestPlayRateJitter 速率在 [0.9, 1.1) × rate 之间
func TestPlayRateJitter(t *testing.T) {
	const frames = 48000
	ff := float64(frames)
	tests := []struct {
		rate     float64
		min, max int
	}{
		{1, int(ff / 1.1), int(ff/0.9) + 1},
		{2, int(ff / 2.2), int(ff/1.8) + 1},
	}

	for _, tt := range tests {
		sm, out := newTestSoundManager()
		sm.SetMute(false)
		sm.Register("tone", constBuffer(0.5, frames))
		for i := 0; i < 5; i++ {
			sm.Play("tone", fireworks.PlayOptions{Rate: tt.rate})
		}
		for i, v := range out.voices {
			got, _ := drain(v, frames*4)
			// 重采样器边界可能多出或少掉几个样本
			if got < tt.min-16 || got > tt.max+16 {
				t.Errorf("rate %.1f voice %d: %d frames, want [%d, %d]", tt.rate, i, got, tt.min, tt.max)
			}
		}
	}
}

// TestLoadSynthManifest 合成清单加载全部七种音效
func TestLoadSynthManifest(t *testing.T) {
	sm, out := newTestSoundManager()

	manifest := &SoundManifest{}
	for _, name := range fireworks.SoundNames() {
		manifest.Sounds = append(manifest.Sounds, SoundResource{ID: name, Synth: name})
	}
	manifest.Music = &MusicResource{Synth: PresetFestive}

	sm.LoadAsync(context.Background(), manifest)
	sm.Wait()

	for _, name := range fireworks.SoundNames() {
		if !sm.Loaded(name) {
			t.Errorf("sound %s not loaded", name)
		}
	}

	sm.Play(fireworks.SoundPop, fireworks.PlayOptions{})
	if out.count() != 1 {
		t.Errorf("expected 1 voice, got %d", out.count())
	}
}

// TestLoadPartialFailure 单个失败不影响其他音效
func TestLoadPartialFailure(t *testing.T) {
	files := map[string][]byte{
		"sounds/good.au": buildAU(8000, []int16{1000, 2000, 3000, 4000}),
		"sounds/bad.au":  []byte("garbage"),
	}
	read := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return data, nil
		}
		return nil, fmt.Errorf("not found: %s", path)
	}

	sm := NewSoundManager(&recordingOutput{}, read)
	manifest := &SoundManifest{
		BasePath: "sounds",
		Sounds: []SoundResource{
			{ID: "good", Path: "good.au"},
			{ID: "bad", Path: "bad.au"},
			{ID: "missing", Path: "missing.au"},
		},
	}

	err := sm.Load(context.Background(), manifest)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if !strings.Contains(err.Error(), "bad") || !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name both failures: %v", err)
	}
	if !sm.Loaded("good") {
		t.Error("good sound not loaded")
	}
	if sm.Loaded("bad") || sm.Loaded("missing") {
		t.Error("failed sounds should not be registered")
	}
}

// TestLoadFromURL 远程音效通过 HTTP 获取
func TestLoadFromURL(t *testing.T) {
	au := buildAU(48000, []int16{100, 200, 300})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boom.au" {
			http.NotFound(w, r)
			return
		}
		w.Write(au)
	}))
	defer server.Close()

	sm := NewSoundManager(&recordingOutput{}, nil)
	sm.SetHTTPClient(server.Client())

	manifest := &SoundManifest{Sounds: []SoundResource{
		{ID: "boom", URL: server.URL + "/boom.au"},
		{ID: "gone", URL: server.URL + "/gone.au"},
	}}
	err := sm.Load(context.Background(), manifest)

	if !sm.Loaded("boom") {
		t.Error("remote sound not loaded")
	}
	if sm.Loaded("gone") {
		t.Error("404 sound should not be registered")
	}
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected 404 error, got %v", err)
	}
}

// TestMusicToggle 音乐加载前后切换都生效
func TestMusicToggle(t *testing.T) {
	sm, out := newTestSoundManager()

	// 未加载时只记录开关
	if sm.SetMusic(true) {
		t.Error("music should not be playing before it is loaded")
	}
	if !sm.MusicOn() {
		t.Error("music switch not recorded")
	}

	sm.setMusic(constBuffer(1.0, 100), 0.5)
	if out.count() != 1 {
		t.Fatalf("music should start once loaded, voices=%d", out.count())
	}

	track := out.voices[0]
	buf := make([][2]float64, 300)
	n, ok := track.Stream(buf)
	if n != 300 || !ok {
		t.Fatalf("music loop returned n=%d ok=%v", n, ok)
	}
	if buf[250][0] != 0.5 {
		t.Errorf("looped sample: got %v, want 0.5", buf[250][0])
	}

	sm.SetMusic(false)
	track.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("paused music not silent: %v", buf[0][0])
	}

	// 再次打开不会重复加入输出
	if !sm.SetMusic(true) {
		t.Error("expected music playing")
	}
	if out.count() != 1 {
		t.Errorf("music added twice, voices=%d", out.count())
	}
}

// TestMusicIgnoresEffectMute 背景音乐不受音效静音影响
func TestMusicIgnoresEffectMute(t *testing.T) {
	sm, out := newTestSoundManager()
	sm.SetMute(true)
	sm.setMusic(constBuffer(1.0, 100), 1.0)
	sm.SetMusic(true)

	buf := make([][2]float64, 10)
	out.voices[0].Stream(buf)
	if buf[0][0] != 1.0 {
		t.Errorf("music muted by effect mute: %v", buf[0][0])
	}
}

// TestResume 转发到支持 Resume 的后端
func TestResume(t *testing.T) {
	sm, out := newTestSoundManager()
	sm.Resume()
	if out.resumed != 1 {
		t.Errorf("expected 1 resume, got %d", out.resumed)
	}
}

func TestSeedForStable(t *testing.T) {
	if seedFor("pop") != seedFor("pop") {
		t.Error("seed not stable")
	}
	if seedFor("pop") == seedFor("crackle") {
		t.Error("different ids share a seed")
	}
}

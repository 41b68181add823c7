package main

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

var statusBase = time.Date(2026, 2, 17, 20, 0, 0, 0, time.UTC)

// TestStatusGreeting 祝福语在时长内可见
func TestStatusGreeting(t *testing.T) {
	s := newStatusLine([]string{"新年快乐", "万事如意"}, 2500*time.Millisecond, rand.New(rand.NewSource(1)))

	if got := s.Greeting(statusBase); got != "" {
		t.Fatalf("Expected no greeting before ShowGreeting, got %q", got)
	}

	g := s.ShowGreeting(statusBase)
	if g != "新年快乐" && g != "万事如意" {
		t.Fatalf("unexpected greeting %q", g)
	}
	if got := s.Greeting(statusBase.Add(2 * time.Second)); got != g {
		t.Errorf("greeting should still be visible, got %q", got)
	}
	if got := s.Greeting(statusBase.Add(2500 * time.Millisecond)); got != "" {
		t.Errorf("greeting should be hidden, got %q", got)
	}
}

// TestStatusText 状态栏反映开关
func TestStatusText(t *testing.T) {
	s := newStatusLine(nil, time.Second, rand.New(rand.NewSource(1)))

	text := s.Text(true, false)
	if !strings.Contains(text, "music on") || !strings.Contains(text, "sound off") {
		t.Errorf("unexpected status text %q", text)
	}
	if s.ShowGreeting(statusBase) != "" {
		t.Error("empty greeting list should show nothing")
	}
}

// TestDrawText 宽字符占两列
func TestDrawText(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 3)

	end := drawText(screen, 1, 0, "a新b", tcell.StyleDefault)
	if end != 5 {
		t.Errorf("end column = %d, want 5", end)
	}

	tests := []struct {
		x    int
		want rune
	}{
		{1, 'a'},
		{2, '新'},
		{4, 'b'},
	}
	for _, tt := range tests {
		if r, _, _, _ := screen.GetContent(tt.x, 0); r != tt.want {
			t.Errorf("column %d: got %q, want %q", tt.x, r, tt.want)
		}
	}
}

// TestSynthManifest 内置清单覆盖全部音效
func TestSynthManifest(t *testing.T) {
	m := synthManifest()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if len(m.Sounds) != 7 {
		t.Errorf("expected 7 sounds, got %d", len(m.Sounds))
	}
}

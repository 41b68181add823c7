package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func near(a, b colorful.Color) bool {
	return math.Abs(a.R-b.R) < 1e-6 && math.Abs(a.G-b.G) < 1e-6 && math.Abs(a.B-b.B) < 1e-6
}

func TestTerminalCanvasSize(t *testing.T) {
	c := NewTerminalCanvas(80, 24, 5)
	w, h := c.LogicalSize()
	if w != 400 || h != 240 {
		t.Errorf("logical size: got %vx%v, want 400x240", w, h)
	}

	x, y := c.ToLogical(10, 3)
	if x != 52.5 || y != 35 {
		t.Errorf("ToLogical(10, 3) = (%v, %v), want (52.5, 35)", x, y)
	}

	c.Resize(0, 0)
	if w, h := c.LogicalSize(); w != 5 || h != 10 {
		t.Errorf("minimum size: got %vx%v", w, h)
	}
}

func TestTerminalCanvasFade(t *testing.T) {
	c := NewTerminalCanvas(4, 2, 1)

	c.Fade(red, 1)
	if !near(c.At(3, 3), colorful.Color{R: 1}) {
		t.Errorf("full fade: got %v", c.At(3, 3))
	}

	c.Fade(color.NRGBA{A: 255}, 0.25)
	if !near(c.At(0, 0), colorful.Color{R: 0.75}) {
		t.Errorf("partial fade: got %v", c.At(0, 0))
	}
}

func TestTerminalCanvasFillCircle(t *testing.T) {
	c := NewTerminalCanvas(20, 10, 2)

	// 半径 6 逻辑像素 = 3 个画布像素
	c.FillCircle(20, 20, 6, white, 1)
	if !near(c.At(10, 10), colorful.Color{R: 1, G: 1, B: 1}) {
		t.Errorf("center not lit: %v", c.At(10, 10))
	}
	if !near(c.At(0, 0), colorful.Color{}) {
		t.Errorf("far pixel lit: %v", c.At(0, 0))
	}
	if !near(c.At(14, 10), colorful.Color{}) {
		t.Errorf("pixel outside radius lit: %v", c.At(14, 10))
	}

	// 小于一个像素的圆也要可见
	c.FillCircle(1, 1, 0.5, red, 0.5)
	if !near(c.At(0, 0), colorful.Color{R: 0.5}) {
		t.Errorf("tiny circle: got %v", c.At(0, 0))
	}

	// 越界不 panic
	c.FillCircle(-100, -100, 10, red, 1)
}

func TestTerminalCanvasStrokeLine(t *testing.T) {
	c := NewTerminalCanvas(10, 5, 1)
	c.StrokeLine(0.5, 0.5, 9.5, 9.5, 1, white, 1)

	for i := 0; i < 10; i++ {
		if !near(c.At(i, i), colorful.Color{R: 1, G: 1, B: 1}) {
			t.Errorf("diagonal pixel %d not lit: %v", i, c.At(i, i))
		}
	}
	if !near(c.At(9, 0), colorful.Color{}) {
		t.Errorf("off-line pixel lit: %v", c.At(9, 0))
	}

	// 同一像素内的线段只混合一次
	c.StrokeLine(5.2, 0.2, 5.4, 0.4, 1, red, 0.5)
	if !near(c.At(5, 0), colorful.Color{R: 0.5}) {
		t.Errorf("degenerate line: got %v", c.At(5, 0))
	}
}

func TestTerminalCanvasFlush(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(3, 2)

	c := NewTerminalCanvas(3, 2, 1)
	c.FillCircle(1.5, 0.5, 0.1, red, 1)   // 第 0 行上半
	c.FillCircle(1.5, 1.5, 0.1, white, 1) // 第 0 行下半
	c.Flush(screen)

	mainc, _, style, _ := screen.GetContent(1, 0)
	if mainc != halfBlock {
		t.Errorf("expected half block, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground: got %v", fg)
	}
	if bg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("background: got %v", bg)
	}

	_, _, style, _ = screen.GetContent(0, 1)
	fg, bg, _ = style.Decompose()
	if fg != tcell.NewRGBColor(0, 0, 0) || bg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("untouched cell: fg=%v bg=%v", fg, bg)
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  uint8
	}{
		{1, 255},
		{0.5, 128},
		{0, 0},
		{-1, 0},
		{2, 255},
	}
	for _, tt := range tests {
		if got := withAlpha(red, tt.alpha).A; got != tt.want {
			t.Errorf("withAlpha(%v): got %d, want %d", tt.alpha, got, tt.want)
		}
	}
}

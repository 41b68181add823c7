package fireworks

import "testing"

// TestGallopStartResets Start 重置位置、帧计数并清空粒子，重复调用结果相同
func TestGallopStartResets(t *testing.T) {
	f, _ := newTestFrame(40)
	g := NewGallop()
	g.Start(f.Height)

	for i := 0; i < 30; i++ {
		g.Update(f)
	}
	if len(g.Particles) == 0 || g.Frame() != 30 {
		t.Fatalf("setup: particles=%d frame=%d", len(g.Particles), g.Frame())
	}

	for i := 0; i < 2; i++ {
		g.Start(f.Height)
		if !g.Active() {
			t.Error("expected active after Start")
		}
		if g.CenterX != -200 {
			t.Errorf("CenterX: got %v, want -200", g.CenterX)
		}
		if g.Frame() != 0 {
			t.Errorf("frame: got %d, want 0", g.Frame())
		}
		if len(g.Particles) != 0 {
			t.Errorf("particles: got %d, want 0", len(g.Particles))
		}
	}
}

// TestGallopEmitsEveryOtherFrame 偶数帧为每个轮廓点发射一个粒子
func TestGallopEmitsEveryOtherFrame(t *testing.T) {
	f, _ := newTestFrame(41)
	g := NewGallop()
	g.Start(f.Height)

	g.Update(f) // frame 1
	if len(g.Particles) != 0 {
		t.Fatalf("odd frame emitted %d particles", len(g.Particles))
	}
	g.Update(f) // frame 2
	if len(g.Particles) != 9 {
		t.Fatalf("even frame: got %d particles, want 9", len(g.Particles))
	}
	for _, p := range g.Particles {
		if !p.Flicker {
			t.Error("gallop particles must flicker")
		}
		if p.Color != ColorGold && p.Color != ColorOrange {
			t.Errorf("unexpected color %v", p.Color)
		}
		if p.VX >= -0.5*0.9+1e-9 {
			t.Errorf("particle not drifting left: vx=%v", p.VX)
		}
	}
}

// TestGallopLegsMove 两条腿的偏移随帧变化
func TestGallopLegsMove(t *testing.T) {
	f, _ := newTestFrame(42)
	g := NewGallop()
	g.Start(f.Height)

	first := g.Offsets()
	for i := 0; i < 5; i++ {
		g.Update(f)
	}
	later := g.Offsets()

	if len(first) != 9 || len(later) != 9 {
		t.Fatalf("offsets: got %d and %d, want 9", len(first), len(later))
	}
	for i := 0; i < 7; i++ {
		if first[i] != later[i] {
			t.Errorf("fixed offset %d changed: %v -> %v", i, first[i], later[i])
		}
	}
	if first[7] == later[7] || first[8] == later[8] {
		t.Error("leg offsets did not move")
	}
}

// TestGallopDeactivatesPastViewport 越过右边界 200 像素后停止，残留粒子淡出后不再绘制
func TestGallopDeactivatesPastViewport(t *testing.T) {
	f, _ := newTestFrame(43)
	g := NewGallop()
	g.Start(f.Height)

	ticks := 0
	for g.Active() && ticks < 1000 {
		g.Update(f)
		ticks++
	}
	if g.Active() {
		t.Fatal("gallop never deactivated")
	}
	if g.CenterX <= f.Width+200 {
		t.Errorf("deactivated at x=%v, before %v", g.CenterX, f.Width+200)
	}

	for i := 0; i < 100 && g.Visible(); i++ {
		g.Update(f)
	}
	if g.Visible() {
		t.Fatal("inactive gallop still has particles")
	}

	canvas := &recordingCanvas{}
	g.Draw(canvas, f.Rand)
	if len(canvas.circles) != 0 {
		t.Errorf("inactive empty gallop drew %d circles", len(canvas.circles))
	}
}

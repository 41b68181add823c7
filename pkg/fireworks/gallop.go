package fireworks

import (
	"math"
	"math/rand"
)

const (
	gallopSpeed     = 5.0
	gallopMargin    = 200.0
	gallopBob       = 30.0
	gallopStride    = 20.0
	gallopJitter    = 2.0
	gallopDrag      = 0.9
	gallopFade      = 0.02
	gallopGoldRatio = 0.7
)

// gallopTemplate 奔马轮廓的固定偏移（头、颈、背、身体、尾）
// 两条腿的偏移由 legOffsets 按帧计数计算
var gallopTemplate = []Point{
	{40, -30}, {35, -20}, {20, -10},
	{0, 0}, {20, 0}, {-20, 0},
	{-30, 5},
}

// Gallop 从左向右奔过屏幕的金马，由粒子拼成
//
// 与爆炸无关的独立装饰动画。粒子使用自己的漂移规则，
// 不受 Particle 的摩擦/重力/衰减参数影响。
type Gallop struct {
	CenterX, CenterY float64
	Particles        []*Particle

	active bool
	frame  int
}

// NewGallop 创建一匹未激活的金马
func NewGallop() *Gallop {
	return &Gallop{CenterX: -gallopMargin}
}

// Active 是否正在奔跑
func (g *Gallop) Active() bool {
	return g.active
}

// Frame 当前帧计数
func (g *Gallop) Frame() int {
	return g.frame
}

// Start 重新开始奔跑：位置、帧计数、粒子全部重置
// 无论之前处于什么状态，结果都相同
func (g *Gallop) Start(height float64) {
	g.active = true
	g.CenterX = -gallopMargin
	g.CenterY = height * 0.5
	g.frame = 0
	g.Particles = nil
}

// Offsets 当前帧的轮廓偏移
func (g *Gallop) Offsets() []Point {
	stride := math.Sin(float64(g.frame)*0.2) * gallopStride
	out := make([]Point, 0, len(gallopTemplate)+2)
	out = append(out, gallopTemplate...)
	out = append(out,
		Point{10 + stride, 30},
		Point{-10 - stride, 30},
	)
	return out
}

// Update 推进一帧；未激活时只让残留粒子继续淡出
func (g *Gallop) Update(f *Frame) {
	if g.active {
		g.CenterX += gallopSpeed
		g.CenterY = f.Height*0.5 + math.Sin(float64(g.frame)*0.1)*gallopBob
		g.frame++

		if g.frame%2 == 0 {
			g.emit(f.Rand)
		}

		if g.CenterX > f.Width+gallopMargin {
			g.active = false
		}
	}

	g.drift()
}

func (g *Gallop) emit(rng *rand.Rand) {
	for _, off := range g.Offsets() {
		c := ColorOrange
		if rng.Float64() < gallopGoldRatio {
			c = ColorGold
		}
		p := NewParticle(
			g.CenterX+off.X+between(rng, -gallopJitter, gallopJitter),
			g.CenterY+off.Y+between(rng, -gallopJitter, gallopJitter),
			c,
			between(rng, -2, -0.5), between(rng, -0.5, 0.5),
			ParticleProfile{Friction: DefaultFriction, Decay: 0.05, Size: DefaultSize, Flicker: true},
		)
		g.Particles = append(g.Particles, p)
	}
}

// drift 奔马粒子只做水平阻尼和线性淡出
func (g *Gallop) drift() {
	live := g.Particles[:0]
	for _, p := range g.Particles {
		p.VX *= gallopDrag
		p.X += p.VX
		p.Y += p.VY
		p.Alpha -= gallopFade
		if p.Alive() {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(g.Particles); i++ {
		g.Particles[i] = nil
	}
	g.Particles = live
}

// Visible 激活中或仍有残留粒子
func (g *Gallop) Visible() bool {
	return g.active || len(g.Particles) > 0
}

// Draw 绘制全部粒子
func (g *Gallop) Draw(c Canvas, rng *rand.Rand) {
	if !g.Visible() {
		return
	}
	drawParticles(g.Particles, c, rng)
}

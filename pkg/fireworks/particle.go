package fireworks

import (
	"image/color"
	"math"
	"math/rand"
)

// 默认粒子参数
const (
	DefaultFriction = 0.95
	DefaultGravity  = 0.04
	DefaultSize     = 2.0
	minDefaultDecay = 0.015
	maxDefaultDecay = 0.03
)

// 十字分裂参数
const (
	splitAlpha    = 0.7
	splitChance   = 0.1
	splitCount    = 4
	splitSpeed    = 2.0
	splitDecay    = 0.04
	splitSize     = 1.5
	flickerChance = 0.5
)

// Particle 单个衰减的发光点
// alpha 同时作为剩余寿命，<= 0 时由所有者移除
type Particle struct {
	X, Y   float64
	VX, VY float64

	Color color.NRGBA
	Alpha float64

	Friction float64
	Gravity  float64
	Decay    float64
	Size     float64
	Flicker  bool

	// Splits 表示十字星：衰减到一定程度后会一次性分裂出 4 个子粒子
	Splits   bool
	hasSplit bool
}

// ParticleProfile 粒子创建时固定的物理与外观参数
type ParticleProfile struct {
	Friction float64
	Gravity  float64
	Decay    float64
	Size     float64
	Flicker  bool
}

// DefaultProfile 返回标准粒子参数，衰减率在 [0.015, 0.03) 内随机
func DefaultProfile(rng *rand.Rand) ParticleProfile {
	return ParticleProfile{
		Friction: DefaultFriction,
		Gravity:  DefaultGravity,
		Decay:    between(rng, minDefaultDecay, maxDefaultDecay),
		Size:     DefaultSize,
	}
}

// NewParticle 创建 alpha = 1 的粒子
func NewParticle(x, y float64, c color.NRGBA, vx, vy float64, p ParticleProfile) *Particle {
	return &Particle{
		X:        x,
		Y:        y,
		VX:       vx,
		VY:       vy,
		Color:    c,
		Alpha:    1,
		Friction: p.Friction,
		Gravity:  p.Gravity,
		Decay:    p.Decay,
		Size:     p.Size,
		Flicker:  p.Flicker,
	}
}

// Update 显式欧拉积分一步：摩擦、重力、位移、衰减
func (p *Particle) Update() {
	p.VX *= p.Friction
	p.VY *= p.Friction
	p.VY += p.Gravity
	p.X += p.VX
	p.Y += p.VY
	p.Alpha -= p.Decay
}

// Alive alpha > 0
func (p *Particle) Alive() bool {
	return p.Alpha > 0
}

// HasSplit 十字星是否已经分裂过
func (p *Particle) HasSplit() bool {
	return p.hasSplit
}

// Draw 绘制实心圆；闪烁粒子每次绘制有 50% 概率使用一半的 alpha
func (p *Particle) Draw(c Canvas, rng *rand.Rand) {
	alpha := p.Alpha
	if p.Flicker && rng.Float64() < flickerChance {
		alpha *= 0.5
	}
	c.FillCircle(p.X, p.Y, p.Size, p.Color, alpha)
}

// split 生成 4 个呈 90° 交叉的子粒子
func (p *Particle) split() []*Particle {
	p.hasSplit = true
	profile := ParticleProfile{
		Friction: DefaultFriction,
		Gravity:  DefaultGravity,
		Decay:    splitDecay,
		Size:     splitSize,
	}
	out := make([]*Particle, 0, splitCount)
	for k := 0; k < splitCount; k++ {
		angle := math.Pi / 2 * float64(k)
		out = append(out, NewParticle(p.X, p.Y, p.Color,
			math.Cos(angle)*splitSpeed, math.Sin(angle)*splitSpeed, profile))
	}
	return out
}

// updateParticles 推进列表中的每个粒子并移除已熄灭的粒子
//
// 十字星在自身更新之后判定分裂，子粒子追加到同一列表的末尾，
// 本次调用不会推进它们。返回值复用 ps 的底层数组。
func updateParticles(ps []*Particle, f *Frame) []*Particle {
	n := len(ps)
	for i := 0; i < n; i++ {
		p := ps[i]
		p.Update()
		if p.Splits && !p.hasSplit && p.Alpha < splitAlpha && f.Rand.Float64() < splitChance {
			f.Sound.Play(SoundCrackle, PlayOptions{Volume: 0.2, Rate: 1.5})
			ps = append(ps, p.split()...)
		}
	}

	alive := ps[:0]
	for _, p := range ps {
		if p.Alive() {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(ps); i++ {
		ps[i] = nil
	}
	return alive
}

// drawParticles 按顺序绘制列表中的粒子
func drawParticles(ps []*Particle, c Canvas, rng *rand.Rand) {
	for _, p := range ps {
		p.Draw(c, rng)
	}
}

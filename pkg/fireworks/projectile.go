package fireworks

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	launchSpeed        = 4.0
	launchAcceleration = 1.02
	trailLength        = 5
	spinnerAmplitude   = 3.0
	spinnerPeriodMs    = 50.0
	pearlRadius        = 4.0
)

// Point 二维坐标
type Point struct {
	X, Y float64
}

// Projectile 从起点加速飞向目标点、到达后爆炸的礼花弹
//
// 爆炸前沿固定角度直线加速；飞行距离 >= 起点到目标的距离时爆炸，
// 之后不再移动，只作为粒子的容器，粒子全部熄灭后标记为 dead。
type Projectile struct {
	Kind BurstKind

	StartX, StartY   float64
	X, Y             float64
	TargetX, TargetY float64

	Angle float64
	Speed float64

	// Color 珠子的颜色，其他种类不使用
	Color color.NRGBA

	Particles []*Particle

	exploded bool
	dead     bool

	trail      [trailLength]Point
	trailStart int
	trailLen   int
}

// NewProjectile 创建一枚从 (sx, sy) 飞向 (tx, ty) 的礼花弹
func NewProjectile(kind BurstKind, sx, sy, tx, ty float64) *Projectile {
	return &Projectile{
		Kind:    kind,
		StartX:  sx,
		StartY:  sy,
		X:       sx,
		Y:       sy,
		TargetX: tx,
		TargetY: ty,
		Angle:   math.Atan2(ty-sy, tx-sx),
		Speed:   launchSpeed,
		Color:   ColorWhite,
	}
}

// Exploded 是否已经爆炸
func (p *Projectile) Exploded() bool {
	return p.exploded
}

// Dead 实现 Entity
func (p *Projectile) Dead() bool {
	return p.dead
}

// Trail 最近的位置记录（最多 5 个，从旧到新）
func (p *Projectile) Trail() []Point {
	out := make([]Point, 0, p.trailLen)
	for i := 0; i < p.trailLen; i++ {
		out = append(out, p.trail[(p.trailStart+i)%trailLength])
	}
	return out
}

func (p *Projectile) pushTrail(pt Point) {
	if p.trailLen < trailLength {
		p.trail[(p.trailStart+p.trailLen)%trailLength] = pt
		p.trailLen++
		return
	}
	p.trail[p.trailStart] = pt
	p.trailStart = (p.trailStart + 1) % trailLength
}

// Update 实现 Entity
func (p *Projectile) Update(f *Frame) {
	if p.exploded {
		p.Particles = updateParticles(p.Particles, f)
		if len(p.Particles) == 0 {
			p.dead = true
		}
		return
	}

	p.Speed *= launchAcceleration
	p.X += math.Cos(p.Angle) * p.Speed
	p.Y += math.Sin(p.Angle) * p.Speed
	p.pushTrail(Point{p.X, p.Y})

	traveled := math.Hypot(p.X-p.StartX, p.Y-p.StartY)
	total := math.Hypot(p.TargetX-p.StartX, p.TargetY-p.StartY)
	if traveled >= total {
		p.explode(f)
		return
	}

	if p.Kind == BurstSpinner {
		ms := float64(f.Now.UnixNano()) / 1e6
		p.X += math.Sin(ms/spinnerPeriodMs) * spinnerAmplitude
	}
}

// explode 只会执行一次
func (p *Projectile) explode(f *Frame) {
	if p.exploded {
		return
	}
	p.exploded = true
	for _, cue := range burstSounds(p.Kind) {
		cue.play(f.Sound)
	}
	p.Particles = append(p.Particles, Burst(p.Kind, p.X, p.Y, p.Color, f.Rand)...)
}

// Draw 实现 Entity
func (p *Projectile) Draw(c Canvas, rng *rand.Rand) {
	if p.exploded {
		drawParticles(p.Particles, c, rng)
		return
	}

	switch p.Kind {
	case BurstPearl:
		c.FillCircle(p.X, p.Y, pearlRadius, p.Color, 1)
	default:
		if p.trailLen == 0 {
			return
		}
		tail := p.trail[p.trailStart]
		c.StrokeLine(p.X, p.Y, tail.X, tail.Y, 1, ColorWhite, 1)
	}
}

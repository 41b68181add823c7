package fireworks

import (
	"image/color"
	"math"
	"math/rand"
)

// BurstKind 爆炸图案的种类
type BurstKind int

const (
	// BurstStandard 标准球形：80 颗同色粒子
	BurstStandard BurstKind = iota
	// BurstWillow 柳树：60 颗金色闪烁粒子，低重力长拖尾
	BurstWillow
	// BurstSpinner 旋转：上升时左右摆动，爆炸为无重力的平面放射
	BurstSpinner
	// BurstCrossette 十字：8 颗星呈正圆环，之后各自一次性十字分裂
	BurstCrossette
	// BurstPearl 罗马烛光的珠子：20 颗小范围粒子
	BurstPearl
)

var burstKindNames = map[BurstKind]string{
	BurstStandard:  "standard",
	BurstWillow:    "willow",
	BurstSpinner:   "spinner",
	BurstCrossette: "crossette",
	BurstPearl:     "pearl",
}

// String 实现 fmt.Stringer
func (k BurstKind) String() string {
	if name, ok := burstKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// colorRule 粒子颜色的取法
type colorRule int

const (
	colorShellHue    colorRule = iota // 每个礼花弹一个随机色相
	colorParticleHue                  // 每个粒子一个随机色相
	colorFixed                        // 固定颜色
	colorInherit                      // 使用礼花弹自身的颜色
)

// burstProfile 一种爆炸图案的全部参数
type burstProfile struct {
	count    int
	ring     bool // 正圆环均匀分布，速度固定为 speedMin
	speedMin float64
	speedMax float64

	colors    colorRule
	fixed     color.NRGBA
	lightness float64

	friction float64
	gravity  float64
	decay    float64 // 0 表示使用默认随机衰减
	size     float64
	flicker  bool
	splits   bool

	sounds []soundCue
}

var burstProfiles = map[BurstKind]burstProfile{
	BurstStandard: {
		count: 80, speedMin: 1, speedMax: 6,
		colors: colorShellHue, lightness: 0.6,
		friction: DefaultFriction, gravity: DefaultGravity, size: DefaultSize,
		sounds: []soundCue{{SoundHeavyBoom, PlayOptions{Volume: 0.8}}},
	},
	BurstWillow: {
		count: 60, speedMin: 1, speedMax: 4,
		colors: colorFixed, fixed: ColorGold,
		friction: 0.92, gravity: 0.02, decay: 0.005, size: DefaultSize, flicker: true,
		sounds: []soundCue{{SoundHeavyBoom, PlayOptions{Rate: 0.8}}},
	},
	BurstSpinner: {
		count: 30, speedMin: 1, speedMax: 8,
		colors: colorParticleHue, lightness: 0.6,
		friction: 0.92, gravity: 0, size: DefaultSize,
		sounds: []soundCue{
			{SoundWhistle, PlayOptions{Rate: 0.8}},
			{SoundCrackle, PlayOptions{Volume: 0.4}},
		},
	},
	BurstCrossette: {
		count: 8, ring: true, speedMin: 4, speedMax: 4,
		colors: colorFixed, fixed: ColorGold,
		friction: DefaultFriction, gravity: DefaultGravity, decay: 0.01, size: 3, splits: true,
		sounds: []soundCue{{SoundSoftBoom, PlayOptions{Rate: 1.2}}},
	},
	BurstPearl: {
		count: 20, speedMin: 1, speedMax: 3,
		colors: colorInherit,
		friction: DefaultFriction, gravity: DefaultGravity, size: DefaultSize,
		sounds: []soundCue{{SoundSoftBoom, PlayOptions{Volume: 0.3}}},
	},
}

// BurstCount 返回某种图案爆炸时生成的初始粒子数
func BurstCount(kind BurstKind) int {
	return burstProfiles[kind].count
}

// Burst 在 (x, y) 处生成 kind 对应的粒子
// base 仅在图案继承礼花弹颜色时使用（珠子）
func Burst(kind BurstKind, x, y float64, base color.NRGBA, rng *rand.Rand) []*Particle {
	bp, ok := burstProfiles[kind]
	if !ok {
		bp = burstProfiles[BurstStandard]
	}

	shell := base
	switch bp.colors {
	case colorShellHue:
		shell = randomHue(rng, bp.lightness)
	case colorFixed:
		shell = bp.fixed
	}

	out := make([]*Particle, 0, bp.count)
	for i := 0; i < bp.count; i++ {
		var angle, speed float64
		if bp.ring {
			angle = 2 * math.Pi / float64(bp.count) * float64(i)
			speed = bp.speedMin
		} else {
			angle = between(rng, 0, 2*math.Pi)
			speed = between(rng, bp.speedMin, bp.speedMax)
		}

		c := shell
		if bp.colors == colorParticleHue {
			c = randomHue(rng, bp.lightness)
		}

		profile := ParticleProfile{
			Friction: bp.friction,
			Gravity:  bp.gravity,
			Decay:    bp.decay,
			Size:     bp.size,
			Flicker:  bp.flicker,
		}
		if profile.Decay == 0 {
			profile.Decay = between(rng, minDefaultDecay, maxDefaultDecay)
		}

		p := NewParticle(x, y, c, math.Cos(angle)*speed, math.Sin(angle)*speed, profile)
		p.Splits = bp.splits
		out = append(out, p)
	}
	return out
}

// burstSounds 爆炸时触发的音效
func burstSounds(kind BurstKind) []soundCue {
	return burstProfiles[kind].sounds
}

package fireworks

import (
	"math/rand"
	"time"
)

// 鞭炮参数
const (
	firecrackerDuration    = 2500 * time.Millisecond
	firecrackerSinkSpeed   = 3.0
	firecrackerStartOffset = 100.0
	firecrackerRestOffset  = 50.0
	firecrackerDebris      = 8
)

// 罗马烛光参数
const (
	romanCandleShots     = 5
	romanCandleShotDelay = 400 * time.Millisecond
	romanCandleStep      = 30.0
)

// Firecracker 地面上的一串鞭炮
//
// 第一次更新时播放底层音效并通过 TimerQueue 延迟叠加一次；
// 持续 2.5 秒内随机间隔地播放爆裂声并喷出红色纸屑。
type Firecracker struct {
	X, Y      float64
	Particles []*Particle

	duration time.Duration
	started  bool
	start    time.Time

	nextBurst time.Time
	nextPop   time.Time
	dead      bool
}

// NewFirecracker 在 x 处创建鞭炮，y 为初始高度
func NewFirecracker(x, y float64) *Firecracker {
	return &Firecracker{
		X:        x,
		Y:        y,
		duration: firecrackerDuration,
	}
}

// Dead 实现 Entity
func (fc *Firecracker) Dead() bool {
	return fc.dead
}

// Burning 是否仍在持续时间内
func (fc *Firecracker) Burning(now time.Time) bool {
	return !fc.started || now.Sub(fc.start) < fc.duration
}

// Update 实现 Entity
func (fc *Firecracker) Update(f *Frame) {
	if fc.Y < f.Height-firecrackerRestOffset {
		fc.Y += firecrackerSinkSpeed
	}

	if !fc.started {
		fc.started = true
		fc.start = f.Now
		f.Sound.Play(SoundFirecrackerString, PlayOptions{Volume: 0.6, Rate: 1.0})

		// 叠加一层，让声音更密集；与鞭炮生命周期无关
		sound := f.Sound
		delay := randomMillis(f.Rand, 150, 250)
		f.Timers.Schedule(f.Now.Add(delay), func() {
			sound.Play(SoundFirecrackerString, PlayOptions{Volume: 0.6, Rate: 1.1})
		})
	}

	elapsed := f.Now.Sub(fc.start)
	if elapsed < fc.duration {
		if f.Now.After(fc.nextPop) {
			fc.nextPop = f.Now.Add(randomMillis(f.Rand, 50, 150))
			f.Sound.Play(SoundPop, PlayOptions{Volume: 0.4, Rate: between(f.Rand, 0.8, 1.4)})
		}
		if f.Now.After(fc.nextBurst) {
			fc.nextBurst = f.Now.Add(randomMillis(f.Rand, 10, 40))
			fc.spawnDebris(f.Rand)
		}
	}

	fc.Particles = updateParticles(fc.Particles, f)
	if elapsed > fc.duration && len(fc.Particles) == 0 {
		fc.dead = true
	}
}

// spawnDebris 在鞭炮附近炸出 8 片红纸屑和一个白色闪光
func (fc *Firecracker) spawnDebris(rng *rand.Rand) {
	x := fc.X + between(rng, -20, 20)
	y := fc.Y + between(rng, -30, 30)

	for i := 0; i < firecrackerDebris; i++ {
		fc.Particles = append(fc.Particles, NewParticle(x, y, ColorRed,
			between(rng, -5, 5), between(rng, -5, 5),
			ParticleProfile{
				Friction: DefaultFriction,
				Gravity:  0.15,
				Decay:    between(rng, 0.05, 0.1),
				Size:     between(rng, 2, 4),
			}))
	}
	fc.Particles = append(fc.Particles, NewParticle(x, y, ColorWhite, 0, -1, ParticleProfile{
		Friction: DefaultFriction,
		Gravity:  DefaultGravity,
		Decay:    0.15,
		Size:     10,
	}))
}

// Draw 实现 Entity
func (fc *Firecracker) Draw(c Canvas, rng *rand.Rand) {
	drawParticles(fc.Particles, c, rng)
}

// RomanCandle 地面上依次喷射 5 颗珠子的罗马烛光
// 每颗珠子的目标高度比上一颗更高
type RomanCandle struct {
	X, Y   float64
	Shots  int
	Pearls []*Projectile

	nextShot time.Time
	dead     bool
}

// NewRomanCandle 在 (x, y) 创建罗马烛光
func NewRomanCandle(x, y float64) *RomanCandle {
	return &RomanCandle{
		X:     x,
		Y:     y,
		Shots: romanCandleShots,
	}
}

// Dead 实现 Entity
func (rc *RomanCandle) Dead() bool {
	return rc.dead
}

// Update 实现 Entity
func (rc *RomanCandle) Update(f *Frame) {
	if rc.Shots > 0 && f.Now.After(rc.nextShot) {
		rc.Shots--
		rc.nextShot = f.Now.Add(romanCandleShotDelay)
		f.Sound.Play(SoundLaunch, PlayOptions{Rate: 1.5})

		fired := romanCandleShots - rc.Shots - 1
		targetY := f.Height*0.4 - float64(fired)*romanCandleStep
		pearl := NewProjectile(BurstPearl, rc.X, rc.Y, rc.X+between(f.Rand, -20, 20), targetY)
		pearl.Color = randomHue(f.Rand, 0.5)
		rc.Pearls = append(rc.Pearls, pearl)
	}

	live := rc.Pearls[:0]
	for _, pearl := range rc.Pearls {
		pearl.Update(f)
		if !pearl.Dead() {
			live = append(live, pearl)
		}
	}
	for i := len(live); i < len(rc.Pearls); i++ {
		rc.Pearls[i] = nil
	}
	rc.Pearls = live

	if rc.Shots == 0 && len(rc.Pearls) == 0 {
		rc.dead = true
	}
}

// Draw 实现 Entity
func (rc *RomanCandle) Draw(c Canvas, rng *rand.Rand) {
	for _, pearl := range rc.Pearls {
		pearl.Draw(c, rng)
	}
}

func randomMillis(rng *rand.Rand, min, max float64) time.Duration {
	return time.Duration(between(rng, min, max) * float64(time.Millisecond))
}

package fireworks

import (
	"image/color"
	"log"
	"math/rand"
	"time"
)

// 自动发射默认参数
const (
	DefaultAutoLaunchChance = 0.02
	DefaultGallopChance     = 0.002
	DefaultFadeAlpha        = 0.2
	launchMargin            = 100.0
)

// DefaultFadeColor 拖尾覆盖层颜色 rgb(5, 0, 0)
var DefaultFadeColor = color.NRGBA{R: 5, G: 0, B: 0, A: 0xFF}

// Options 模拟参数
type Options struct {
	Width, Height float64

	// 每次步进自动发射一枚礼花弹的概率
	AutoLaunchChance float64
	// 金马未激活时，每次步进启动它的概率
	GallopChance float64

	FadeColor color.NRGBA
	FadeAlpha float64

	// Muted 初始静音状态
	Muted bool

	// 为 nil 时使用基于当前时间的随机源
	Rand *rand.Rand
	// 为 nil 时使用 NopSound
	Sound SoundPlayer
}

// DefaultOptions 返回默认参数（800x600，静音开启）
func DefaultOptions() Options {
	return Options{
		Width:            800,
		Height:           600,
		AutoLaunchChance: DefaultAutoLaunchChance,
		GallopChance:     DefaultGallopChance,
		FadeColor:        DefaultFadeColor,
		FadeAlpha:        DefaultFadeAlpha,
		Muted:            true,
	}
}

// Simulation 烟花模拟的全部状态
//
// 注册表按插入顺序保存顶层实体。输入处理和自动发射产生的实体先进入
// spawn 队列，在下一次 Step 开始时合并，因此不会插入到正在进行的迭代中。
// Simulation 不是并发安全的，只能在一个 goroutine 中使用。
type Simulation struct {
	width, height float64

	autoLaunchChance float64
	gallopChance     float64
	fadeColor        color.NRGBA
	fadeAlpha        float64

	entities []Entity
	spawned  []Entity
	gallop   *Gallop
	timers   *TimerQueue

	rng   *rand.Rand
	sound SoundPlayer
	muted bool

	frame Frame
}

// New 创建模拟
func New(opts Options) *Simulation {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sound := opts.Sound
	if sound == nil {
		sound = NopSound{}
	}

	s := &Simulation{
		width:            opts.Width,
		height:           opts.Height,
		autoLaunchChance: opts.AutoLaunchChance,
		gallopChance:     opts.GallopChance,
		fadeColor:        opts.FadeColor,
		fadeAlpha:        opts.FadeAlpha,
		gallop:           NewGallop(),
		timers:           NewTimerQueue(),
		rng:              rng,
		sound:            sound,
	}
	s.SetMuted(opts.Muted)
	return s
}

// Step 推进一帧模拟
//
// 顺序：到期的延迟事件 -> 合并新实体并移除 dead 实体 -> 按顺序更新实体
// -> 更新金马 -> 随机自动发射 -> 随机启动金马。
func (s *Simulation) Step(now time.Time) {
	s.frame = Frame{
		Now:    now,
		Rand:   s.rng,
		Sound:  s.sound,
		Timers: s.timers,
		Width:  s.width,
		Height: s.height,
	}
	f := &s.frame

	s.timers.RunDue(now)

	s.entities = append(s.entities, s.spawned...)
	for i := range s.spawned {
		s.spawned[i] = nil
	}
	s.spawned = s.spawned[:0]

	live := s.entities[:0]
	for _, e := range s.entities {
		if !e.Dead() {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.entities); i++ {
		s.entities[i] = nil
	}
	s.entities = live

	for _, e := range s.entities {
		e.Update(f)
	}
	s.gallop.Update(f)

	if s.rng.Float64() < s.autoLaunchChance {
		s.Launch(between(s.rng, launchMargin, s.width-launchMargin), between(s.rng, launchMargin, s.height/2))
	}
	if !s.gallop.Active() && s.rng.Float64() < s.gallopChance {
		s.StartGallop()
	}
}

// Render 绘制当前状态：先用半透明暗色覆盖形成拖尾，再绘制实体和金马
func (s *Simulation) Render(c Canvas) {
	c.Fade(s.fadeColor, s.fadeAlpha)
	for _, e := range s.entities {
		e.Draw(c, s.rng)
	}
	s.gallop.Draw(c, s.rng)
}

// Tick 等价于 Step 之后 Render
func (s *Simulation) Tick(now time.Time, c Canvas) {
	s.Step(now)
	s.Render(c)
}

// Spawn 把实体加入注册表，从下一次 Step 开始生效
func (s *Simulation) Spawn(e Entity) {
	s.spawned = append(s.spawned, e)
}

// Launch 向 (tx, ty) 发射一个随机种类的烟花
//
// 30% 标准、20% 柳树、15% 旋转、15% 十字、10% 鞭炮、10% 罗马烛光。
// 鞭炮和罗马烛光是地面效果，不使用目标点。
func (s *Simulation) Launch(tx, ty float64) Entity {
	r := s.rng.Float64()
	sx := between(s.rng, s.width*0.2, s.width*0.8)

	switch {
	case r < 0.3:
		s.sound.Play(SoundLaunch, PlayOptions{})
		return s.LaunchShell(BurstStandard, sx, s.height, tx, ty)
	case r < 0.5:
		s.sound.Play(SoundLaunch, PlayOptions{})
		return s.LaunchShell(BurstWillow, sx, s.height, tx, ty)
	case r < 0.65:
		s.sound.Play(SoundLaunch, PlayOptions{})
		return s.LaunchShell(BurstSpinner, sx, s.height, tx, ty)
	case r < 0.8:
		s.sound.Play(SoundLaunch, PlayOptions{Rate: 1.2})
		return s.LaunchShell(BurstCrossette, sx, s.height, tx, ty)
	case r < 0.9:
		return s.SpawnFirecracker()
	default:
		return s.SpawnRomanCandle(s.groundX())
	}
}

// LaunchTrail 鼠标移动触发的轻量发射，只使用标准礼花弹
func (s *Simulation) LaunchTrail(tx, ty float64) *Projectile {
	s.sound.Play(SoundLaunch, PlayOptions{Volume: 0.3, Rate: 1.5})
	sx := between(s.rng, s.width*0.2, s.width*0.8)
	return s.LaunchShell(BurstStandard, sx, s.height, tx, ty)
}

// LaunchShell 从指定起点向指定目标发射指定种类的礼花弹（不播放发射音效）
func (s *Simulation) LaunchShell(kind BurstKind, sx, sy, tx, ty float64) *Projectile {
	p := NewProjectile(kind, sx, sy, tx, ty)
	if kind == BurstPearl {
		p.Color = randomHue(s.rng, 0.5)
	}
	s.Spawn(p)
	return p
}

// SpawnFirecracker 在随机位置点燃一串鞭炮
func (s *Simulation) SpawnFirecracker() *Firecracker {
	fc := NewFirecracker(s.groundX(), s.height-firecrackerStartOffset)
	s.Spawn(fc)
	return fc
}

// SpawnRomanCandle 在 x 处放置罗马烛光
func (s *Simulation) SpawnRomanCandle(x float64) *RomanCandle {
	rc := NewRomanCandle(x, s.height)
	s.Spawn(rc)
	return rc
}

// StartGallop 让金马重新开始奔跑
func (s *Simulation) StartGallop() {
	s.gallop.Start(s.height)
	log.Printf("[Simulation] Gallop started")
}

func (s *Simulation) groundX() float64 {
	return between(s.rng, launchMargin, s.width-launchMargin)
}

// Resize 更新逻辑视口尺寸，不影响已有实体
func (s *Simulation) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// Size 当前逻辑视口尺寸
func (s *Simulation) Size() (width, height float64) {
	return s.width, s.height
}

// SetMuted 设置音效静音状态并立即通知音效协作者
func (s *Simulation) SetMuted(muted bool) {
	s.muted = muted
	s.sound.SetMute(muted)
}

// Muted 当前是否静音
func (s *Simulation) Muted() bool {
	return s.muted
}

// Entities 注册表中的实体（不含尚未合并的新实体）
func (s *Simulation) Entities() []Entity {
	return s.entities
}

// Pending 等待下一次 Step 合并的实体数
func (s *Simulation) Pending() int {
	return len(s.spawned)
}

// Gallop 金马实例
func (s *Simulation) Gallop() *Gallop {
	return s.gallop
}

// Timers 延迟事件队列
func (s *Simulation) Timers() *TimerQueue {
	return s.timers
}

package fireworks

import (
	"math/rand"
	"time"
)

// Frame 单次模拟步进的上下文
// 由 Simulation.Step 构造并传递给每个实体，实体不得保存它
type Frame struct {
	Now    time.Time
	Rand   *rand.Rand
	Sound  SoundPlayer
	Timers *TimerQueue

	// 当前视口尺寸（逻辑像素）
	Width  float64
	Height float64
}

// Entity 注册表中的顶层实体（礼花弹、鞭炮、罗马烛光）
type Entity interface {
	Update(f *Frame)
	Draw(c Canvas, rng *rand.Rand)
	Dead() bool
}

package fireworks

// 音效名称，与 data/sounds.yaml 中的 id 一一对应
const (
	SoundLaunch            = "launch"
	SoundHeavyBoom         = "heavy_boom"
	SoundSoftBoom          = "soft_boom"
	SoundCrackle           = "crackle"
	SoundWhistle           = "whistle"
	SoundPop               = "pop"
	SoundFirecrackerString = "firecracker_string"
)

// SoundNames 返回模拟会用到的全部音效名称
func SoundNames() []string {
	return []string{
		SoundLaunch,
		SoundHeavyBoom,
		SoundSoftBoom,
		SoundCrackle,
		SoundWhistle,
		SoundPop,
		SoundFirecrackerString,
	}
}

// PlayOptions 单次播放参数
// 零值表示使用播放器的默认值（音量 0.5，速率 1.0）
type PlayOptions struct {
	Volume float64 // 0.0 ~ 1.0
	Rate   float64 // 播放速率（音高），> 0
}

// SoundPlayer 是模拟使用的音效协作者
//
// 实现必须是"尽力而为"的：Play 立即返回，名称未加载时静默忽略，
// 任何失败都不能影响模拟循环。
type SoundPlayer interface {
	Play(name string, opts PlayOptions)
	SetMute(muted bool)
}

// NopSound 不发出任何声音的 SoundPlayer
type NopSound struct{}

// Play 实现 SoundPlayer
func (NopSound) Play(string, PlayOptions) {}

// SetMute 实现 SoundPlayer
func (NopSound) SetMute(bool) {}

// soundCue 一次预设的音效触发
type soundCue struct {
	name string
	opts PlayOptions
}

func (c soundCue) play(sp SoundPlayer) {
	sp.Play(c.name, c.opts)
}

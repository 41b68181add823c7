package game

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Output 音频输出后端
// Play 可以在任意 goroutine 调用，声部由后端的音频线程拉取
type Output interface {
	Play(s beep.Streamer)
}

// resumer 需要用户手势后才能开始出声的后端（浏览器、移动端）
type resumer interface {
	Resume()
}

// EbitenOutput 通过 ebiten audio.Context 输出
//
// 只创建一个常驻的 audio.Player，所有声部在 voiceMixer 中混音。
type EbitenOutput struct {
	mixer  *voiceMixer
	player *audio.Player
}

// NewEbitenOutput 在已有的音频上下文上创建输出
//
// 参数：
//   - ctx: 采样率必须等于 SampleRate
//
// 返回：
//   - *EbitenOutput: 已开始播放的输出
//   - error: 采样率不匹配或播放器创建失败
func NewEbitenOutput(ctx *audio.Context) (*EbitenOutput, error) {
	if ctx.SampleRate() != int(SampleRate) {
		return nil, fmt.Errorf("audio context sample rate %d, want %d", ctx.SampleRate(), int(SampleRate))
	}

	mixer := &voiceMixer{}
	player, err := ctx.NewPlayer(newStreamReader(mixer))
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	player.SetBufferSize(50 * time.Millisecond)
	player.Play()

	log.Printf("[EbitenOutput] Audio player started (%d Hz)", int(SampleRate))
	return &EbitenOutput{mixer: mixer, player: player}, nil
}

// Play 实现 Output
func (o *EbitenOutput) Play(s beep.Streamer) {
	o.mixer.Add(s)
}

// Resume 确保常驻播放器在运行
func (o *EbitenOutput) Resume() {
	if !o.player.IsPlaying() {
		o.player.Play()
	}
}

// Voices 正在播放的声部数
func (o *EbitenOutput) Voices() int {
	return o.mixer.Len()
}

// SpeakerOutput 通过 beep/speaker 直接输出（终端模式）
type SpeakerOutput struct {
	mixer *voiceMixer
}

// NewSpeakerOutput 初始化系统扬声器
func NewSpeakerOutput() (*SpeakerOutput, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}

	mixer := &voiceMixer{}
	speaker.Play(mixer)

	log.Printf("[SpeakerOutput] Speaker started (%d Hz)", int(SampleRate))
	return &SpeakerOutput{mixer: mixer}, nil
}

// Play 实现 Output
func (o *SpeakerOutput) Play(s beep.Streamer) {
	o.mixer.Add(s)
}

// Close 关闭扬声器
func (o *SpeakerOutput) Close() {
	speaker.Close()
}

package game

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/decker502/fireworks/pkg/fireworks"
)

// 合成音色，离线时也能听到全部七种音效
// 每个预设渲染一次后缓存在音效库中，播放时只做变速和增益

// PresetFestive 背景音乐预设
const PresetFestive = "festive"

var presets = map[string]func(rng *rand.Rand) beep.Streamer{
	fireworks.SoundLaunch:            synthLaunch,
	fireworks.SoundHeavyBoom:         synthHeavyBoom,
	fireworks.SoundSoftBoom:          synthSoftBoom,
	fireworks.SoundCrackle:           synthCrackle,
	fireworks.SoundWhistle:           synthWhistle,
	fireworks.SoundPop:               synthPop,
	fireworks.SoundFirecrackerString: synthFirecrackerString,
	PresetFestive:                    synthFestive,
}

// HasPreset 是否存在该名称的合成预设
func HasPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// PresetNames 全部预设名称（排序）
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synthesize 渲染预设到内存缓冲区
//
// 参数：
//   - name: 预设名称
//   - seed: 噪声随机种子，相同种子得到相同波形
//
// 返回：
//   - *beep.Buffer: SampleRate 下的立体声缓冲区
//   - error: 预设不存在
func Synthesize(name string, seed int64) (*beep.Buffer, error) {
	preset, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown synth preset %q", name)
	}
	buf := beep.NewBuffer(outputFormat)
	buf.Append(preset(rand.New(rand.NewSource(seed))))
	return buf, nil
}

// noise 白噪声
type noise struct {
	rng *rand.Rand
}

func (n noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := n.rng.Float64()*2 - 1
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

func (n noise) Err() error { return nil }

// sweep 频率在 duration 内从 from 线性滑到 to 的正弦波
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	total    int
}

func newSweep(from, to float64, d time.Duration) *sweep {
	return &sweep{from: from, to: to, total: SampleRate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*t
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i] = [2]float64{v, v}
		s.phase += freq / float64(SampleRate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope 起音线性上升，之后按 exp(-k·t) 衰减，超过 duration 结束
type envelope struct {
	streamer beep.Streamer
	attack   int
	decay    float64 // 每秒衰减系数
	pos      int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack time.Duration, decay float64) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   SampleRate.N(attack),
		decay:    decay,
		total:    SampleRate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-e.decay * float64(e.pos) / float64(SampleRate))
		if e.pos < e.attack {
			vol *= float64(e.pos) / float64(e.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume 线性增益包装，0 表示静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone 定长正弦音
func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return beep.Silence(SampleRate.N(d))
	}
	return beep.Take(SampleRate.N(d), sine)
}

func synthLaunch(rng *rand.Rand) beep.Streamer {
	d := 700 * time.Millisecond
	hiss := newEnvelope(noise{rng}, d, 60*time.Millisecond, 4)
	rise := newEnvelope(newSweep(400, 1400, d), d, 100*time.Millisecond, 3)
	return beep.Mix(newVolume(hiss, 0.35), newVolume(rise, 0.15))
}

func synthHeavyBoom(rng *rand.Rand) beep.Streamer {
	d := 1400 * time.Millisecond
	body := newEnvelope(newSweep(90, 40, d), d, 5*time.Millisecond, 3)
	blast := newEnvelope(noise{rng}, d, 2*time.Millisecond, 6)
	return beep.Mix(newVolume(body, 0.8), newVolume(blast, 0.5))
}

func synthSoftBoom(rng *rand.Rand) beep.Streamer {
	d := 800 * time.Millisecond
	body := newEnvelope(newSweep(140, 70, d), d, 5*time.Millisecond, 5)
	puff := newEnvelope(noise{rng}, d, 5*time.Millisecond, 9)
	return beep.Mix(newVolume(body, 0.6), newVolume(puff, 0.3))
}

// crackle 随机间隔的短促噪声点
func synthCrackle(rng *rand.Rand) beep.Streamer {
	var parts []beep.Streamer
	for elapsed := time.Duration(0); elapsed < 600*time.Millisecond; {
		gap := time.Duration(5+rng.Intn(40)) * time.Millisecond
		click := 4 * time.Millisecond
		parts = append(parts,
			beep.Silence(SampleRate.N(gap)),
			newVolume(newEnvelope(noise{rng}, click, 0, 600), 0.3+rng.Float64()*0.5),
		)
		elapsed += gap + click
	}
	return beep.Seq(parts...)
}

func synthWhistle(rng *rand.Rand) beep.Streamer {
	d := 900 * time.Millisecond
	start := 2200 + rng.Float64()*300
	whistle := newEnvelope(newSweep(start, start*0.55, d), d, 40*time.Millisecond, 1.5)
	air := newEnvelope(noise{rng}, d, 40*time.Millisecond, 2)
	return beep.Mix(newVolume(whistle, 0.4), newVolume(air, 0.05))
}

func synthPop(rng *rand.Rand) beep.Streamer {
	d := 90 * time.Millisecond
	snap := newEnvelope(noise{rng}, d, time.Millisecond, 45)
	thump := newEnvelope(tone(180, d), d, time.Millisecond, 35)
	return beep.Mix(newVolume(snap, 0.7), newVolume(thump, 0.4))
}

// firecrackerString 一串不规则的爆响，长度与鞭炮燃烧时间一致
func synthFirecrackerString(rng *rand.Rand) beep.Streamer {
	var parts []beep.Streamer
	for elapsed := time.Duration(0); elapsed < firecrackerStringLength; {
		gap := time.Duration(20+rng.Intn(90)) * time.Millisecond
		parts = append(parts,
			beep.Silence(SampleRate.N(gap)),
			newVolume(synthPop(rng), 0.5+rng.Float64()*0.5),
		)
		elapsed += gap + 90*time.Millisecond
	}
	return beep.Seq(parts...)
}

const firecrackerStringLength = 2500 * time.Millisecond

// festive 五声音阶的循环小调，作为离线背景音乐
func synthFestive(rng *rand.Rand) beep.Streamer {
	// D 宫五声音阶
	scale := []float64{293.66, 329.63, 369.99, 440.00, 493.88, 587.33}
	melody := []int{0, 2, 3, 5, 3, 2, 1, 0, 2, 3, 4, 3, 2, 1, 2, 0}
	note := 300 * time.Millisecond

	parts := make([]beep.Streamer, 0, len(melody))
	for _, idx := range melody {
		freq := scale[idx]
		lead := newEnvelope(tone(freq, note), note, 10*time.Millisecond, 4)
		octave := newEnvelope(tone(freq*2, note), note, 10*time.Millisecond, 7)
		parts = append(parts, beep.Mix(newVolume(lead, 0.35), newVolume(octave, 0.1)))
	}
	return beep.Seq(parts...)
}

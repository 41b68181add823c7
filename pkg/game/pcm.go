package game

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"

	auformat "github.com/decker502/fireworks/internal/audio"
)

// SampleRate 输出采样率，所有缓冲区都重采样到该频率
const SampleRate = beep.SampleRate(48000)

// outputFormat 16 位有符号小端立体声，与 ebiten audio.Player 的输入格式一致
var outputFormat = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

const resampleQuality = 3

// decodeClip 按扩展名解码音频文件并缓冲到内存
// 支持 .mp3 / .ogg（ebiten 解码器）、.wav（beep）、.au（内部解码器）
func decodeClip(name string, data []byte) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(name))
	reader := bytes.NewReader(data)

	switch ext {
	case ".mp3":
		stream, err := mp3.DecodeWithSampleRate(int(SampleRate), reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 %s: %w", name, err)
		}
		return bufferPCM16(stream)
	case ".ogg":
		stream, err := vorbis.DecodeWithSampleRate(int(SampleRate), reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG %s: %w", name, err)
		}
		return bufferPCM16(stream)
	case ".wav":
		stream, format, err := wav.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV %s: %w", name, err)
		}
		defer stream.Close()
		return bufferStream(stream, format.SampleRate), nil
	case ".au":
		stream, format, err := auformat.DecodeAU(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU %s: %w", name, err)
		}
		return bufferStream(stream, format.SampleRate), nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav, .au)", ext)
	}
}

// bufferStream 把任意采样率的流重采样到 SampleRate 并缓冲
func bufferStream(s beep.Streamer, rate beep.SampleRate) *beep.Buffer {
	if rate != SampleRate {
		s = beep.Resample(resampleQuality, rate, SampleRate, s)
	}
	buf := beep.NewBuffer(outputFormat)
	buf.Append(s)
	return buf
}

// bufferPCM16 读取 ebiten 解码器输出的 16 位立体声字节流
func bufferPCM16(r io.Reader) (*beep.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded stream: %w", err)
	}
	buf := beep.NewBuffer(outputFormat)
	buf.Append(&pcm16Streamer{data: data})
	return buf, nil
}

// pcm16Streamer 把 outputFormat 编码的字节解回样本
type pcm16Streamer struct {
	data []byte
}

func (s *pcm16Streamer) Stream(samples [][2]float64) (int, bool) {
	frame := outputFormat.Width()
	n := 0
	for n < len(samples) && len(s.data) >= frame {
		sample, used := outputFormat.DecodeSigned(s.data)
		samples[n] = sample
		s.data = s.data[used:]
		n++
	}
	return n, n > 0
}

func (s *pcm16Streamer) Err() error { return nil }

// streamReader 把 beep 流编码为 outputFormat 字节，供 ebiten audio.Player 读取
type streamReader struct {
	streamer beep.Streamer
	buf      [][2]float64
}

func newStreamReader(s beep.Streamer) *streamReader {
	return &streamReader{streamer: s}
}

func (r *streamReader) Read(p []byte) (int, error) {
	width := outputFormat.Width()
	frames := len(p) / width
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]

	n, ok := r.streamer.Stream(buf)
	if !ok && n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		outputFormat.EncodeSigned(p[i*width:], buf[i])
	}
	return n * width, nil
}

// voiceMixer 把同时播放的声部相加
// 没有声部时输出静音，永远不会结束，结束的声部自动移除
type voiceMixer struct {
	mu     sync.Mutex
	voices []beep.Streamer
	tmp    [][2]float64
}

// Add 加入一个声部
func (m *voiceMixer) Add(s beep.Streamer) {
	m.mu.Lock()
	m.voices = append(m.voices, s)
	m.mu.Unlock()
}

// Len 正在播放的声部数
func (m *voiceMixer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

func (m *voiceMixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range samples {
		samples[i] = [2]float64{}
	}
	if cap(m.tmp) < len(samples) {
		m.tmp = make([][2]float64, len(samples))
	}
	tmp := m.tmp[:len(samples)]

	live := m.voices[:0]
	for _, v := range m.voices {
		n, ok := v.Stream(tmp)
		for i := 0; i < n; i++ {
			samples[i][0] += tmp[i][0]
			samples[i][1] += tmp[i][1]
		}
		if ok {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	return len(samples), true
}

func (m *voiceMixer) Err() error { return nil }

// atomicFloat 可并发读写的 float64
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// gainStreamer 每次读取时按 gain() 缩放，用于主音量和静音
// gain 在音频线程调用，必须是无锁的
type gainStreamer struct {
	streamer beep.Streamer
	gain     func() float64
}

func (g *gainStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.streamer.Stream(samples)
	gain := g.gain()
	for i := 0; i < n; i++ {
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

func (g *gainStreamer) Err() error { return g.streamer.Err() }

// loopStreamer 无限循环播放缓冲区，暂停时输出静音
type loopStreamer struct {
	buf    *beep.Buffer
	cur    beep.StreamSeeker
	paused atomic.Bool
}

func newLoopStreamer(buf *beep.Buffer) *loopStreamer {
	return &loopStreamer{buf: buf, cur: buf.Streamer(0, buf.Len())}
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	if l.paused.Load() || l.buf.Len() == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	filled := 0
	for filled < len(samples) {
		n, ok := l.cur.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if err := l.cur.Seek(0); err != nil {
				break
			}
		}
	}
	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (l *loopStreamer) Err() error { return nil }

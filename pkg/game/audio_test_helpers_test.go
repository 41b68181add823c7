package game

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/gopxl/beep"
)

// recordingOutput 记录 Play 调用的测试输出
type recordingOutput struct {
	mu      sync.Mutex
	voices  []beep.Streamer
	resumed int
}

func (o *recordingOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.voices = append(o.voices, s)
	o.mu.Unlock()
}

func (o *recordingOutput) Resume() { o.resumed++ }

func (o *recordingOutput) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.voices)
}

// drain 读完整个声部，返回帧数和峰值
func drain(s beep.Streamer, limit int) (frames int, peak float64) {
	buf := make([][2]float64, 512)
	for frames < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for _, v := range buf[i] {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		frames += n
		if !ok {
			break
		}
	}
	return frames, peak
}

// sampleAt 返回第 idx 帧的左声道
func sampleAt(s beep.Streamer, idx int) float64 {
	buf := make([][2]float64, idx+1)
	n, _ := s.Stream(buf)
	if n <= idx {
		return 0
	}
	return buf[idx][0]
}

// constStreamer 输出 n 帧固定值
type constStreamer struct {
	value float64
	left  int
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.left <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > c.left {
		n = c.left
	}
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.left -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

// constBuffer 固定值的测试缓冲区
func constBuffer(value float64, frames int) *beep.Buffer {
	buf := beep.NewBuffer(outputFormat)
	buf.Append(&constStreamer{value: value, left: frames})
	return buf
}

// buildAU 构造 16 位 PCM 单声道 .au 文件
func buildAU(sampleRate uint32, samples []int16) []byte {
	var b bytes.Buffer
	for _, v := range []uint32{0x2e736e64, 24, uint32(len(samples) * 2), 3, sampleRate, 1} {
		binary.Write(&b, binary.BigEndian, v)
	}
	for _, s := range samples {
		binary.Write(&b, binary.BigEndian, s)
	}
	return b.Bytes()
}

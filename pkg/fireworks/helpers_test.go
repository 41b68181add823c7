package fireworks

import (
	"image/color"
	"math/rand"
	"time"
)

// recordingCanvas 记录绘制调用的测试画布
type recordingCanvas struct {
	fades   int
	circles []circleCall
	lines   int
}

type circleCall struct {
	x, y, r float64
	c       color.NRGBA
	alpha   float64
}

func (rc *recordingCanvas) Fade(color.NRGBA, float64) { rc.fades++ }
func (rc *recordingCanvas) FillCircle(x, y, r float64, c color.NRGBA, alpha float64) {
	rc.circles = append(rc.circles, circleCall{x, y, r, c, alpha})
}
func (rc *recordingCanvas) StrokeLine(_, _, _, _, _ float64, _ color.NRGBA, _ float64) { rc.lines++ }

// recordingSound 记录播放请求的测试音效协作者
type recordingSound struct {
	plays []playCall
	muted bool
}

type playCall struct {
	name string
	opts PlayOptions
}

func (rs *recordingSound) Play(name string, opts PlayOptions) {
	rs.plays = append(rs.plays, playCall{name, opts})
}

func (rs *recordingSound) SetMute(muted bool) { rs.muted = muted }

func (rs *recordingSound) count(name string) int {
	n := 0
	for _, p := range rs.plays {
		if p.name == name {
			n++
		}
	}
	return n
}

var testEpoch = time.Date(2026, 2, 17, 20, 0, 0, 0, time.UTC)

// newTestFrame 固定随机种子和时间的帧
func newTestFrame(seed int64) (*Frame, *recordingSound) {
	sound := &recordingSound{}
	return &Frame{
		Now:    testEpoch,
		Rand:   rand.New(rand.NewSource(seed)),
		Sound:  sound,
		Timers: NewTimerQueue(),
		Width:  800,
		Height: 600,
	}, sound
}

// advance 把帧时间推进 d 并执行到期事件
func advance(f *Frame, d time.Duration) {
	f.Now = f.Now.Add(d)
	f.Timers.RunDue(f.Now)
}

const tick = 16 * time.Millisecond

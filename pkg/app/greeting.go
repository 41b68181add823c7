package app

import (
	"bytes"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/fireworks/pkg/utils"
)

// 强调动画的阶段（占总时长的比例）
const (
	greetingPopPhase  = 0.2 // 放大回弹
	greetingFadeIn    = 0.1
	greetingFadeStart = 0.7 // 开始淡出
	greetingMinScale  = 0.5
)

// asciiGreetings 没有可用的中文字体时使用
var asciiGreetings = []string{
	"Happy New Year!",
	"Good Fortune!",
	"Best Wishes!",
	"Prosperity!",
	"Good Health!",
	"Success!",
}

var (
	greetingColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	shadowColor   = color.RGBA{R: 120, G: 0, B: 0, A: 255}
)

// LoadFace 从 TTF/OTF 数据创建字体
func LoadFace(data []byte, size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// FallbackFace 内置 7x13 位图字体，只包含 ASCII
func FallbackFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// Greeting 点击时显示的祝福语
//
// 每次 Show 随机挑选一条，在 duration 内先回弹放大再淡出。
// 新的 Show 会替换正在显示的祝福语。
type Greeting struct {
	texts    []string
	duration time.Duration
	face     text.Face
	scale    float64 // 字体本身不支持字号时的额外放大
	rng      *rand.Rand

	current string
	shownAt time.Time
	active  bool
}

// NewGreeting 创建祝福语层
//
// 参数：
//   - texts: 祝福语列表（需要 face 支持其中的字符）
//   - duration: 每条祝福语的显示时长
//   - face: 字体，为 nil 时使用 FallbackFace 和 ASCII 祝福语
//   - rng: 随机源
func NewGreeting(texts []string, duration time.Duration, face text.Face, rng *rand.Rand) *Greeting {
	g := &Greeting{
		texts:    texts,
		duration: duration,
		face:     face,
		scale:    1,
		rng:      rng,
	}
	if face == nil {
		g.face = FallbackFace()
		g.texts = asciiGreetings
		g.scale = 3
	}
	return g
}

// Show 随机选择一条祝福语并从 now 开始显示
func (g *Greeting) Show(now time.Time) string {
	if len(g.texts) == 0 {
		return ""
	}
	g.current = g.texts[g.rng.Intn(len(g.texts))]
	g.shownAt = now
	g.active = true
	return g.current
}

// Current 当前祝福语，没有显示时返回空字符串
func (g *Greeting) Current() string {
	if !g.active {
		return ""
	}
	return g.current
}

// Update 超过显示时长后隐藏
func (g *Greeting) Update(now time.Time) {
	if g.active && now.Sub(g.shownAt) >= g.duration {
		g.active = false
	}
}

// Emphasis 返回 now 时刻的缩放和不透明度
// 没有显示时 ok 为 false
func (g *Greeting) Emphasis(now time.Time) (scale, alpha float64, ok bool) {
	if !g.active || g.duration <= 0 {
		return 0, 0, false
	}
	p := float64(now.Sub(g.shownAt)) / float64(g.duration)
	if p < 0 || p >= 1 {
		return 0, 0, false
	}

	scale = 1
	if p < greetingPopPhase {
		scale = utils.Lerp(greetingMinScale, 1, utils.EaseOutBack(p/greetingPopPhase))
	}

	alpha = 1
	switch {
	case p < greetingFadeIn:
		alpha = p / greetingFadeIn
	case p > greetingFadeStart:
		alpha = 1 - utils.EaseInQuad((p-greetingFadeStart)/(1-greetingFadeStart))
	}
	return scale, utils.Clamp01(alpha), true
}

// Draw 在屏幕上方居中绘制祝福语
func (g *Greeting) Draw(screen *ebiten.Image, now time.Time) {
	scale, alpha, ok := g.Emphasis(now)
	if !ok {
		return
	}
	scale *= g.scale

	b := screen.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())*0.3
	w, h := text.Measure(g.current, g.face, 0)

	draw := func(dx, dy float64, clr color.Color) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(cx+dx, cy+dy)
		op.ColorScale.ScaleWithColor(clr)
		op.ColorScale.ScaleAlpha(float32(alpha))
		op.Filter = ebiten.FilterLinear
		text.Draw(screen, g.current, g.face, op)
	}
	draw(2, 2, shadowColor)
	draw(0, 0, greetingColor)
}

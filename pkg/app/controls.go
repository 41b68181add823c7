package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ControlID 界面按钮标识
type ControlID int

const (
	ControlNone ControlID = iota
	ControlMusic
	ControlSound
	ControlFirecracker
)

// 按钮布局（逻辑像素，移动端乘以 mobileScale）
const (
	buttonWidth   = 130.0
	buttonHeight  = 34.0
	buttonMargin  = 10.0
	buttonSpacing = 8.0
	mobileScale   = 1.5
)

var (
	buttonFill       = color.RGBA{R: 40, G: 8, B: 8, A: 160}
	buttonFillActive = color.RGBA{R: 170, G: 30, B: 30, A: 200}
	buttonBorder     = color.RGBA{R: 255, G: 200, B: 80, A: 220}
	buttonLabelColor = color.RGBA{R: 255, G: 230, B: 160, A: 255}
)

// ControlState 按钮显示所需的开关状态
type ControlState struct {
	MusicOn bool
	SoundOn bool
}

type button struct {
	id         ControlID
	x, y, w, h float64
}

func (b button) contains(x, y float64) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// Controls 左上角的三个按钮：音乐开关、音效开关、鞭炮
// 按钮区域内的点击不发射烟花
type Controls struct {
	buttons []button
	scale   float64
}

// NewControls 创建按钮面板，mobile 为 true 时按钮放大
func NewControls(mobile bool) *Controls {
	c := &Controls{scale: 1}
	if mobile {
		c.scale = mobileScale
	}
	c.buttons = []button{
		{id: ControlMusic},
		{id: ControlSound},
		{id: ControlFirecracker},
	}
	c.Layout()
	return c
}

// Layout 从左上角开始水平排列按钮
func (c *Controls) Layout() {
	w, h := buttonWidth*c.scale, buttonHeight*c.scale
	x := buttonMargin
	for i := range c.buttons {
		c.buttons[i].x = x
		c.buttons[i].y = buttonMargin
		c.buttons[i].w = w
		c.buttons[i].h = h
		x += w + buttonSpacing*c.scale
	}
}

// HitTest 返回 (x, y) 处的按钮，没有则返回 ControlNone
func (c *Controls) HitTest(x, y float64) ControlID {
	for _, b := range c.buttons {
		if b.contains(x, y) {
			return b.id
		}
	}
	return ControlNone
}

// Contains 点是否落在任意按钮上
func (c *Controls) Contains(x, y float64) bool {
	return c.HitTest(x, y) != ControlNone
}

// Label 按钮文字
func (c *Controls) Label(id ControlID, state ControlState) string {
	switch id {
	case ControlMusic:
		if state.MusicOn {
			return "Music: ON"
		}
		return "Music: OFF"
	case ControlSound:
		if state.SoundOn {
			return "Sound: ON"
		}
		return "Sound: OFF"
	case ControlFirecracker:
		return "Firecracker"
	}
	return ""
}

func (c *Controls) active(id ControlID, state ControlState) bool {
	switch id {
	case ControlMusic:
		return state.MusicOn
	case ControlSound:
		return state.SoundOn
	}
	return false
}

// Draw 绘制按钮
func (c *Controls) Draw(screen *ebiten.Image, face text.Face, state ControlState) {
	for _, b := range c.buttons {
		fill := buttonFill
		if c.active(b.id, state) {
			fill = buttonFillActive
		}
		x, y, w, h := float32(b.x), float32(b.y), float32(b.w), float32(b.h)
		vector.DrawFilledRect(screen, x, y, w, h, fill, false)
		vector.StrokeLine(screen, x, y, x+w, y, 1, buttonBorder, false)
		vector.StrokeLine(screen, x, y+h, x+w, y+h, 1, buttonBorder, false)
		vector.StrokeLine(screen, x, y, x, y+h, 1, buttonBorder, false)
		vector.StrokeLine(screen, x+w, y, x+w, y+h, 1, buttonBorder, false)

		if face == nil {
			continue
		}
		label := c.Label(b.id, state)
		tw, th := text.Measure(label, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(b.x+(b.w-tw)/2, b.y+(b.h-th)/2)
		op.ColorScale.ScaleWithColor(buttonLabelColor)
		text.Draw(screen, label, face, op)
	}
}

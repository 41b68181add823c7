// Package render 提供 fireworks.Canvas 的两种实现：
// ebiten 离屏图像（桌面/移动端）和 tcell 字符网格（终端）。
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/fireworks/pkg/fireworks"
)

// EbitenCanvas 在持久化的离屏图像上绘制
//
// 图像跨帧保留，Fade 的半透明覆盖层形成拖尾。
// 每帧由 App 把离屏图像绘制到屏幕，再叠加界面。
type EbitenCanvas struct {
	img *ebiten.Image
}

// NewEbitenCanvas 创建 width x height 的离屏画布
func NewEbitenCanvas(width, height int) *EbitenCanvas {
	img := ebiten.NewImage(width, height)
	img.Fill(color.Black)
	return &EbitenCanvas{img: img}
}

// Image 离屏图像
func (c *EbitenCanvas) Image() *ebiten.Image {
	return c.img
}

// Size 画布像素尺寸
func (c *EbitenCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize 改变尺寸时保留已有内容（左上角对齐）
func (c *EbitenCanvas) Resize(width, height int) {
	if w, h := c.Size(); w == width && h == height {
		return
	}
	next := ebiten.NewImage(width, height)
	next.Fill(color.Black)
	next.DrawImage(c.img, nil)
	c.img.Deallocate()
	c.img = next
}

// Fade 实现 fireworks.Canvas
func (c *EbitenCanvas) Fade(col color.NRGBA, alpha float64) {
	w, h := c.Size()
	vector.DrawFilledRect(c.img, 0, 0, float32(w), float32(h), withAlpha(col, alpha), false)
}

// FillCircle 实现 fireworks.Canvas
func (c *EbitenCanvas) FillCircle(x, y, r float64, col color.NRGBA, alpha float64) {
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), withAlpha(col, alpha), true)
}

// StrokeLine 实现 fireworks.Canvas
func (c *EbitenCanvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA, alpha float64) {
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), withAlpha(col, alpha), true)
}

// withAlpha 把 [0,1] 的不透明度乘到颜色上
func withAlpha(col color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	col.A = uint8(float64(col.A)*alpha + 0.5)
	return col
}

var _ fireworks.Canvas = (*EbitenCanvas)(nil)

package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/fireworks/pkg/fireworks"
)

// halfBlock 上半块字符：前景色为上半像素，背景色为下半像素
const halfBlock = '▀'

// TerminalCanvas 以半块字符为像素的终端画布
//
// 每个终端单元包含上下两个像素，每个像素对应 cellSize x cellSize 的逻辑区域。
// 模拟仍使用逻辑坐标，画布负责缩放和 source-over 混合。
type TerminalCanvas struct {
	cols, rows int // 像素网格尺寸（rows 为终端行数的两倍）
	cellSize   float64
	pix        []colorful.Color
}

// NewTerminalCanvas 为 cols x termRows 的终端创建画布
func NewTerminalCanvas(cols, termRows int, cellSize float64) *TerminalCanvas {
	c := &TerminalCanvas{cellSize: cellSize}
	c.Resize(cols, termRows)
	return c
}

// Resize 调整网格尺寸并清空内容
func (c *TerminalCanvas) Resize(cols, termRows int) {
	if cols < 1 {
		cols = 1
	}
	if termRows < 1 {
		termRows = 1
	}
	c.cols = cols
	c.rows = termRows * 2
	c.pix = make([]colorful.Color, c.cols*c.rows)
}

// LogicalSize 画布覆盖的逻辑尺寸，用于 Simulation.Resize
func (c *TerminalCanvas) LogicalSize() (width, height float64) {
	return float64(c.cols) * c.cellSize, float64(c.rows) * c.cellSize
}

// ToLogical 把终端单元坐标转换为逻辑坐标（单元中心）
func (c *TerminalCanvas) ToLogical(col, termRow int) (x, y float64) {
	return (float64(col) + 0.5) * c.cellSize, (float64(termRow*2) + 1) * c.cellSize
}

// At 像素颜色，越界返回黑色
func (c *TerminalCanvas) At(px, py int) colorful.Color {
	if px < 0 || py < 0 || px >= c.cols || py >= c.rows {
		return colorful.Color{}
	}
	return c.pix[py*c.cols+px]
}

func toColorful(col color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255}
}

// blend source-over 混合一个像素
func (c *TerminalCanvas) blend(px, py int, src colorful.Color, alpha float64) {
	if px < 0 || py < 0 || px >= c.cols || py >= c.rows || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	i := py*c.cols + px
	c.pix[i] = c.pix[i].BlendRgb(src, alpha)
}

// Fade 实现 fireworks.Canvas
func (c *TerminalCanvas) Fade(col color.NRGBA, alpha float64) {
	src := toColorful(col)
	for py := 0; py < c.rows; py++ {
		for px := 0; px < c.cols; px++ {
			c.blend(px, py, src, alpha)
		}
	}
}

// FillCircle 实现 fireworks.Canvas
// 半径小于一个像素的圆仍然点亮所在像素
func (c *TerminalCanvas) FillCircle(x, y, r float64, col color.NRGBA, alpha float64) {
	src := toColorful(col)
	cx, cy := x/c.cellSize, y/c.cellSize
	rr := r / c.cellSize

	if rr < 0.5 {
		c.blend(int(math.Floor(cx)), int(math.Floor(cy)), src, alpha)
		return
	}

	minX, maxX := int(math.Floor(cx-rr)), int(math.Ceil(cx+rr))
	minY, maxY := int(math.Floor(cy-rr)), int(math.Ceil(cy+rr))
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if dx*dx+dy*dy <= rr*rr {
				c.blend(px, py, src, alpha)
			}
		}
	}
}

// StrokeLine 实现 fireworks.Canvas，线宽小于像素时按一个像素绘制
func (c *TerminalCanvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA, alpha float64) {
	src := toColorful(col)
	ax, ay := x0/c.cellSize, y0/c.cellSize
	bx, by := x1/c.cellSize, y1/c.cellSize

	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if steps == 0 {
		c.blend(int(math.Floor(ax)), int(math.Floor(ay)), src, alpha)
		return
	}

	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := int(math.Floor(ax + (bx-ax)*t))
		py := int(math.Floor(ay + (by-ay)*t))
		if px == lastX && py == lastY {
			continue
		}
		c.blend(px, py, src, alpha)
		lastX, lastY = px, py
	}
}

// Flush 把像素网格写入 tcell 屏幕（不调用 Show）
func (c *TerminalCanvas) Flush(screen tcell.Screen) {
	for row := 0; row < c.rows/2; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.pix[(row*2)*c.cols+col]
			bottom := c.pix[(row*2+1)*c.cols+col]
			style := tcell.StyleDefault.
				Foreground(toTcell(top)).
				Background(toTcell(bottom))
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
}

func toTcell(col colorful.Color) tcell.Color {
	r, g, b := col.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

var _ fireworks.Canvas = (*TerminalCanvas)(nil)

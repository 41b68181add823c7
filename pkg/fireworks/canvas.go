package fireworks

import "image/color"

// Canvas 是模拟的绘制表面
//
// 坐标单位为逻辑像素，原点在左上角。alpha 取值 0 ~ 1，
// 由实现负责与颜色自身的不透明度合成。
type Canvas interface {
	// Fade 用低不透明度的颜色覆盖整个视口，形成拖尾效果
	Fade(c color.NRGBA, alpha float64)
	// FillCircle 绘制实心圆
	FillCircle(x, y, r float64, c color.NRGBA, alpha float64)
	// StrokeLine 绘制线段
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA, alpha float64)
}

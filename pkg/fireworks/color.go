package fireworks

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// 固定颜色
var (
	ColorGold   = color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	ColorOrange = color.NRGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF}
	ColorRed    = color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	ColorWhite  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// HSL 将色相（度）、饱和度、亮度（0 ~ 1）转换为不透明颜色
func HSL(hue, saturation, lightness float64) color.NRGBA {
	r, g, b := colorful.Hsl(hue, saturation, lightness).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// randomHue 随机色相的饱和色
func randomHue(rng *rand.Rand, lightness float64) color.NRGBA {
	return HSL(between(rng, 0, 360), 1, lightness)
}

// between 返回 [min, max) 内的均匀随机数
func between(rng *rand.Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

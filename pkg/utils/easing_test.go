package utils

import (
	"math"
	"testing"
)

// TestEasing 缓动函数端点和中点
func TestEasing(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64) float64
		input    float64
		expected float64
	}{
		{"EaseOutCubic 起点", EaseOutCubic, 0, 0},
		{"EaseOutCubic 中点", EaseOutCubic, 0.5, 0.875},
		{"EaseOutCubic 终点", EaseOutCubic, 1, 1},
		{"EaseInQuad 中点", EaseInQuad, 0.5, 0.25},
		{"EaseInQuad 终点", EaseInQuad, 1, 1},
		{"EaseOutBack 起点", EaseOutBack, 0, 0},
		{"EaseOutBack 终点", EaseOutBack, 1, 1},
		{"Clamp01 下界", Clamp01, -0.5, 0},
		{"Clamp01 上界", Clamp01, 1.5, 1},
		{"Clamp01 区间内", Clamp01, 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.fn(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("got %v, 期望 %v", result, tt.expected)
			}
		})
	}
}

// TestEaseOutBackOvershoot 回弹缓出在中途超过 1
func TestEaseOutBackOvershoot(t *testing.T) {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, EaseOutBack(float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("EaseOutBack 应该超过 1，峰值 %v", peak)
	}
}

// TestLerp 线性插值
func TestLerp(t *testing.T) {
	if got := Lerp(10, 20, 0.5); got != 15 {
		t.Errorf("Lerp(10, 20, 0.5) = %v", got)
	}
	if got := Lerp(10, 20, 0); got != 10 {
		t.Errorf("Lerp(10, 20, 0) = %v", got)
	}
}

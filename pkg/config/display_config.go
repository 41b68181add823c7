package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DisplayConfig 烟花显示配置
//
// 配置文件位置: data/fireworks.yaml
// YAML 中未出现的字段保留 DefaultDisplayConfig 的默认值。
type DisplayConfig struct {
	Window WindowConfig `yaml:"window"`

	// Fade 拖尾覆盖层
	Fade FadeConfig `yaml:"fade"`

	// AutoLaunchChance 每帧自动发射的概率
	AutoLaunchChance float64 `yaml:"autoLaunchChance"`

	// GallopChance 金马未激活时每帧启动的概率
	GallopChance float64 `yaml:"gallopChance"`

	// MoveThrottleMs 鼠标移动发射的最小间隔（毫秒）
	MoveThrottleMs int `yaml:"moveThrottleMs"`

	Greeting GreetingConfig `yaml:"greeting"`

	// SoundManifest 音效清单路径（相对于 data 根）
	SoundManifest string `yaml:"soundManifest"`
}

// WindowConfig 窗口参数
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// FadeConfig 拖尾覆盖层颜色（#RRGGBB）和不透明度
type FadeConfig struct {
	Color string  `yaml:"color"`
	Alpha float64 `yaml:"alpha"`
}

// GreetingConfig 点击时显示的祝福语
type GreetingConfig struct {
	Texts      []string `yaml:"texts"`
	DurationMs int      `yaml:"durationMs"`
	FontPath   string   `yaml:"fontPath"`
	FontSize   float64  `yaml:"fontSize"`
}

// DefaultGreetings 默认祝福语列表
var DefaultGreetings = []string{
	"新年快乐", "万事如意", "马到成功", "恭喜发财", "大吉大利", "岁岁平安",
	"金马迎春", "龙马精神", "一马当先", "万马奔腾", "鹏程万里", "财源广进",
	"心想事成", "五福临门", "吉星高照", "年年有余", "步步高升", "喜气洋洋",
	"合家欢乐", "身体健康", "国泰民安", "风调雨顺", "吉祥如意", "笑口常开",
}

// DefaultDisplayConfig 返回全部默认值
func DefaultDisplayConfig() *DisplayConfig {
	greetings := make([]string, len(DefaultGreetings))
	copy(greetings, DefaultGreetings)

	return &DisplayConfig{
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "Fireworks",
			Resizable: true,
		},
		Fade: FadeConfig{
			Color: "#050000",
			Alpha: 0.2,
		},
		AutoLaunchChance: 0.02,
		GallopChance:     0.002,
		MoveThrottleMs:   200,
		Greeting: GreetingConfig{
			Texts:      greetings,
			DurationMs: 2500,
			FontSize:   48,
		},
		SoundManifest: "data/sounds.yaml",
	}
}

// LoadDisplayConfig 从磁盘加载显示配置
//
// 参数:
//   - path: 配置文件路径（如 "data/fireworks.yaml"）
//
// 返回:
//   - *DisplayConfig: 叠加在默认值之上的配置
//   - error: 读取、解析或验证失败
func LoadDisplayConfig(path string) (*DisplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read display config: %w", err)
	}
	return ParseDisplayConfig(data)
}

// ParseDisplayConfig 解析 YAML 并验证
func ParseDisplayConfig(data []byte) (*DisplayConfig, error) {
	cfg := DefaultDisplayConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse display config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid display config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 窗口尺寸为正
//   - 概率和不透明度在 [0, 1] 内
//   - 拖尾颜色是合法的 #RRGGBB
//   - 祝福语列表非空，显示时长和字号为正
func (c *DisplayConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	probs := []struct {
		name  string
		value float64
	}{
		{"autoLaunchChance", c.AutoLaunchChance},
		{"gallopChance", c.GallopChance},
		{"fade.alpha", c.Fade.Alpha},
	}
	for _, p := range probs {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %.3f", p.name, p.value)
		}
	}

	if _, err := ParseHexColor(c.Fade.Color); err != nil {
		return fmt.Errorf("fade.color: %w", err)
	}

	if c.MoveThrottleMs < 0 {
		return fmt.Errorf("moveThrottleMs must be >= 0, got %d", c.MoveThrottleMs)
	}
	if len(c.Greeting.Texts) == 0 {
		return fmt.Errorf("greeting.texts must not be empty")
	}
	if c.Greeting.DurationMs <= 0 {
		return fmt.Errorf("greeting.durationMs must be positive, got %d", c.Greeting.DurationMs)
	}
	if c.Greeting.FontSize <= 0 {
		return fmt.Errorf("greeting.fontSize must be positive, got %.1f", c.Greeting.FontSize)
	}

	return nil
}

// FadeColor 拖尾颜色，Validate 通过后不会失败
func (c *DisplayConfig) FadeColor() color.NRGBA {
	col, err := ParseHexColor(c.Fade.Color)
	if err != nil {
		return color.NRGBA{R: 5, A: 0xFF}
	}
	return col
}

// MoveThrottle 鼠标移动发射的最小间隔
func (c *DisplayConfig) MoveThrottle() time.Duration {
	return time.Duration(c.MoveThrottleMs) * time.Millisecond
}

// GreetingDuration 祝福语显示时长
func (c *DisplayConfig) GreetingDuration() time.Duration {
	return time.Duration(c.Greeting.DurationMs) * time.Millisecond
}

// ParseHexColor 解析 "#RRGGBB" 或 "#RGB"
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

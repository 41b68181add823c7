// Package utils 提供通用工具函数
package utils

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标）
// 返回是否按下以及按下位置，触摸优先
func IsPointerJustPressed() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 返回的 touching 表示位置来自一个活动的触摸
func GetPointerPosition() (x, y int, touching bool) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return x, y, true
	}
	x, y = ebiten.CursorPosition()
	return x, y, false
}

// MotionTracker 检测指针位置的变化
// ebiten 没有 mousemove 事件，每帧比较位置来模拟
type MotionTracker struct {
	x, y int
	seen bool
}

// Moved 记录新位置，位置与上一帧不同时返回 true
// 第一次调用只记录位置
func (m *MotionTracker) Moved(x, y int) bool {
	if !m.seen {
		m.x, m.y, m.seen = x, y, true
		return false
	}
	if x == m.x && y == m.y {
		return false
	}
	m.x, m.y = x, y
	return true
}

// MoveThrottle 限制移动触发的频率
type MoveThrottle struct {
	interval time.Duration
	last     time.Time
}

// NewMoveThrottle 创建节流器，interval <= 0 表示不限制
func NewMoveThrottle(interval time.Duration) *MoveThrottle {
	return &MoveThrottle{interval: interval}
}

// Allow 距离上次放行已超过 interval 时返回 true 并记录 now
func (t *MoveThrottle) Allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

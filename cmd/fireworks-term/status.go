package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	statusStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 220, 150)).Background(tcell.NewRGBColor(40, 8, 8))
	greetingStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 215, 0)).Bold(true)
)

// statusLine 底部状态栏和屏幕中央的祝福语
type statusLine struct {
	texts    []string
	duration time.Duration
	rng      *rand.Rand

	greeting string
	shownAt  time.Time
}

func newStatusLine(texts []string, duration time.Duration, rng *rand.Rand) *statusLine {
	return &statusLine{texts: texts, duration: duration, rng: rng}
}

// ShowGreeting 随机选择一条祝福语
func (s *statusLine) ShowGreeting(now time.Time) string {
	if len(s.texts) == 0 {
		return ""
	}
	s.greeting = s.texts[s.rng.Intn(len(s.texts))]
	s.shownAt = now
	return s.greeting
}

// Greeting 当前可见的祝福语
func (s *statusLine) Greeting(now time.Time) string {
	if s.greeting == "" || now.Sub(s.shownAt) >= s.duration {
		return ""
	}
	return s.greeting
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Text 状态栏文字
func (s *statusLine) Text(musicOn, soundOn bool) string {
	return fmt.Sprintf(" [m] music %s  [s] sound %s  [f] firecracker  [q] quit",
		onOff(musicOn), onOff(soundOn))
}

// Draw 状态栏占最后一行，祝福语在画面三分之一高度处居中
func (s *statusLine) Draw(screen tcell.Screen, cols, rows int, now time.Time, musicOn, soundOn bool) {
	if rows < 1 {
		return
	}
	for x := 0; x < cols; x++ {
		screen.SetContent(x, rows-1, ' ', nil, statusStyle)
	}
	drawText(screen, 0, rows-1, s.Text(musicOn, soundOn), statusStyle)

	if g := s.Greeting(now); g != "" {
		x := (cols - runewidth.StringWidth(g)) / 2
		if x < 0 {
			x = 0
		}
		drawText(screen, x, (rows-1)/3, g, greetingStyle)
	}
}

// drawText 按显示宽度逐字符写入，宽字符占两列
// 返回写入后的列位置
func drawText(screen tcell.Screen, x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

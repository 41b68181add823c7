// Package main provides a terminal front end for the fireworks display.
// The simulation runs unchanged; each terminal cell shows two pixels using
// half block characters, and sound goes through the system speaker.
//
// Usage:
//
//	go run ./cmd/fireworks-term [flags]
//
// Flags:
//
//	--config <path>   Display config YAML (default data/fireworks.yaml, built-in defaults if missing)
//	--root <dir>      Directory that relative asset paths are resolved against (default ".")
//	--cell <px>       Logical pixels per terminal pixel (default 4)
//	--seed <n>        Random seed (0 = time based)
//	--log <path>      Log file (the terminal owns stdout)
//
// Controls:
//
//	Mouse Click       - Launch a firework at the cursor
//	Mouse Move        - Launch a trail shell (throttled)
//	M                 - Toggle background music
//	S                 - Toggle sound effects
//	F                 - Firecracker string
//	Q/Escape/Ctrl+C   - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/fireworks"
	"github.com/decker502/fireworks/pkg/game"
	"github.com/decker502/fireworks/pkg/render"
	"github.com/decker502/fireworks/pkg/utils"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	configFlag = flag.String("config", "data/fireworks.yaml", "Display config YAML")
	rootFlag   = flag.String("root", ".", "Directory for relative asset paths")
	cellFlag   = flag.Float64("cell", 4, "Logical pixels per terminal pixel")
	seedFlag   = flag.Int64("seed", 0, "Random seed (0 = time based)")
	logFlag    = flag.String("log", "fireworks-term.log", "Log file path")
)

// TermApp 终端版的全部状态，只在主循环 goroutine 中访问
type TermApp struct {
	screen   tcell.Screen
	canvas   *render.TerminalCanvas
	sim      *fireworks.Simulation
	sound    *game.SoundManager
	speaker  *game.SpeakerOutput
	settings *game.SettingsManager
	status   *statusLine
	throttle *utils.MoveThrottle

	buttons tcell.ButtonMask // 上一个鼠标事件的按键状态
}

func main() {
	flag.Parse()

	logFile, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	display, err := loadDisplayConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app, err := newTermApp(display)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer app.close()

	app.run()
}

// loadDisplayConfig 读取配置文件，文件不存在时使用默认值
func loadDisplayConfig(path string) (*config.DisplayConfig, error) {
	cfg, err := config.LoadDisplayConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Term] Warning: %s not found, using defaults", path)
		return config.DefaultDisplayConfig(), nil
	}
	return cfg, err
}

func newTermApp(display *config.DisplayConfig) (*TermApp, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseMotionEvents)
	screen.HideCursor()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	a := &TermApp{
		screen:   screen,
		throttle: utils.NewMoveThrottle(display.MoveThrottle()),
		status:   newStatusLine(display.Greeting.Texts, display.GreetingDuration(), rng),
	}

	a.initSound(display, seed)
	a.initSettings()

	s := a.settings.GetSettings()
	a.sound.SetVolume(s.MasterVolume)
	a.sound.SetMusic(s.MusicEnabled)

	cols, rows := screen.Size()
	a.canvas = render.NewTerminalCanvas(cols, rows-1, *cellFlag)
	w, h := a.canvas.LogicalSize()

	opts := fireworks.DefaultOptions()
	opts.Width, opts.Height = w, h
	opts.AutoLaunchChance = display.AutoLaunchChance
	opts.GallopChance = display.GallopChance
	opts.FadeColor = display.FadeColor()
	opts.FadeAlpha = display.Fade.Alpha
	opts.Muted = !s.SoundEnabled
	opts.Rand = rng
	opts.Sound = a.sound
	a.sim = fireworks.New(opts)

	log.Printf("[Term] Started %dx%d cells (%.0fx%.0f logical), seed=%d", cols, rows, w, h, seed)
	return a, nil
}

// initSound 扬声器不可用时音效静默
func (a *TermApp) initSound(display *config.DisplayConfig, seed int64) {
	var output game.Output
	if out, err := game.NewSpeakerOutput(); err != nil {
		log.Printf("[Term] Warning: speaker unavailable: %v", err)
	} else {
		a.speaker = out
		output = out
	}

	readFile := func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(*rootFlag, filepath.FromSlash(path)))
	}
	a.sound = game.NewSoundManager(output, readFile)
	a.sound.SetRand(rand.New(rand.NewSource(seed + 1)))

	manifest, err := loadManifest(readFile, display.SoundManifest)
	if err != nil {
		log.Printf("[Term] Warning: %v (using synthesized sounds)", err)
		manifest = synthManifest()
	}
	a.sound.LoadAsync(context.Background(), manifest)
}

func loadManifest(readFile game.FileReader, path string) (*game.SoundManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound manifest %s: %w", path, err)
	}
	return game.ParseSoundManifest(data)
}

// synthManifest 全部音效使用合成预设
func synthManifest() *game.SoundManifest {
	m := &game.SoundManifest{
		Version: "1.0",
		Music:   &game.MusicResource{Synth: game.PresetFestive},
	}
	for _, name := range fireworks.SoundNames() {
		m.Sounds = append(m.Sounds, game.SoundResource{ID: name, Synth: name})
	}
	return m
}

// initSettings 与桌面版共用同一份 gdata 设置
func (a *TermApp) initSettings() {
	gdataManager, err := gdata.Open(gdata.Config{AppName: "fireworks"})
	if err != nil {
		log.Printf("[Term] Warning: settings storage unavailable: %v (memory only)", err)
		gdataManager = nil
	}
	a.settings = game.NewSettingsManager(gdataManager)
}

func (a *TermApp) close() {
	a.screen.Fini()
	if a.speaker != nil {
		a.speaker.Close()
	}
}

func (a *TermApp) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Fini 之后 PollEvent 返回 nil
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev, time.Now()) {
				return
			}

		case now := <-ticker.C:
			a.sim.Tick(now, a.canvas)
			a.draw(now)
		}
	}
}

// handleEvent 返回 false 表示退出
func (a *TermApp) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'm', 'M':
			a.toggleMusic()
		case 's', 'S':
			a.toggleSound()
		case 'f', 'F':
			a.sim.SpawnFirecracker()
		}

	case *tcell.EventMouse:
		a.handleMouse(ev, now)

	case *tcell.EventResize:
		a.handleResize()
	}
	return true
}

func (a *TermApp) handleMouse(ev *tcell.EventMouse, now time.Time) {
	col, row := ev.Position()
	buttons := ev.Buttons()
	justPressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = buttons

	_, rows := a.screen.Size()
	if row >= rows-1 {
		// 状态栏
		return
	}
	x, y := a.canvas.ToLogical(col, row)

	if justPressed {
		a.sim.Launch(x, y)
		greeting := a.status.ShowGreeting(now)
		log.Printf("[Term] Launch at (%.0f, %.0f), greeting %q", x, y, greeting)
		return
	}
	if buttons == tcell.ButtonNone && a.throttle.Allow(now) {
		a.sim.LaunchTrail(x, y)
	}
}

func (a *TermApp) handleResize() {
	a.screen.Sync()
	cols, rows := a.screen.Size()
	a.canvas.Resize(cols, rows-1)
	a.sim.Resize(a.canvas.LogicalSize())
	log.Printf("[Term] Resize %dx%d", cols, rows)
}

func (a *TermApp) toggleMusic() {
	on := !a.sound.MusicOn()
	a.sound.SetMusic(on)
	a.settings.SetMusicEnabled(on)
	a.saveSettings()
}

func (a *TermApp) toggleSound() {
	muted := !a.sim.Muted()
	a.sim.SetMuted(muted)
	a.settings.SetSoundEnabled(!muted)
	a.saveSettings()
}

func (a *TermApp) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[Term] Warning: failed to save settings: %v", err)
	}
}

func (a *TermApp) draw(now time.Time) {
	a.canvas.Flush(a.screen)
	cols, rows := a.screen.Size()
	a.status.Draw(a.screen, cols, rows, now, a.sound.MusicOn(), !a.sim.Muted())
	a.screen.Show()
}

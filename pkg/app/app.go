// Package app 提供烟花显示程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/embedded"
	"github.com/decker502/fireworks/pkg/fireworks"
	"github.com/decker502/fireworks/pkg/game"
	"github.com/decker502/fireworks/pkg/render"
	"github.com/decker502/fireworks/pkg/utils"
)

// DefaultConfigPath 嵌入的显示配置
const DefaultConfigPath = "data/fireworks.yaml"

// gdata 应用名（决定设置的存储目录）
const storageAppName = "fireworks"

// 控件标签字号
const labelFontSize = 16

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出和调试信息
	Verbose bool
	// Display 显示配置，为 nil 时读取嵌入的 data/fireworks.yaml
	Display *config.DisplayConfig
	// Seed 随机种子，为 0 时使用当前时间
	Seed int64
}

// App 是烟花显示程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	display *config.DisplayConfig

	sim      *fireworks.Simulation
	canvas   *render.EbitenCanvas
	sound    *game.SoundManager
	output   *game.EbitenOutput // 音频不可用时为 nil
	settings *game.SettingsManager

	controls  *Controls
	greeting  *Greeting
	labelFace text.Face
	motion    utils.MotionTracker
	throttle  *utils.MoveThrottle
	now       func() time.Time
	width     int
	height    int
	verbose   bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 音频、设置存储和字体的失败只记录日志并降级；配置无效时返回错误。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	display := cfg.Display
	if display == nil {
		var err error
		display, err = loadEmbeddedDisplayConfig()
		if err != nil {
			return nil, err
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sound, output := newSoundManager(display, seed)
	settings := newSettingsManager()

	s := settings.GetSettings()
	sound.SetVolume(s.MasterVolume)
	sound.SetMusic(s.MusicEnabled)

	opts := fireworks.DefaultOptions()
	opts.Width = float64(display.Window.Width)
	opts.Height = float64(display.Window.Height)
	opts.AutoLaunchChance = display.AutoLaunchChance
	opts.GallopChance = display.GallopChance
	opts.FadeColor = display.FadeColor()
	opts.FadeAlpha = display.Fade.Alpha
	opts.Muted = !s.SoundEnabled
	opts.Rand = rng
	opts.Sound = sound

	greetingFace, labelFace := loadFaces(display.Greeting)

	a := &App{
		display:   display,
		sim:       fireworks.New(opts),
		canvas:    render.NewEbitenCanvas(display.Window.Width, display.Window.Height),
		sound:     sound,
		output:    output,
		settings:  settings,
		controls:  NewControls(utils.IsMobile()),
		greeting:  NewGreeting(display.Greeting.Texts, display.GreetingDuration(), greetingFace, rng),
		labelFace: labelFace,
		throttle:  utils.NewMoveThrottle(display.MoveThrottle()),
		now:       time.Now,
		width:     display.Window.Width,
		height:    display.Window.Height,
		verbose:   cfg.Verbose,
	}

	log.Printf("[App] Initialized %dx%d, sound=%v music=%v seed=%d",
		a.width, a.height, s.SoundEnabled, s.MusicEnabled, seed)
	return a, nil
}

// loadEmbeddedDisplayConfig 读取嵌入的显示配置，文件不存在时使用默认值
func loadEmbeddedDisplayConfig() (*config.DisplayConfig, error) {
	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[App] Warning: %s not found, using defaults", DefaultConfigPath)
			return config.DefaultDisplayConfig(), nil
		}
		return nil, fmt.Errorf("failed to read display config: %w", err)
	}
	return config.ParseDisplayConfig(data)
}

// newSoundManager 创建音频输出并在后台加载音效清单
// 音频设备或清单不可用时返回静默的管理器
func newSoundManager(display *config.DisplayConfig, seed int64) (*game.SoundManager, *game.EbitenOutput) {
	var output game.Output
	audioContext := audio.CurrentContext()
	if audioContext == nil {
		audioContext = audio.NewContext(int(game.SampleRate))
	}
	ebitenOutput, err := game.NewEbitenOutput(audioContext)
	if err != nil {
		log.Printf("[App] Warning: audio output unavailable: %v", err)
	} else {
		output = ebitenOutput
	}

	sound := game.NewSoundManager(output, embedded.ReadFile)
	sound.SetRand(rand.New(rand.NewSource(seed + 1)))

	data, err := embedded.ReadFile(display.SoundManifest)
	if err != nil {
		log.Printf("[App] Warning: failed to read sound manifest %s: %v", display.SoundManifest, err)
		return sound, ebitenOutput
	}
	manifest, err := game.ParseSoundManifest(data)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
		return sound, ebitenOutput
	}
	sound.LoadAsync(context.Background(), manifest)
	return sound, ebitenOutput
}

// newSettingsManager 打开 gdata 存储，失败时使用内存设置
func newSettingsManager() *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: storageAppName})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v (memory only)", err)
		gdataManager = nil
	}
	return game.NewSettingsManager(gdataManager)
}

// loadFaces 加载祝福语和按钮字体
// 字体路径可以是嵌入资源（assets/...）或磁盘上的任意路径
func loadFaces(cfg config.GreetingConfig) (greeting, label text.Face) {
	if cfg.FontPath == "" {
		log.Printf("[App] No greeting font configured, using fallback")
		return nil, FallbackFace()
	}

	data, err := embedded.ReadFile(cfg.FontPath)
	if err != nil {
		data, err = os.ReadFile(cfg.FontPath)
	}
	if err != nil {
		log.Printf("[App] Warning: failed to read font %s: %v", cfg.FontPath, err)
		return nil, FallbackFace()
	}

	g, err := LoadFace(data, cfg.FontSize)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
		return nil, FallbackFace()
	}
	return g, &text.GoTextFace{Source: g.Source, Size: labelFontSize}
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	now := a.now()
	a.updateWindow()

	if pressed, x, y := utils.IsPointerJustPressed(); pressed {
		a.handlePress(float64(x), float64(y), now)
	}

	if x, y, _ := utils.GetPointerPosition(); a.motion.Moved(x, y) {
		a.handleMove(float64(x), float64(y), now)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		a.toggleMusic()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.toggleSound()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		a.spawnFirecracker()
	}

	a.sim.Tick(now, a.canvas)
	a.greeting.Update(now)
	return nil
}

// updateWindow F11 切换全屏
func (a *App) updateWindow() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.display.Window.Width, a.display.Window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.display.Window.Width, a.display.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}
}

// handlePress 点击或触摸：按钮优先，否则在点击位置发射烟花并显示祝福语
func (a *App) handlePress(x, y float64, now time.Time) {
	switch a.controls.HitTest(x, y) {
	case ControlMusic:
		a.toggleMusic()
	case ControlSound:
		a.toggleSound()
	case ControlFirecracker:
		a.spawnFirecracker()
	default:
		a.sound.Resume()
		a.sim.Launch(x, y)
		greeting := a.greeting.Show(now)
		log.Printf("[App] Launch at (%.0f, %.0f), greeting %q", x, y, greeting)
	}
}

// handleMove 节流后在指针位置发射一枚拖尾礼花弹
func (a *App) handleMove(x, y float64, now time.Time) {
	if a.controls.Contains(x, y) {
		return
	}
	if a.throttle.Allow(now) {
		a.sim.LaunchTrail(x, y)
	}
}

func (a *App) toggleMusic() {
	a.sound.Resume()
	on := !a.sound.MusicOn()
	a.sound.SetMusic(on)
	a.settings.SetMusicEnabled(on)
	a.saveSettings()
	log.Printf("[App] Music %v", on)
}

func (a *App) toggleSound() {
	a.sound.Resume()
	muted := !a.sim.Muted()
	a.sim.SetMuted(muted)
	a.settings.SetSoundEnabled(!muted)
	a.saveSettings()
	log.Printf("[App] Sound effects muted=%v", muted)
}

func (a *App) spawnFirecracker() {
	a.sound.Resume()
	a.sim.SpawnFirecracker()
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// controlState 当前开关状态
func (a *App) controlState() ControlState {
	return ControlState{
		MusicOn: a.sound.MusicOn(),
		SoundOn: !a.sim.Muted(),
	}
}

// Draw 绘制画面
// 拖尾图像在 Update 中累积，这里只负责合成和叠加界面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	screen.DrawImage(a.canvas.Image(), nil)

	a.controls.Draw(screen, a.labelFace, a.controlState())
	a.greeting.Draw(screen, a.now())

	if a.verbose {
		voices := 0
		if a.output != nil {
			voices = a.output.Voices()
		}
		msg := fmt.Sprintf("FPS: %.0f  entities: %d  voices: %d/%d",
			ebiten.ActualFPS(), len(a.sim.Entities()), voices, a.sound.VoicesStarted())
		ebitenutil.DebugPrintAt(screen, msg, 10, a.height-20)
	}
}

// Layout 逻辑尺寸跟随窗口尺寸，视口变化时同步给模拟和画布
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.width, a.height
	}
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.sim.Resize(float64(outsideWidth), float64(outsideHeight))
		a.canvas.Resize(outsideWidth, outsideHeight)
		log.Printf("[App] Resize %dx%d", outsideWidth, outsideHeight)
	}
	return a.width, a.height
}

// Simulation 返回模拟实例
func (a *App) Simulation() *fireworks.Simulation {
	return a.sim
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Window 返回应用使用的窗口配置
func (a *App) Window() config.WindowConfig {
	return a.display.Window
}

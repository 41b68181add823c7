package game

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/decker502/fireworks/pkg/fireworks"
)

// 播放参数（与网页版一致）
const (
	defaultPlayVolume = 0.5 // PlayOptions.Volume 为 0 时使用
	effectGain        = 0.6 // 全部音效统一降低的比例
	rateJitterMin     = 0.9
	rateJitterMax     = 1.1
	fetchTimeout      = 15 * time.Second
)

// FileReader 读取本地资源（通常是 embedded.ReadFile）
type FileReader func(path string) ([]byte, error)

// SoundManager 音效管理器
// 职责：
//   - 按清单异步加载音效（本地文件、远程 URL 或合成预设）
//   - 实现 fireworks.SoundPlayer：按名称播放一次性音效
//   - 主音量和静音：对正在播放的声部立即生效
//   - 背景音乐的循环播放和暂停
//
// 未加载完成的音效调用 Play 时静默忽略。
type SoundManager struct {
	mu    sync.RWMutex
	bank  map[string]*beep.Buffer
	music *loopStreamer

	output     Output
	readFile   FileReader
	httpClient *http.Client

	rngMu sync.Mutex
	rng   *rand.Rand

	volume        atomicFloat // 主音量
	muted         atomic.Bool // 音效静音
	musicGain     atomicFloat
	musicStarted  bool
	musicOn       bool
	voicesStarted atomic.Int64

	wg sync.WaitGroup
}

// NewSoundManager 创建音效管理器
//
// 参数：
//   - output: 音频输出后端，为 nil 时所有播放静默（降级模式）
//   - readFile: 读取本地音频文件，为 nil 时清单中的 path 条目加载失败
//
// 返回：
//   - *SoundManager: 初始为静音、主音量 1.0
func NewSoundManager(output Output, readFile FileReader) *SoundManager {
	sm := &SoundManager{
		bank:       make(map[string]*beep.Buffer),
		output:     output,
		readFile:   readFile,
		httpClient: &http.Client{Timeout: fetchTimeout},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	sm.volume.Store(1.0)
	sm.musicGain.Store(defaultMusicVolume)
	sm.muted.Store(true)
	return sm
}

// SetRand 替换播放速率抖动使用的随机源（测试用）
func (sm *SoundManager) SetRand(rng *rand.Rand) {
	sm.rngMu.Lock()
	sm.rng = rng
	sm.rngMu.Unlock()
}

// SetHTTPClient 替换远程音效使用的 HTTP 客户端
func (sm *SoundManager) SetHTTPClient(c *http.Client) {
	sm.httpClient = c
}

// LoadAsync 在后台 goroutine 中加载清单，立即返回
// 加载完成的音效立即可用；调用 Wait 等待全部完成
func (sm *SoundManager) LoadAsync(ctx context.Context, manifest *SoundManifest) {
	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		if err := sm.Load(ctx, manifest); err != nil {
			log.Printf("[SoundManager] Warning: Some sounds failed to load: %v", err)
		}
	}()
}

// Wait 等待所有 LoadAsync 完成
func (sm *SoundManager) Wait() {
	sm.wg.Wait()
}

// Load 同步加载清单中的全部音效和背景音乐
// 单个音效失败不影响其他音效，所有错误合并返回
func (sm *SoundManager) Load(ctx context.Context, manifest *SoundManifest) error {
	var errs []error
	loaded := 0

	for _, res := range manifest.Sounds {
		buf, err := sm.loadSource(ctx, manifest.BasePath, res.ID, res.Path, res.URL, res.Synth)
		if err != nil {
			log.Printf("[SoundManager] Warning: Failed to load sound %s: %v", res.ID, err)
			errs = append(errs, fmt.Errorf("sound %s: %w", res.ID, err))
			continue
		}
		sm.Register(res.ID, buf)
		loaded++
	}

	if m := manifest.Music; m != nil {
		buf, err := sm.loadSource(ctx, manifest.BasePath, "music", m.Path, m.URL, m.Synth)
		if err != nil {
			log.Printf("[SoundManager] Warning: Failed to load music: %v", err)
			errs = append(errs, fmt.Errorf("music: %w", err))
		} else {
			sm.setMusic(buf, m.MusicVolume())
		}
	}

	log.Printf("[SoundManager] Loaded %d/%d sounds", loaded, len(manifest.Sounds))
	return errors.Join(errs...)
}

func (sm *SoundManager) loadSource(ctx context.Context, basePath, id, path, url, synth string) (*beep.Buffer, error) {
	switch {
	case synth != "":
		return Synthesize(synth, seedFor(id))
	case url != "":
		data, err := sm.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return decodeClip(url, data)
	case path != "":
		if sm.readFile == nil {
			return nil, fmt.Errorf("no file reader configured")
		}
		full := buildFullPath(basePath, path)
		data, err := sm.readFile(full)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", full, err)
		}
		return decodeClip(full, data)
	default:
		return nil, fmt.Errorf("no source")
	}
}

func (sm *SoundManager) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := sm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

// seedFor 让同名预设每次启动都得到相同的噪声
func seedFor(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}

// Register 把已解码的缓冲区加入音效库，同名覆盖
func (sm *SoundManager) Register(name string, buf *beep.Buffer) {
	sm.mu.Lock()
	sm.bank[name] = buf
	sm.mu.Unlock()
}

// Loaded 音效是否已加载
func (sm *SoundManager) Loaded(name string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.bank[name] != nil
}

// Play 实现 fireworks.SoundPlayer
//
// 播放速率 = (opts.Rate 或 1) × [0.9, 1.1) 随机抖动
// 增益 = (opts.Volume 或 0.5) × 0.6，再乘以主增益（静音时为 0）
func (sm *SoundManager) Play(name string, opts fireworks.PlayOptions) {
	sm.mu.RLock()
	clip := sm.bank[name]
	sm.mu.RUnlock()

	if clip == nil || sm.output == nil {
		return
	}

	rate := opts.Rate
	if rate <= 0 {
		rate = 1
	}
	rate *= sm.jitter()

	volume := opts.Volume
	if volume <= 0 {
		volume = defaultPlayVolume
	}

	sm.output.Play(sm.newVoice(clip, rate, volume*effectGain))
	sm.voicesStarted.Add(1)
}

// newVoice 单次播放的声部：变速 -> 增益 -> 主增益
func (sm *SoundManager) newVoice(clip *beep.Buffer, rate, gain float64) beep.Streamer {
	var s beep.Streamer = clip.Streamer(0, clip.Len())
	if rate != 1 {
		s = beep.ResampleRatio(resampleQuality, rate, s)
	}
	s = newVolume(s, gain)
	return &gainStreamer{streamer: s, gain: sm.effectMaster}
}

func (sm *SoundManager) jitter() float64 {
	sm.rngMu.Lock()
	defer sm.rngMu.Unlock()
	return rateJitterMin + sm.rng.Float64()*(rateJitterMax-rateJitterMin)
}

// effectMaster 音效主增益，在音频线程调用
func (sm *SoundManager) effectMaster() float64 {
	if sm.muted.Load() {
		return 0
	}
	return sm.volume.Load()
}

func (sm *SoundManager) musicMaster() float64 {
	return sm.volume.Load() * sm.musicGain.Load()
}

// SetMute 实现 fireworks.SoundPlayer，对正在播放的音效立即生效
func (sm *SoundManager) SetMute(muted bool) {
	sm.muted.Store(muted)
	log.Printf("[SoundManager] Mute: %v", muted)
}

// Muted 当前是否静音
func (sm *SoundManager) Muted() bool {
	return sm.muted.Load()
}

// SetVolume 设置主音量（影响音效和背景音乐）
func (sm *SoundManager) SetVolume(volume float64) {
	sm.volume.Store(clampVolume(volume))
}

// Volume 当前主音量
func (sm *SoundManager) Volume() float64 {
	return sm.volume.Load()
}

// VoicesStarted 已开始播放的声部总数
func (sm *SoundManager) VoicesStarted() int64 {
	return sm.voicesStarted.Load()
}

// Resume 在用户交互后调用，确保输出后端在运行
func (sm *SoundManager) Resume() {
	if r, ok := sm.output.(resumer); ok {
		r.Resume()
	}
}

func (sm *SoundManager) setMusic(buf *beep.Buffer, gain float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.musicGain.Store(gain)
	sm.music = newLoopStreamer(buf)
	sm.music.paused.Store(!sm.musicOn)
	sm.musicStarted = false
	if sm.musicOn {
		sm.startMusicLocked()
	}
}

func (sm *SoundManager) startMusicLocked() {
	if sm.music == nil || sm.output == nil || sm.musicStarted {
		return
	}
	sm.output.Play(&gainStreamer{streamer: sm.music, gain: sm.musicMaster})
	sm.musicStarted = true
}

// SetMusic 打开或关闭背景音乐
// 音乐尚未加载时记录状态，加载完成后自动开始
//
// 返回：
//   - bool: 音乐是否已在播放
func (sm *SoundManager) SetMusic(on bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.musicOn = on
	if sm.music == nil {
		return false
	}
	sm.music.paused.Store(!on)
	if on {
		sm.startMusicLocked()
	}
	return on && sm.musicStarted
}

// MusicOn 背景音乐开关状态
func (sm *SoundManager) MusicOn() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.musicOn
}

var _ fireworks.SoundPlayer = (*SoundManager)(nil)

package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings 显示程序的全局设置
// 只保存两个界面开关和主音量，烟花状态本身不持久化
type Settings struct {
	SoundEnabled bool    `yaml:"sound_enabled"` // 音效开关
	MusicEnabled bool    `yaml:"music_enabled"` // 背景音乐开关
	MasterVolume float64 `yaml:"master_volume"` // 主音量 0.0 ~ 1.0
}

// DefaultSettings 返回默认设置：音效关、音乐关、主音量 1.0
func DefaultSettings() *Settings {
	return &Settings{
		SoundEnabled: false,
		MusicEnabled: false,
		MasterVolume: 1.0,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *Settings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
//
// 返回：
//   - error: 读取或反序列化失败（此时已回退到默认设置）
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 缺失字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MasterVolume = clampVolume(loaded.MasterVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded (sound=%v, music=%v, volume=%.2f)",
		loaded.SoundEnabled, loaded.MusicEnabled, loaded.MasterVolume)
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// Persistent 是否有可用的持久化存储
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetSoundEnabled 设置音效开关（仅内存，需调用 Save 持久化）
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetMusicEnabled 设置音乐开关（仅内存，需调用 Save 持久化）
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetMasterVolume 设置主音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetMasterVolume(volume float64) {
	sm.settings.MasterVolume = clampVolume(volume)
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 设置目录存在并可写
// gdata 在 Android 上使用 /data/data/{package}/ 但不会预先创建子目录，
// 必须在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	app, err := detectAndroidApp()
	if err != nil {
		return fmt.Errorf("failed to detect Android app: %w", err)
	}

	dir := filepath.Join("/data/data", app, "settings")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// detectAndroidApp 从 /proc/self/cmdline 读取应用包名
func detectAndroidApp() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	name := make([]byte, 0, len(data))
	for _, ch := range data {
		if ch == 0 || ch == '\n' {
			continue
		}
		name = append(name, ch)
	}
	if len(name) == 0 {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}
	return string(name), nil
}

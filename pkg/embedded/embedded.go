// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 设置 SetDiskRoot 后，嵌入文件系统中找不到的文件会从磁盘读取，
// 便于在不重新编译的情况下替换音效和字体。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	diskRoot    string
	initialized bool
)

// ErrNotInitialized Init 之前访问资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 初始化资源文件系统（通常是 embed.FS）
// 必须在 main() 开始时、任何资源加载之前调用
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// SetDiskRoot 设置磁盘回退目录，空字符串关闭回退
func SetDiskRoot(dir string) {
	diskRoot = dir
}

// normalize 标准化路径并选择对应的文件系统
// 路径必须以 "assets/" 或 "data/" 开头
func normalize(path string) (string, fs.FS, error) {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	switch {
	case strings.HasPrefix(path, "assets/"):
		return path, assetsFS, nil
	case strings.HasPrefix(path, "data/"):
		return path, dataFS, nil
	}
	return path, nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", path)
}

// Open 打开资源文件
func Open(path string) (fs.File, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	path, fsys, err := normalize(path)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(path)
	if err != nil && diskRoot != "" && errors.Is(err, fs.ErrNotExist) {
		return os.Open(filepath.Join(diskRoot, filepath.FromSlash(path)))
	}
	return f, err
}

// ReadFile 读取资源文件内容，嵌入文件系统优先，其次磁盘回退目录
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	path, fsys, err := normalize(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil && diskRoot != "" && errors.Is(err, fs.ErrNotExist) {
		return os.ReadFile(filepath.Join(diskRoot, filepath.FromSlash(path)))
	}
	return data, err
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.fireworks -o build/android/fireworks.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Fireworks.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/fireworks/pkg/app"
	"github.com/decker502/fireworks/pkg/embedded"
)

func init() {
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	fireworksApp, err := app.NewApp(app.Config{Verbose: true})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	mobile.SetGame(fireworksApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}

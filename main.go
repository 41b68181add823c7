package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/fireworks/pkg/app"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging and the debug overlay")
	configPath := flag.String("config", "", "Display config YAML on disk (default: embedded data/fireworks.yaml)")
	assetsDir := flag.String("assets", "", "Directory searched for assets/ and data/ files missing from the binary")
	seed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	embedded.Init(assetsFS, dataFS)
	embedded.SetDiskRoot(*assetsDir)

	cfg := app.Config{
		Verbose: *verbose,
		Seed:    *seed,
	}
	if *configPath != "" {
		display, err := config.LoadDisplayConfig(*configPath)
		if err != nil {
			log.Printf("配置加载失败: %v", err)
			os.Exit(1)
		}
		cfg.Display = display
	}

	fireworksApp, err := app.NewApp(cfg)
	if err != nil {
		// NewApp 在非 verbose 模式下已关闭 log 输出
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	window := fireworksApp.Window()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	if window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(fireworksApp); err != nil {
		log.Fatal(err)
	}
}

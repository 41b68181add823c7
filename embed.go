// embed.go - 嵌入桌面版使用的资源和配置
// //go:embed 只能引用当前包目录下的文件，所以声明放在项目根目录，
// 由 main() 通过 embedded.Init 交给其他包使用
package main

import "embed"

//go:embed all:assets
var assetsFS embed.FS

//go:embed data/fireworks.yaml data/sounds.yaml
var dataFS embed.FS

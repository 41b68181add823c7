//go:build !mobile

// stub.go - 非移动端构建时的占位文件
//
// 普通构建（go build ./...）时编译此文件，embed.go 和 mobile.go
// 需要 -tags mobile 且要求 assets/ 和 data/ 已复制到本目录。
package mobile

// Dummy 是一个空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}

//go:build mobile

package utils

// IsMobile 移动端构建（-tags mobile）始终返回 true，按钮使用放大布局
func IsMobile() bool {
	return true
}

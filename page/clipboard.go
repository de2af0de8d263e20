package page

import "github.com/atotto/clipboard"

// Clipboard 复制邮箱等操作写入的剪贴板
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard 系统剪贴板
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

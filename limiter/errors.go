package limiter

import "errors"

var (
	// ErrUnsupportedUnit 不支持的窗口单位
	ErrUnsupportedUnit = errors.New("unsupported window unit")

	// ErrClosed 限流器已关闭
	ErrClosed = errors.New("limiter is closed")
)

package llm

import (
	"context"
	"strings"
)

// Chatter 定义通用的对话接口
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// IsRateLimited 判断错误是否来自服务端限流
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

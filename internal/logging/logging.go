package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// New 按级别与格式（text|json）创建 slog 日志记录器，输出到 w。
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lv := new(slog.LevelVar)
	if err := setLevel(level, lv); err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lv}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("无效的日志格式：%q", format)
	}
	return slog.New(h), nil
}

// Setup 与 New 相同，并把结果设为 slog 默认记录器。
func Setup(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := New(w, level, format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}

func setLevel(s string, lv *slog.LevelVar) error {
	switch s {
	case "debug":
		lv.Set(slog.LevelDebug)
	case "", "info":
		lv.Set(slog.LevelInfo)
	case "warn":
		lv.Set(slog.LevelWarn)
	case "error":
		lv.Set(slog.LevelError)
	default:
		return fmt.Errorf("无效的日志级别：%q", s)
	}
	return nil
}

// Discard 返回一个丢弃所有日志的 logger，主要用于测试。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"muxsummary/internal/config"
)

// newLogger 仪表盘占用终端，日志只写文件；file 为空或 "-" 时丢弃
// newLogger opens the file logger. The dashboard owns the terminal, so logs never
// go to stderr; an empty file or "-" discards them.
func newLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" || path == "-" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).
		With("pid", os.Getpid())
	return logger, f.Close, nil
}

package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Log 全局日志；Init 之前也可以直接使用（stderr, info）
var Log = newLogger(os.Stderr, log.InfoLevel)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "shoeedge",
	})
	l.SetStyles(styles())
	return l
}

// Init 按配置级别重建日志（debug/info/warn/error）
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	Log = newLogger(os.Stderr, lvl)
	if err != nil {
		Log.Warn("unknown log level, using info", "level", level)
	}
}

// SetOutput 测试时把日志重定向
func SetOutput(w io.Writer) {
	Log = newLogger(w, Log.GetLevel())
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = badge("DEBUG", "#4B5563")
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("#90EE90")).
		Foreground(lipgloss.Color("#006400")).Bold(true)
	s.Levels[log.WarnLevel] = badge("WARN", "#B8860B")
	s.Levels[log.ErrorLevel] = badge("ERROR", "#FF0000")
	s.Levels[log.FatalLevel] = badge("FATAL", "#000000")
	s.Keys["session"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF"))
	s.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500"))
	return s
}

func badge(text, bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(text).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
}

// Package logging configures the diagnostic logger used across commitmood.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"

	"github.com/huangsam/commitmood/internal/contract"
)

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// Default returns the default logger
func Default() *slog.Logger {
	return defaultLogger
}

var levelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds a logger writing to w with the given format and level.
// API tokens are masked wherever they appear in attributes.
func New(logFormat, logLevel string, w io.Writer) (*slog.Logger, error) {
	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithType[contract.GitHubToken](masq.MaskWithSymbol('*', 16)),
	)

	level, ok := levelMap[logLevel]
	if !ok {
		return nil, fmt.Errorf("invalid log level %q", logLevel)
	}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithSource(level == slog.LevelDebug),
			clog.WithColorMap(&clog.ColorMap{
				Level: map[slog.Level]*color.Color{
					slog.LevelDebug: color.New(color.FgGreen, color.Bold),
					slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
					slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
					slog.LevelError: color.New(color.FgRed, color.Bold),
				},
				LevelDefault: color.New(color.FgBlue, color.Bold),
				Time:         color.New(color.FgWhite),
				Message:      color.New(color.FgHiWhite),
				AttrKey:      color.New(color.FgHiCyan),
				AttrValue:    color.New(color.FgHiWhite),
			}),
			clog.WithReplaceAttr(filter),
		)

	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   level == slog.LevelDebug,
			Level:       level,
			ReplaceAttr: filter,
		})

	default:
		return nil, fmt.Errorf("invalid log format %q, should be 'json' or 'text'", logFormat)
	}

	return slog.New(handler), nil
}

// Configure replaces the default logger. Logs go to stderr so stdout stays
// free for reports and the MCP stdio transport.
func Configure(logFormat, logLevel string) error {
	logger, err := New(logFormat, logLevel, os.Stderr)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

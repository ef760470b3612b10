package log

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Plugin = zapcore.Core

// NewLogger wraps the plugin with the default options. Options passed in are
// appended, so they can add to but not remove the defaults.
func NewLogger(plugin Plugin, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin writes to a rotated file. lumberjack has no Sync, so the
// returned closer must be closed before the process exits to flush it.
func NewFilePlugin(
	filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath

	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

// Build returns a stdout logger at levelText. When filePath is set the
// output is duplicated into a rotated file.
func Build(levelText string, filePath string) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(levelText))
	if err != nil {
		return nil, nil, err
	}

	plugins := []Plugin{NewStdoutPlugin(level)}
	var closer io.Closer = nopCloser{}

	if filePath != "" {
		var p Plugin
		p, closer = NewFilePlugin(filePath, level)
		plugins = append(plugins, p)
	}

	return NewLogger(zapcore.NewTee(plugins...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

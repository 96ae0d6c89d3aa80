// Package logging builds the per-script file logger.
//
// Every script writes to its own file, named after the script type:
// ProductExport logs to product-export.log in the configured log directory.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options describe one script logger.
type Options struct {
	// Name is attached to every entry as the logger name.
	Name string
	// Dir is created if missing.
	Dir string
	// File is the file name inside Dir.
	File string
	// Level is debug, info, warn or error.
	Level string
}

// Logger is a zap logger bound to the file it writes to.
type Logger struct {
	*zap.Logger
	path string
	file *os.File
}

// New opens (appending) the log file and returns a logger writing to it.
func New(opts Options) (*Logger, error) {
	if strings.TrimSpace(opts.File) == "" {
		return nil, errors.New("logging: empty file name")
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create dir: %w", err)
	}

	path := filepath.Join(opts.Dir, opts.File)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), level)

	z := zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
	if opts.Name != "" {
		z = z.Named(opts.Name)
	}
	return &Logger{Logger: z, path: path, file: f}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Path is the file the logger writes to, empty for Nop.
func (l *Logger) Path() string { return l.path }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = l.Sync()
	err := l.file.Close()
	l.file = nil
	return err
}

// FileName returns the log file name for a script type name.
func FileName(typeName string) string {
	return Kebab(typeName) + ".log"
}

// Kebab lowercases a PascalCase name and puts a hyphen before every word.
// A run of capitals is one word, except for the last capital when it starts
// a lowercase word: HTMLExport becomes html-export.
func Kebab(name string) string {
	if i := strings.LastIndexAny(name, `.\`); i >= 0 {
		name = name[i+1:]
	}
	rs := []rune(name)

	var b strings.Builder
	for i := 0; i < len(rs); i++ {
		if !unicode.IsUpper(rs[i]) {
			b.WriteRune(unicode.ToLower(rs[i]))
			continue
		}
		b.WriteByte('-')
		b.WriteRune(unicode.ToLower(rs[i]))
		for i+1 < len(rs) && unicode.IsUpper(rs[i+1]) && !(i+2 < len(rs) && unicode.IsLower(rs[i+2])) {
			i++
			b.WriteRune(unicode.ToLower(rs[i]))
		}
	}
	return strings.TrimLeft(b.String(), "-")
}

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options описывает параметры логгера
type Options struct {
	Level      string
	Format     string // json | console
	File       string // пусто - только stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	App        string
	Env        string
}

// Logger printf-style обёртка над zerolog
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
	exit   func(code int)
}

// New создает логгер с записью в stdout и, если указан file, в ротируемый файл
func New(file, level string) (*Logger, error) {
	return NewWithOptions(Options{File: file, Level: level})
}

// NewWithOptions создает логгер по расширенным настройкам
func NewWithOptions(opts Options) (*Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", opts.Level, err)
		}
		lvl = parsed
	}

	var console io.Writer = os.Stdout
	if strings.EqualFold(opts.Format, "console") {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	var closer io.Closer
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    withDefault(opts.MaxSizeMB, 100),
			MaxBackups: withDefault(opts.MaxBackups, 5),
			MaxAge:     withDefault(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp()
	if opts.App != "" {
		ctx = ctx.Str("app", opts.App)
	}
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}

	return &Logger{zl: ctx.Logger(), closer: closer, exit: os.Exit}, nil
}

// NewWriter пишет JSON в w, используется в тестах
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level), exit: os.Exit}
}

// NewNop логгер, который ничего не пишет
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop(), exit: os.Exit}
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal пишет сообщение, закрывает файл и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	_ = l.Close()
	l.exit(1)
}

// With возвращает дочерний логгер с дополнительным полем
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger(), closer: l.closer, exit: l.exit}
}

// Zerolog отдает исходный логгер для компонентов, пишущих структурированные события
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Close закрывает файловый sink
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// printfWriter feeds gorm's printf-style output into slog at a fixed level.
type printfWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w printfWriter) Printf(format string, args ...any) {
	w.l.Log(context.Background(), w.level, fmt.Sprintf(format, args...))
}

// NewGormLogger routes gorm's logging through l. Development traces every
// statement at debug level; production reports only slow queries and errors.
// Statements are logged with placeholders, never with their bound values.
func NewGormLogger(l *slog.Logger, production bool) gormlogger.Interface {
	level, slogLevel := gormlogger.Info, slog.LevelDebug
	if production {
		level, slogLevel = gormlogger.Warn, slog.LevelWarn
	}

	return gormlogger.New(printfWriter{l: l.With("component", "gorm"), level: slogLevel}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

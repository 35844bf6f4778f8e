package logging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/veo1/supplier-registry/config"
)

// GormLogger routes statements run by the SQL-backed record store to zap.
type GormLogger struct {
	logger    *zap.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

// NewGormLogger builds the store query logger from the log section of the config.
func NewGormLogger(logger *zap.Logger, cfg config.LogConfig) *GormLogger {
	return &GormLogger{
		logger:    logger.Named("gorm"),
		level:     MapGormLogLevel(cfg.GormLevel),
		slowQuery: cfg.SlowQuery,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level
	return &out
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(enabledAt gormlogger.LogLevel, level zapcore.Level, msg string, data []any) {
	if l.level < enabledAt {
		return
	}
	l.logger.Sugar().Logf(level, msg, data...)
}

// Trace logs one store statement. Failures go out at error and slow statements at warn.
// Everything else is debug and only when the gorm level is info.
// A missing row is how a lookup of an unknown key ends, so it is not a failure.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slowQuery > 0 && elapsed > l.slowQuery

	var level zapcore.Level
	var msg string
	switch {
	case failed && l.level >= gormlogger.Error:
		level, msg = zapcore.ErrorLevel, "store query failed"
	case slow && l.level >= gormlogger.Warn:
		level, msg = zapcore.WarnLevel, "slow store query"
	case !failed && l.level >= gormlogger.Info:
		level, msg = zapcore.DebugLevel, "store query"
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	if slow {
		fields = append(fields, zap.Duration("threshold", l.slowQuery))
	}
	if ce := l.logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// MapGormLogLevel maps the log.gorm_level setting; unknown names mean warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

package util

import (
	"log/slog"
	"sync/atomic"
	"time"
)

var slogMeasureID = &atomic.Int64{}

// LoggerOrDefault returns the given logger or the process default logger when none was supplied.
func LoggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}

	return logger
}

// SLogMeasureFunction logs entry into a function and returns a closure that logs its exit along with the elapsed
// time. Arguments given to the closure are appended to the exit record.
func SLogMeasureFunction(logger *slog.Logger, functionName string, args ...any) func(args ...any) {
	var (
		then          = time.Now()
		measurementID = slogMeasureID.Add(1)
		allArgs       = append(args, slog.String("fn", functionName), slog.Int64("measurement_id", measurementID))
		log           = LoggerOrDefault(logger)
	)

	log.Debug("SLogMeasureFunction", append(allArgs, slog.String("state", "enter"))...)

	return func(args ...any) {
		exitArgs := append(allArgs, slog.Duration("elapsed", time.Since(then)), slog.String("state", "exit"))
		exitArgs = append(exitArgs, args...)

		log.Info("SLogMeasureFunction", exitArgs...)
	}
}

func SLogError(logger *slog.Logger, msg string, err error, args ...any) {
	allArgs := append([]any{slog.String("err", err.Error())}, args...)
	LoggerOrDefault(logger).Error(msg, allArgs...)
}

func SLogWarn(logger *slog.Logger, msg string, err error, args ...any) {
	allArgs := append([]any{slog.String("err", err.Error())}, args...)
	LoggerOrDefault(logger).Warn(msg, allArgs...)
}

// Package logger bootstraps the process-wide zap logger. Components receive
// the logger through their constructors; this package only owns construction.
package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log      *zap.Logger
	onceInit sync.Once
)

// Init builds the logger once and returns it. Subsequent calls return the
// same instance regardless of the level passed.
func Init(level zapcore.Level, meta ...zap.Field) (*zap.Logger, error) {
	onceInit.Do(func() {
		instance := zap.Must(configure(level).Build())
		log = instance.With(meta...)
	})

	if log == nil {
		return nil, errors.New("logger not initialized")
	}
	return log, nil
}

func configure(level zapcore.Level) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.EncodeCaller = zapcore.ShortCallerEncoder

	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/subwise/subtrack/pkg/config"
)

// New builds the process-wide logger. Dev gets the human-readable console
// encoder; everything else logs structured JSON.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	var zc zap.Config
	if cfg.Env == config.EnvDev {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.TimeKey = "time"
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)

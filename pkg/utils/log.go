package utils

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Bootstrap reconfigures it from conf.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		ForceColors:               true,
		EnvironmentOverrideColors: true,
		TimestampFormat:           "2006-01-02 15:04:05",
		FullTimestamp:             true,
	})
}

type LogConfig struct {
	Enable     bool   `json:"enable" env:"ENABLE"`
	Path       string `json:"path" env:"PATH"`
	MaxSize    int    `json:"max_size" env:"MAX_SIZE"`
	MaxBackups int    `json:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int    `json:"max_age" env:"MAX_AGE"`
	Compress   bool   `json:"compress" env:"COMPRESS"`
}

// SetupLog points Log at stderr plus a rotated file when enabled.
func SetupLog(debug bool, cfg LogConfig) {
	if debug {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetReportCaller(true)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
	if cfg.Enable && cfg.Path != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		Log.SetOutput(io.MultiWriter(os.Stderr, writer))
	}
	logrus.SetOutput(Log.Out)
	logrus.SetLevel(Log.Level)
	logrus.SetFormatter(Log.Formatter)
}

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared application logger. Init must be called once from
// main before anything logs; the zero value still writes to stderr so
// tests need no setup.
var Log = logrus.New()

func Init(appEnv string) {
	if appEnv == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		Log.SetLevel(logrus.DebugLevel)
	}

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		Log.SetOutput(os.Stdout)
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}

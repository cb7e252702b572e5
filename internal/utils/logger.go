package utils

import (
	"io" // Writer composition
	"os" // Standard output

	"github.com/sirupsen/logrus"       // Logrus for structured logging
	"gopkg.in/natefinch/lumberjack.v2" // Rotating file writer
)

// SetupLogger configures the global logrus logger. JSON output in production,
// full-timestamp text otherwise; a rotating file sink is added when file is set.
func SetupLogger(level, file string, isProd bool) {
	if isProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	var out io.Writer = os.Stdout
	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file, // Log file path
			MaxSize:    100,  // Megabytes before rotation
			MaxBackups: 10,   // Rotated files kept
			MaxAge:     30,   // Days to keep rotated files
			Compress:   true, // Gzip rotated files
		})
	}
	logrus.SetOutput(out)
}

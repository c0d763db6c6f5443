package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

func SetupLogging(level string) *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.Level = parsed
	} else if level != "" {
		logger.WithField("level", level).Warn("Logging.SetupLogging.unknown level, using info")
	}

	return &logger
}

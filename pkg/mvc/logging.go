package mvc

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the runtime logger at the given level ("debug", "info",
// "warn", ...). An empty level means info
func NewLogger(level string) (*logrus.Logger, error) {
	return newLogger(os.Stderr, level)
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, &ConfigError{Key: "logLevel", Reason: "unknown log level", Cause: err}
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// internal/logging/logging.go - Process-wide logger setup
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/shiena/ansicolor"
	"github.com/sirupsen/logrus"

	"tileblend/internal/config"
)

var log = logrus.New()

// L returns the shared logger. Before Setup is called it behaves as a
// plain logrus logger at the default level.
func L() *logrus.Logger {
	return log
}

// Setup configures the shared logger from the logging configuration:
// nested formatter, optional daily log file, optional colored terminal
// output.
func Setup(cfg *config.LoggingConfig) error {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        false,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	writers := make([]io.Writer, 0, 2)
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return err
		}
		name := filepath.Join(cfg.Dir, time.Now().Format("2006-01-02")+".log")
		file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	if cfg.Terminal || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	log.SetOutput(ansicolor.NewAnsiColorWriter(io.MultiWriter(writers...)))

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return nil
}

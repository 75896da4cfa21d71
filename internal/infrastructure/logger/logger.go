package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. The watch display owns
// stdout, so logs go to stderr. Level comes from ARBSCAN_LOG_LEVEL
// (debug|info|warn|error), defaulting to info.
func Setup() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	level := zerolog.InfoLevel
	switch strings.ToLower(os.Getenv("ARBSCAN_LOG_LEVEL")) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
}

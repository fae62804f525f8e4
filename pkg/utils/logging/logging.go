package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging sets the global level, unknown levels fall back to info. Console output is for
// running a binary by hand, services keep JSON lines.
func SetupLogging(level string, console bool) {
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp})
	}

	zerologLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zerologLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zerologLevel)

	if err != nil {
		log.Warn().Err(err).Str("level", level).Msg("Failed to parse log level, defaulting to info")
	}
}

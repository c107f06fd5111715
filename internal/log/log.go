package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. It writes to stderr so reports on stdout
// stay clean.
var Log zerolog.Logger

// SetLevel accepts debug, info, warn or error; anything else means info.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetOutput redirects the logger, keeping its timestamp context.
func SetOutput(w io.Writer) {
	Log = zerolog.New(w).With().Timestamp().Logger()
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	SetOutput(os.Stderr)
}

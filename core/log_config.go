package core

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// init initializes the logging configuration based on the HNAV_LOG environment variable.
func init() {
	SetLogLevel(os.Getenv("HNAV_LOG"))
}

// SetLogLevel sets the global zerolog level from a human-readable mode.
// "off" or "0" disables logging, "full" enables debug output and anything
// else (including the empty string) selects info.
func SetLogLevel(mode string) {
	mode = strings.TrimSpace(strings.ToLower(mode))

	switch mode {
	case "off", "0":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "full":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

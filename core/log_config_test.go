package core

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingDisabled(t *testing.T) {
	defer SetLogLevel("")
	for _, mode := range []string{"off", "0", " OFF "} {
		SetLogLevel(mode)
		if zerolog.GlobalLevel() != zerolog.Disabled {
			t.Errorf("mode %q: expected logging level to be Disabled, got %v", mode, zerolog.GlobalLevel())
		}
	}
}

func TestLoggingDebug(t *testing.T) {
	defer SetLogLevel("")
	SetLogLevel("full")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected logging level to be Debug, got %v", zerolog.GlobalLevel())
	}
}

func TestLoggingInfo(t *testing.T) {
	SetLogLevel("info")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected logging level to be Info, got %v", zerolog.GlobalLevel())
	}
}

func TestLoggingDefault(t *testing.T) {
	SetLogLevel("")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected logging level to be Info by default, got %v", zerolog.GlobalLevel())
	}
}

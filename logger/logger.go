// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Default is the process-wide logger instance.
var Default zerolog.Logger

func init() {
	Init()
}

// Init (re)builds the default logger. The level comes from LOG_LEVEL and
// falls back to info.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	Default = zerolog.New(output).With().Timestamp().Logger().Level(level())
}

func level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ForWalker returns a logger tagged for the page walker.
func ForWalker() *zerolog.Logger {
	l := Default.With().Str("component", "walker").Logger()
	return &l
}

// ForWriter returns a logger tagged for the output writer.
func ForWriter() *zerolog.Logger {
	l := Default.With().Str("component", "writer").Logger()
	return &l
}

// ForScraper returns a logger tagged for the scrape orchestration.
func ForScraper() *zerolog.Logger {
	l := Default.With().Str("component", "scraper").Logger()
	return &l
}

// Package logging builds the zerolog loggers used across the racer.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ParseLevel maps a config string to a level; unknown values mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New writes human-readable lines to console and, when file is non-nil,
// uncoloured copies to file. Each sink receives the raw JSON events.
func New(console io.Writer, file io.Writer, level string, sinks ...io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
	}}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	writers = append(writers, sinks...)
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()
}

// Graylog opens a GELF writer to a Graylog UDP input at addr.
func Graylog(addr string) (io.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "graylog %s", addr)
	}
	return w, nil
}

// Component tags every line with the subsystem that wrote it.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Sampled is for events that can fire every frame: at most 5 lines per
// second, then 1 in 50.
func Sampled(l zerolog.Logger) zerolog.Logger {
	return l.With().Bool("sampled", true).Logger().Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      time.Second,
		NextSampler: &zerolog.BasicSampler{N: 50},
	})
}

// Package logging builds the zerolog logger used across perfdata.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/perfdata/internal/output"
)

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// Output formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to out at level. FormatAuto picks the
// console writer when out is a terminal and JSON otherwise.
func New(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	w, err := writerFor(out, format)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimeFieldFormat = RFC3339Milli
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func writerFor(out io.Writer, format string) (io.Writer, error) {
	switch format {
	case FormatJSON:
		return out, nil
	case FormatConsole:
		return consoleWriter(out, !output.IsTerminal(out)), nil
	case FormatAuto, "":
		if output.IsTerminal(out) {
			return consoleWriter(out, false), nil
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
}

func consoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-5s", i))
		},
	}
}

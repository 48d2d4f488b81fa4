package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogging(level, format string) error {
	switch level {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", level)
	}

	switch format {
	case "pretty":
		setupPrettyLogging()
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = formatFieldValue
	log.Logger = log.Output(writer)
}

// formatFieldValue renders fractional numbers with three decimals
func formatFieldValue(i interface{}) string {
	switch v := i.(type) {
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return v.String()
		}
		val, _ := v.Float64()
		return fmt.Sprintf("%.3f", val)
	default:
		return fmt.Sprintf("%s", i)
	}
}

// fail logs the error and exits with the given code
func fail(code int, err error) {
	log.Error().Err(err).Int("exitCode", code).Msg("Failed")
	os.Exit(code)
}

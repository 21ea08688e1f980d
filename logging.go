package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

func configureLogging(level, format string) error {
	parsedLevel, levelErr := log.ParseLevel(level)
	if levelErr != nil {
		return fmt.Errorf("Invalid log level %q: %w", level, levelErr)
	}
	log.SetLevel(parsedLevel)

	switch format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("Unknown log format: %s", format)
	}

	return nil
}

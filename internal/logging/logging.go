// Package logging centralizes logrus setup so every binary logs the same
// shape of structured fields.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Config controls the process-wide logger.
type Config struct {
	Level  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Logging level: debug, info, warn, error"`
	Format string `long:"log.format" env:"LOG_FORMAT" default:"text" description:"Logging format: text, json"`
}

// Init installs Config onto the standard logrus logger. Call once at
// process start, before the first log line.
func Init(cfg Config) error {
	lvl, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Service returns a logger pre-tagged with the owning service name.
func Service(name string) *log.Entry {
	return log.WithField("service", name)
}

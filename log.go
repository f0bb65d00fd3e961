package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog routes logging to a file when XHINOBI_LOGFILE is set, raising
// the level to debug; otherwise warnings and errors go to stderr. Returns
// a closer for the log sink.
func setupLog() (func() error, error) {
	if logFile := os.Getenv("XHINOBI_LOGFILE"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error setting up logging: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}

	log.SetLevel(log.WarnLevel)
	return func() error { return nil }, nil
}

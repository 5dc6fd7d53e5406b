package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/pizzarank/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends log output to stdout and to logFile. An empty logFile
// gets a timestamped name. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		logFile = "simulate_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ShowHelp prints usage information for the simulate tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Pizzarank Rating Simulator
==========================

Issues identity codes, submits random ratings concurrently and checks the
served leaderboard against a local aggregation of the submissions.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -identities int
        Number of identity codes to issue (default 20)
  -ratings int
        Spots rated per identity, capped at the catalog size (default 3)
  -resubmits int
        Extra submissions overwriting earlier ratings (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Random seed, 0 for a clock-based seed (default 0)
  -output string
        Output file for the submissions (default: none)
  -log string
        Log file for simulator output (default: simulate_TIMESTAMP.log)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Run against a fresh local server
  go run cmd/simulate/main.go

  # Heavier run with a fixed seed
  go run cmd/simulate/main.go -identities 50 -ratings 5 -workers 16 -seed 42
`)
}

package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/pizzarank/internal/simulate"
)

// Default configuration constants.
const (
	defaultIdentities  = 20
	defaultRatings     = 3
	defaultResubmits   = 10
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		identities = flag.Int("identities", defaultIdentities, "Number of identity codes to issue")
		ratings    = flag.Int("ratings", defaultRatings, "Spots rated per identity")
		resubmits  = flag.Int("resubmits", defaultResubmits, "Extra submissions overwriting earlier ratings")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Int64("seed", 0, "Random seed, 0 for a clock-based seed")
		outputFile = flag.String("output", "", "Output file for the submissions")
		logFile    = flag.String("log", "", "Log file for simulator output (default: simulate_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	closeLog, err := simulate.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunDeadline)

	cfg := &simulate.Config{
		BaseURL:        *baseURL,
		Identities:     *identities,
		RatingsPerUser: *ratings,
		Resubmits:      *resubmits,
		Workers:        *workers,
		Timeout:        *timeout,
		Seed:           *seed,
		OutputFile:     *outputFile,
	}

	_, err = simulate.Run(ctx, cfg)
	cancel()
	_ = closeLog()
	if err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

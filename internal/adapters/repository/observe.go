package repository

import (
	"time"

	"github.com/okian/pizzarank/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// observe records latency for one store operation and counts failures.
func observe(driver, op string, start time.Time, err error) {
	ms := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	metrics.RecordStoreLatency(driver, op, ms)
	if err != nil {
		metrics.RecordStoreError(driver, op)
		metrics.RecordErrorByComponent("repository", op)
	}
}

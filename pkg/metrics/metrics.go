package metrics

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Collector records the duration of named operations. Call sites receive a
// Collector explicitly instead of reaching for a process-wide singleton.
type Collector interface {
	// Observe records that op took d.
	Observe(op string, d time.Duration)

	// Timer starts a timer for op; the returned func observes the elapsed
	// time when invoked, so it composes with defer.
	Timer(op string) func()
}

// LogCollector logs operations that exceed a slowness threshold.
type LogCollector struct {
	log       *logrus.Logger
	threshold time.Duration
}

func NewLogCollector(log *logrus.Logger, threshold time.Duration) *LogCollector {
	return &LogCollector{log: log, threshold: threshold}
}

func (c *LogCollector) Observe(op string, d time.Duration) {
	if d < c.threshold {
		return
	}
	c.log.WithFields(logrus.Fields{
		"operation":   op,
		"duration_ms": d.Milliseconds(),
	}).Warn("slow operation")
}

func (c *LogCollector) Timer(op string) func() {
	start := time.Now()
	return func() {
		c.Observe(op, time.Since(start))
	}
}

// NopCollector discards all observations. Useful in tests.
type NopCollector struct{}

func (NopCollector) Observe(string, time.Duration) {}
func (NopCollector) Timer(string) func()           { return func() {} }

package game

import (
	"fmt"
	"io"
	"time"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs a summary of the last perf window.
func (o *Orchestrator) logPerfStats() {
	stats := o.perf.Stats()
	Logf("=== Perf @ batch %d | %.1f batches/sec ===", o.batchIndex, stats.BatchesPerSecond)
	Logf("Avg batch time: %s", stats.AvgBatchDuration.Round(time.Microsecond))

	phases := []string{
		"quenching", "drifting", "association", "intervals",
		"induction", "summation", "digitization", "output",
	}
	for _, name := range phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]
		Logf("  %-14s %10s  %5.1f%%", name, avg.Round(time.Microsecond), pct)
	}
	Logf("")
}

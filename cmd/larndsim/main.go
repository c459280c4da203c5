// Command larndsim drives the charge-transport and pixel-readout pipeline
// end to end: reads a segment CSV, loads the three descriptor documents,
// runs quenching through front-end digitization event by event, and writes
// the ADC/MC-truth CSV streams (§6's CLI surface).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
	"github.com/lartpc/larnd-sim-go/game"
	"github.com/lartpc/larnd-sim-go/simerr"
	"github.com/lartpc/larnd-sim-go/telemetry"
)

var (
	inputPath       = flag.String("input", "", "segment input CSV (required)")
	geometryPath    = flag.String("geometry", "", "geometry descriptor YAML (optional, falls back to embedded defaults)")
	physicsPath     = flag.String("physics", "", "physics descriptor YAML (optional, falls back to embedded defaults)")
	electronicsPath = flag.String("electronics", "", "electronics descriptor YAML (optional, falls back to embedded defaults)")
	outputDir       = flag.String("output", "", "output directory for adc.csv/mctruth.csv/perf.csv (required)")
	badChannelsPath = flag.String("bad-channels", "", "optional bad-channel pixel-id list CSV")
	segmentLimit    = flag.Int("segment-limit", 0, "optional cap on the number of segments read (0 = unlimited)")
	thresholdPath   = flag.String("threshold-lookup", "", "optional per-pixel discrimination threshold override CSV")
	seed            = flag.Int64("seed", 1, "global RNG seed; combined with event id and batch index per worker (§5, §9)")
	swapXZ          = flag.Bool("swap-xz", false, "swap the x and z segment columns at ingest (§9 compatibility shim, off by default)")
	perfLog         = flag.Bool("perf", false, "log per-batch performance summaries")
	logFile         = flag.String("logfile", "", "write progress log to a file instead of stdout")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run implements the CLI surface of §6: exit 0 on success, 1 on
// InvalidConfig/IOError, 2 on NumericFault.
func run() int {
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
			return 1
		}
		defer f.Close()
		game.SetLogWriter(f)
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "larndsim: -input is required")
		return 1
	}
	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "larndsim: -output is required")
		return 1
	}

	cfg, err := config.Load(*geometryPath, *physicsPath, *electronicsPath)
	if err != nil {
		return exitFor(err)
	}

	seg, err := telemetry.ReadSegments(*inputPath, *segmentLimit)
	if err != nil {
		return exitFor(err)
	}
	if *swapXZ {
		telemetry.SwapXZ(seg)
	}

	badChannels, err := telemetry.ReadBadChannels(*badChannelsPath)
	if err != nil {
		return exitFor(err)
	}
	thresholds, err := telemetry.ReadThresholds(*thresholdPath)
	if err != nil {
		return exitFor(err)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		return exitFor(simerr.WrapIO("opening output", err))
	}
	if out != nil {
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			return exitFor(err)
		}
	}

	events := components.SplitEvents(seg)
	orch := game.NewOrchestrator(cfg, out, *seed, *perfLog, badChannels, thresholds)

	ch, err := orch.RunEvents(context.Background(), seg, events)
	if err != nil {
		return exitFor(err)
	}

	total := 0
	for batch := range ch {
		total += len(batch.Samples)
	}
	if err := orch.Err(); err != nil {
		return exitFor(err)
	}

	game.Logf("larndsim: %d events, %d ADC samples", len(events), total)
	return 0
}

// exitFor maps the error taxonomy of §7 to the CLI's exit codes: InvalidConfig
// and IOError are configuration/input problems (1), NumericFault is a fatal
// batch abort (2).
func exitFor(err error) int {
	fmt.Fprintf(os.Stderr, "larndsim: %v\n", err)
	switch err.(type) {
	case *simerr.NumericFault:
		return 2
	default:
		return 1
	}
}

package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/lartpc/larnd-sim-go/config"
)

// ADCRecord is one front-end sample row of adc.csv.
type ADCRecord struct {
	EventID int64 `csv:"event_id"`
	PixelID int64 `csv:"pixel_id"`
	// TimestampTicks is the intra-event trigger tick wrapped mod
	// ROLLOVER_CYCLES (§6: "timestamp_ticks ∈ [0, ROLLOVER_CYCLES)").
	TimestampTicks int `csv:"timestamp_ticks"`
	ADCValue       int `csv:"adc_value"`
	// TimestampUS is the absolute sample time in microseconds:
	// event_start_time + intra_event_tick*CLOCK_CYCLE (§6).
	TimestampUS float64 `csv:"timestamp_us"`
}

// MCTruthRecord is one contributing-track fraction row of mctruth.csv, the
// per-ADC-sample breakdown of which segments contributed how much of the
// sample's integrated current (§3, §4.G/H).
type MCTruthRecord struct {
	EventID      int64   `csv:"event_id"`
	PixelID      int64   `csv:"pixel_id"`
	Tick         int     `csv:"tick"`
	SegmentIndex int32   `csv:"segment_index"`
	Fraction     float64 `csv:"fraction"`
}

// OutputManager handles structured experiment output with CSV logging,
// following the teacher's open-once/append-with-header-once pattern in
// telemetry/output.go.
type OutputManager struct {
	dir        string
	adcFile    *os.File
	mcTruthFile *os.File
	perfFile   *os.File

	adcHeaderWritten     bool
	mcTruthHeaderWritten bool
	perfHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	adcPath := filepath.Join(dir, "adc.csv")
	f, err := os.Create(adcPath)
	if err != nil {
		return nil, fmt.Errorf("creating adc.csv: %w", err)
	}
	om.adcFile = f

	mcTruthPath := filepath.Join(dir, "mctruth.csv")
	f, err = os.Create(mcTruthPath)
	if err != nil {
		om.adcFile.Close()
		return nil, fmt.Errorf("creating mctruth.csv: %w", err)
	}
	om.mcTruthFile = f

	perfPath := filepath.Join(dir, "perf.csv")
	f, err = os.Create(perfPath)
	if err != nil {
		om.adcFile.Close()
		om.mcTruthFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as the three YAML documents
// that make it up, side by side in the output directory.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(om.dir)
}

// WriteADCBatch writes one event-batch's worth of ADC samples to adc.csv,
// and their per-track fraction breakdown to mctruth.csv.
func (om *OutputManager) WriteADCBatch(samples []ADCBatch) error {
	if om == nil {
		return nil
	}

	var adcRecords []ADCRecord
	var mcRecords []MCTruthRecord
	for _, batch := range samples {
		for _, s := range batch.Samples {
			adcRecords = append(adcRecords, ADCRecord{
				EventID:        s.EventID,
				PixelID:        s.PixelID,
				TimestampTicks: s.Tick,
				ADCValue:       s.ADCValue,
				TimestampUS:    s.Timestamp,
			})
			for i, seg := range s.TrackSegments {
				mcRecords = append(mcRecords, MCTruthRecord{
					EventID:      s.EventID,
					PixelID:      s.PixelID,
					Tick:         s.Tick,
					SegmentIndex: seg,
					Fraction:     s.TrackFractions[i],
				})
			}
		}
	}

	if len(adcRecords) > 0 {
		if err := om.writeCSV(om.adcFile, adcRecords, &om.adcHeaderWritten); err != nil {
			return fmt.Errorf("writing adc.csv: %w", err)
		}
	}
	if len(mcRecords) > 0 {
		if err := om.writeCSV(om.mcTruthFile, mcRecords, &om.mcTruthHeaderWritten); err != nil {
			return fmt.Errorf("writing mctruth.csv: %w", err)
		}
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, batchIndex int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(batchIndex)}
	return om.writeCSV(om.perfFile, records, &om.perfHeaderWritten)
}

func (om *OutputManager) writeCSV(f *os.File, records interface{}, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.adcFile, om.mcTruthFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

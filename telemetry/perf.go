package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a single batch's pipeline stages.
const (
	PhaseQuenching    = "quenching"
	PhaseDrifting     = "drifting"
	PhaseAssociation  = "association"
	PhaseIntervals    = "intervals"
	PhaseInduction    = "induction"
	PhaseSummation    = "summation"
	PhaseDigitization = "digitization"
	PhaseOutput       = "output"
)

// PerfSample holds timing data for a single batch.
type PerfSample struct {
	BatchDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of batches.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	batchStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of batches to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartBatch begins timing a new batch.
func (p *PerfCollector) StartBatch() {
	p.batchStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific pipeline stage.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndBatch finishes timing the current batch and records the sample.
func (p *PerfCollector) EndBatch() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		BatchDuration: now.Sub(p.batchStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgBatchDuration time.Duration
	MinBatchDuration time.Duration
	MaxBatchDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	BatchesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalBatch time.Duration
	var minBatch, maxBatch time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalBatch += s.BatchDuration

		if i == 0 || s.BatchDuration < minBatch {
			minBatch = s.BatchDuration
		}
		if s.BatchDuration > maxBatch {
			maxBatch = s.BatchDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgBatch := totalBatch / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgBatch > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgBatch) * 100
		}
	}

	var batchesPerSec float64
	if avgBatch > 0 {
		batchesPerSec = float64(time.Second) / float64(avgBatch)
	}

	return PerfStats{
		AvgBatchDuration: avgBatch,
		MinBatchDuration: minBatch,
		MaxBatchDuration: maxBatch,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		BatchesPerSecond: batchesPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_batch_us", s.AvgBatchDuration.Microseconds(),
		"min_batch_us", s.MinBatchDuration.Microseconds(),
		"max_batch_us", s.MaxBatchDuration.Microseconds(),
		"batches_per_sec", s.BatchesPerSecond,
	}

	phases := []string{
		PhaseQuenching, PhaseDrifting, PhaseAssociation, PhaseIntervals,
		PhaseInduction, PhaseSummation, PhaseDigitization, PhaseOutput,
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_batch_us", s.AvgBatchDuration.Microseconds()),
		slog.Int64("min_batch_us", s.MinBatchDuration.Microseconds()),
		slog.Int64("max_batch_us", s.MaxBatchDuration.Microseconds()),
		slog.Float64("batches_per_sec", s.BatchesPerSecond),
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	BatchIndex      int64   `csv:"batch_index"`
	AvgBatchUS      int64   `csv:"avg_batch_us"`
	MinBatchUS      int64   `csv:"min_batch_us"`
	MaxBatchUS      int64   `csv:"max_batch_us"`
	BatchesPerSec   float64 `csv:"batches_per_sec"`
	QuenchingPct    float64 `csv:"quenching_pct"`
	DriftingPct     float64 `csv:"drifting_pct"`
	AssociationPct  float64 `csv:"association_pct"`
	IntervalsPct    float64 `csv:"intervals_pct"`
	InductionPct    float64 `csv:"induction_pct"`
	SummationPct    float64 `csv:"summation_pct"`
	DigitizationPct float64 `csv:"digitization_pct"`
	OutputPct       float64 `csv:"output_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(batchIndex int64) PerfStatsCSV {
	return PerfStatsCSV{
		BatchIndex:      batchIndex,
		AvgBatchUS:      s.AvgBatchDuration.Microseconds(),
		MinBatchUS:      s.MinBatchDuration.Microseconds(),
		MaxBatchUS:      s.MaxBatchDuration.Microseconds(),
		BatchesPerSec:   s.BatchesPerSecond,
		QuenchingPct:    s.PhasePct[PhaseQuenching],
		DriftingPct:     s.PhasePct[PhaseDrifting],
		AssociationPct:  s.PhasePct[PhaseAssociation],
		IntervalsPct:    s.PhasePct[PhaseIntervals],
		InductionPct:    s.PhasePct[PhaseInduction],
		SummationPct:    s.PhasePct[PhaseSummation],
		DigitizationPct: s.PhasePct[PhaseDigitization],
		OutputPct:       s.PhasePct[PhaseOutput],
	}
}

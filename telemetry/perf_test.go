package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartBatch()
		pc.StartPhase(PhaseAssociation)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseInduction)
		time.Sleep(200 * time.Microsecond)
		pc.EndBatch()
	}

	stats := pc.Stats()

	if stats.AvgBatchDuration <= 0 {
		t.Error("expected positive average batch duration")
	}

	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseAssociation]; !ok {
		t.Error("expected association phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseInduction]; !ok {
		t.Error("expected induction phase to be tracked")
	}
}

func TestPerfCollector_WindowWraps(t *testing.T) {
	pc := NewPerfCollector(3)

	for i := 0; i < 10; i++ {
		pc.StartBatch()
		pc.StartPhase(PhaseSummation)
		pc.EndBatch()
	}

	stats := pc.Stats()
	if stats.AvgBatchDuration < 0 {
		t.Error("expected non-negative average after wraparound")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)
	stats := pc.Stats()

	if stats.AvgBatchDuration != 0 {
		t.Errorf("expected zero average with no samples, got %v", stats.AvgBatchDuration)
	}
	if len(stats.PhasePct) != 0 {
		t.Errorf("expected empty phase percentages with no samples")
	}
}

func TestPerfStatsCSV_RoundTrip(t *testing.T) {
	pc := NewPerfCollector(5)
	pc.StartBatch()
	pc.StartPhase(PhaseQuenching)
	time.Sleep(50 * time.Microsecond)
	pc.StartPhase(PhaseDrifting)
	time.Sleep(50 * time.Microsecond)
	pc.EndBatch()

	stats := pc.Stats()
	csvRow := stats.ToCSV(42)

	if csvRow.BatchIndex != 42 {
		t.Errorf("expected batch index 42, got %d", csvRow.BatchIndex)
	}
	if csvRow.QuenchingPct <= 0 {
		t.Errorf("expected positive quenching_pct, got %f", csvRow.QuenchingPct)
	}
}

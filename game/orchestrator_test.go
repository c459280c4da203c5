package game

import (
	"context"
	"testing"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

// s1Config loads the embedded default configuration (one plane, Birks
// recombination), the setting of §8 scenario S1 (single segment, central
// pixel).
func s1Config(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", "", "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestOrchestrator_RunEvents_EmitsSamplesInEventOrder(t *testing.T) {
	cfg := s1Config(t)

	seg := components.NewSegmentBatch(2)
	seg.EventID[0], seg.EventID[1] = 1, 2
	for i := range seg.EventID {
		seg.XStart[i], seg.YStart[i], seg.ZStart[i] = 0, 0, 10
		seg.XEnd[i], seg.YEnd[i], seg.ZEnd[i] = 0, 0, 11
		seg.X[i], seg.Y[i], seg.Z[i] = 0, 0, 10.5
		seg.TStart[i], seg.TEnd[i], seg.T[i] = 0, 1, 0.5
		seg.DE[i] = 1.0
		seg.DEdx[i] = 2.0
		seg.PixelPlane[i] = 0
	}

	orch := NewOrchestrator(cfg, nil, 1, false, nil, nil)
	events := components.SplitEvents(seg)

	ch, err := orch.RunEvents(context.Background(), seg, events)
	if err != nil {
		t.Fatalf("RunEvents: %v", err)
	}

	var seen []int64
	for batch := range ch {
		seen = append(seen, batch.EventID)
	}
	if err := orch.Err(); err != nil {
		t.Fatalf("orchestrator reported an error: %v", err)
	}

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("expected batches in event order [1 2], got %v", seen)
	}
}

func TestOrchestrator_RunEvents_NoConfigIsInvalidConfig(t *testing.T) {
	orch := &Orchestrator{}
	_, err := orch.RunEvents(context.Background(), components.NewSegmentBatch(0), nil)
	if err == nil {
		t.Fatal("expected an error when the orchestrator has no configuration")
	}
}

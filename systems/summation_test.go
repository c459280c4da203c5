package systems

import (
	"testing"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

func TestSummatePixels_ScatterAddConservesTotal(t *testing.T) {
	cfg := &config.Config{
		Physics:     config.PhysicsConfig{SamplingPeriod: 0.1, T0: 0, T1: 20},
		Electronics: config.ElectronicsConfig{TrackSlots: 3},
		Derived:     config.DerivedConfig{NumTicks: 200},
	}

	assoc := components.NewAssociationBuffers(1, 1, 0)
	assoc.SetActive(0, 0, components.PixelID(1, 1, 0, 50, 50))
	assoc.SetNeighbor(0, 0, components.PixelID(1, 1, 0, 50, 50))

	sig := components.NewSignalBuffers(assoc, 5)
	sig.Add(0, 0, 2, assoc.NeighborWidth, 7.5)

	trackStarts := []float64{1.0}

	sum := SummatePixels(cfg, segBatchOfLen(1), assoc, sig, trackStarts)

	if len(sum.UniquePixels) != 1 {
		t.Fatalf("expected 1 unique pixel, got %d", len(sum.UniquePixels))
	}
	total := TotalSignal(sum)
	if total != 7.5 {
		t.Errorf("expected the scattered signal to be conserved, got total=%v want 7.5", total)
	}
}

func TestSummatePixels_EmptyAssociation(t *testing.T) {
	cfg := &config.Config{
		Physics: config.PhysicsConfig{SamplingPeriod: 0.1},
		Derived: config.DerivedConfig{NumTicks: 10},
	}
	assoc := components.NewAssociationBuffers(0, 1, 0)
	sig := components.NewSignalBuffers(assoc, 0)
	sum := SummatePixels(cfg, segBatchOfLen(0), assoc, sig, nil)
	if len(sum.UniquePixels) != 0 {
		t.Errorf("expected no unique pixels for an empty batch, got %d", len(sum.UniquePixels))
	}
}

func segBatchOfLen(n int) *components.SegmentBatch {
	return components.NewSegmentBatch(n)
}

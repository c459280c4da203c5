package systems

import (
	"math"
	"testing"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

func testDriftConfig() *config.Config {
	return &config.Config{
		Geometry: config.GeometryConfig{
			Planes: []config.PlaneGeometry{
				{XBounds: [2]float64{-10, 10}, YBounds: [2]float64{-10, 10}, ZBounds: [2]float64{0, 30}, Pitch: 0.4, Nx: 50, Ny: 50, OriginX: -10, OriginY: -10, ZAnode: 0},
			},
		},
		Physics: config.PhysicsConfig{
			DriftVelocity: 0.153,
			Lifetime:      2200.0,
			LongDiff:      4.0e-6,
			TranDiff:      8.8e-6,
		},
	}
}

func oneSegmentAt(z float64) *components.SegmentBatch {
	seg := components.NewSegmentBatch(1)
	seg.Z[0], seg.ZStart[0], seg.ZEnd[0] = z, z, z
	seg.NElectrons[0] = 1000.0
	return seg
}

func TestDriftSegments_MonotoneAttenuationAndDiffusion(t *testing.T) {
	cfg := testDriftConfig()

	near := oneSegmentAt(5.0)
	far := oneSegmentAt(25.0)

	if err := DriftSegments(cfg, near); err != nil {
		t.Fatalf("DriftSegments(near): %v", err)
	}
	if err := DriftSegments(cfg, far); err != nil {
		t.Fatalf("DriftSegments(far): %v", err)
	}

	if !(far.NElectrons[0] < near.NElectrons[0]) {
		t.Errorf("NElectrons should strictly decrease with drift distance: near=%v far=%v", near.NElectrons[0], far.NElectrons[0])
	}
	if !(far.LongDiff[0] > near.LongDiff[0]) {
		t.Errorf("LongDiff should strictly increase with drift distance: near=%v far=%v", near.LongDiff[0], far.LongDiff[0])
	}
	if !(far.TranDiff[0] > near.TranDiff[0]) {
		t.Errorf("TranDiff should strictly increase with drift distance: near=%v far=%v", near.TranDiff[0], far.TranDiff[0])
	}
}

func TestDriftSegments_AdvancesToAnode(t *testing.T) {
	cfg := testDriftConfig()
	seg := oneSegmentAt(12.0)
	if err := DriftSegments(cfg, seg); err != nil {
		t.Fatalf("DriftSegments: %v", err)
	}
	if seg.Z[0] != 0 || seg.ZStart[0] != 0 || seg.ZEnd[0] != 0 {
		t.Errorf("expected every z field to land on the anode (0), got Z=%v ZStart=%v ZEnd=%v", seg.Z[0], seg.ZStart[0], seg.ZEnd[0])
	}
	if seg.T[0] <= 0 {
		t.Errorf("expected T to advance past 0 after drifting, got %v", seg.T[0])
	}
}

func TestDriftSegments_UnknownPlaneFaults(t *testing.T) {
	cfg := testDriftConfig()
	seg := oneSegmentAt(5.0)
	seg.PixelPlane[0] = 7
	if err := DriftSegments(cfg, seg); err == nil {
		t.Fatal("expected an error for an out-of-range pixel_plane")
	}
}

func TestDriftSegments_NoAttenuationWhenLifetimeZero(t *testing.T) {
	cfg := testDriftConfig()
	cfg.Physics.Lifetime = 0
	seg := oneSegmentAt(15.0)
	n0 := seg.NElectrons[0]
	if err := DriftSegments(cfg, seg); err != nil {
		t.Fatalf("DriftSegments: %v", err)
	}
	if seg.NElectrons[0] != n0 {
		t.Errorf("expected no attenuation when lifetime <= 0, got NElectrons=%v want %v", seg.NElectrons[0], n0)
	}
}

func TestDriftSegments_NaNFree(t *testing.T) {
	cfg := testDriftConfig()
	seg := oneSegmentAt(18.0)
	if err := DriftSegments(cfg, seg); err != nil {
		t.Fatalf("DriftSegments: %v", err)
	}
	if math.IsNaN(seg.T[0]) || math.IsNaN(seg.LongDiff[0]) || math.IsNaN(seg.TranDiff[0]) {
		t.Fatal("DriftSegments produced a NaN field")
	}
}

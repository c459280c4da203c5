package systems

import (
	"testing"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

func testAssocConfig() *config.Config {
	return &config.Config{
		Geometry: config.GeometryConfig{
			Planes: []config.PlaneGeometry{
				{XBounds: [2]float64{-10, 10}, YBounds: [2]float64{-10, 10}, ZBounds: [2]float64{0, 30}, Pitch: 0.4, Nx: 50, Ny: 50, OriginX: -10, OriginY: -10, ZAnode: 0},
			},
		},
	}
}

func TestAssociatePixels_SingleSegmentHasActivePixel(t *testing.T) {
	cfg := testAssocConfig()
	seg := components.NewSegmentBatch(1)
	seg.XStart[0], seg.YStart[0] = 0.0, 0.0
	seg.XEnd[0], seg.YEnd[0] = 0.8, 0.0
	seg.TranDiff[0] = 0.01

	buf, err := AssociatePixels(cfg, seg)
	if err != nil {
		t.Fatalf("AssociatePixels: %v", err)
	}
	found := false
	for k := 0; k < buf.Pmax; k++ {
		if buf.Active(0, k) != components.SentinelPixel {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one active pixel for a segment inside the plane bounds")
	}
}

func TestAssociatePixels_NeighborRadiusGrowsWithDiffusion(t *testing.T) {
	cfg := testAssocConfig()

	tight := components.NewSegmentBatch(1)
	tight.XStart[0], tight.YStart[0] = 0, 0
	tight.XEnd[0], tight.YEnd[0] = 0.1, 0
	tight.TranDiff[0] = 0.001

	wide := components.NewSegmentBatch(1)
	wide.XStart[0], wide.YStart[0] = 0, 0
	wide.XEnd[0], wide.YEnd[0] = 0.1, 0
	wide.TranDiff[0] = 0.5

	bufTight, err := AssociatePixels(cfg, tight)
	if err != nil {
		t.Fatalf("AssociatePixels(tight): %v", err)
	}
	bufWide, err := AssociatePixels(cfg, wide)
	if err != nil {
		t.Fatalf("AssociatePixels(wide): %v", err)
	}
	if !(bufWide.Radius > bufTight.Radius) {
		t.Errorf("expected neighbor radius to grow with tran_diff: tight=%d wide=%d", bufTight.Radius, bufWide.Radius)
	}
}

func TestAssociatePixels_UnknownPlaneFaults(t *testing.T) {
	cfg := testAssocConfig()
	seg := components.NewSegmentBatch(1)
	seg.PixelPlane[0] = 3
	if _, err := AssociatePixels(cfg, seg); err == nil {
		t.Fatal("expected an error for an out-of-range pixel_plane")
	}
}

func TestAssociatePixels_EmptyBatch(t *testing.T) {
	cfg := testAssocConfig()
	seg := components.NewSegmentBatch(0)
	buf, err := AssociatePixels(cfg, seg)
	if err != nil {
		t.Fatalf("AssociatePixels(empty): %v", err)
	}
	if buf.S != 0 {
		t.Errorf("expected S=0 for an empty batch, got %d", buf.S)
	}
}

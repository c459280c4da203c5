package systems

import (
	"math"
	"sync/atomic"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
	"github.com/lartpc/larnd-sim-go/simerr"
)

// DriftSegments transports each segment to the anode (§4.C): computes drift
// time from the midpoint and both endpoints, attenuates NElectrons by the
// electron lifetime, sets the diffusion sigmas, advances the drift
// coordinate to the anode, and advances the segment's time fields to anode
// arrival. Parallel over segments.
func DriftSegments(cfg *config.Config, seg *components.SegmentBatch) error {
	n := seg.Len()
	var faultIdx atomic.Int64
	faultIdx.Store(-1)

	phys := &cfg.Physics

	parallelFor(n, func(i int) {
		plane, ok := cfg.Geometry.Plane(seg.PixelPlane[i])
		if !ok {
			faultIdx.CompareAndSwap(-1, int64(i))
			return
		}
		zAnode := plane.ZAnode

		driftDist := math.Abs(seg.Z[i] - zAnode)
		driftDistStart := math.Abs(seg.ZStart[i] - zAnode)
		driftDistEnd := math.Abs(seg.ZEnd[i] - zAnode)

		driftTime := driftDist / phys.DriftVelocity
		driftTimeStart := driftDistStart / phys.DriftVelocity
		driftTimeEnd := driftDistEnd / phys.DriftVelocity

		if driftTime < 0 || math.IsNaN(driftTime) {
			faultIdx.CompareAndSwap(-1, int64(i))
			return
		}

		if phys.Lifetime > 0 {
			seg.NElectrons[i] *= math.Exp(-driftTime / phys.Lifetime)
		}

		longDiff := math.Sqrt(2 * phys.LongDiff * driftTime)
		tranDiff := math.Sqrt(2 * phys.TranDiff * driftTime)
		if math.IsNaN(longDiff) || math.IsNaN(tranDiff) {
			faultIdx.CompareAndSwap(-1, int64(i))
			return
		}
		seg.LongDiff[i] = longDiff
		seg.TranDiff[i] = tranDiff

		seg.Z[i] = zAnode
		seg.ZStart[i] = zAnode
		seg.ZEnd[i] = zAnode

		seg.T[i] += driftTime + tranDiff/phys.DriftVelocity
		seg.TStart[i] += driftTimeStart + tranDiff/phys.DriftVelocity
		seg.TEnd[i] += driftTimeEnd + tranDiff/phys.DriftVelocity
	})

	if idx := faultIdx.Load(); idx >= 0 {
		return &simerr.NumericFault{Stage: "drifting", SegmentIndex: int(idx), Reason: "negative drift time, unknown plane, or NaN diffusion sigma"}
	}
	return nil
}

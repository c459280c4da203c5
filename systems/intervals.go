package systems

import (
	"math"
	"sync/atomic"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

// ComputeIntervals rounds each segment's signal window to the sampling grid
// and max-reduces the shared batch tick count T_batch (§4.E). TrackStarts is
// in microseconds; TBatch is the tick-grid width every (s,k) signal row
// shares within this batch.
func ComputeIntervals(cfg *config.Config, seg *components.SegmentBatch) (trackStarts []float64, tBatch int) {
	n := seg.Len()
	trackStarts = make([]float64, n)

	phys := &cfg.Physics
	dt := phys.SamplingPeriod
	pad := phys.Pad

	var tBatchMax atomic.Int64

	parallelFor(n, func(i int) {
		tStartRound := math.Floor((seg.TStart[i]-pad)/dt) * dt
		tEndRound := math.Ceil((seg.TEnd[i]+pad)/dt) * dt
		trackStarts[i] = tStartRound

		width := int64(math.Round((tEndRound-tStartRound)/dt)) + 1
		for {
			cur := tBatchMax.Load()
			if width <= cur {
				break
			}
			if tBatchMax.CompareAndSwap(cur, width) {
				break
			}
		}
	})

	return trackStarts, int(tBatchMax.Load())
}

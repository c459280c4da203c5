// Package systems contains the bulk numerical kernels of the charge-
// transport and pixel-readout pipeline: quenching, drifting, pixel
// association, time intervals, induced current, pixel summation, and the
// front-end digitizer.
package systems

import (
	"math"
	"sync/atomic"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
	"github.com/lartpc/larnd-sim-go/simerr"
)

// QuenchSegments converts each segment's deposited energy into a number of
// ionization electrons using the Box or Birks recombination model (§4.B).
// Parallel over segments; no inter-segment dependency. Re-running it on an
// already-quenched batch is idempotent: NElectrons is a pure function of
// DE/DEdx, never accumulated in place (§8 invariant 5).
func QuenchSegments(phys *config.PhysicsConfig, seg *components.SegmentBatch) error {
	n := seg.Len()
	var faultIdx atomic.Int64
	faultIdx.Store(-1)

	switch phys.RecombModel {
	case config.RecombBox, config.RecombBirks:
	default:
		return simerr.NewInvalidConfig("unknown recomb_model: " + string(phys.RecombModel))
	}

	parallelFor(n, func(i int) {
		r := recombinationFactor(phys, seg.DEdx[i])
		if math.IsNaN(r) {
			faultIdx.CompareAndSwap(-1, int64(i))
			return
		}
		if r < 0 {
			r = 0
		}
		seg.NElectrons[i] = r * seg.DE[i] * phys.MeVToElectrons
	})

	if idx := faultIdx.Load(); idx >= 0 {
		return &simerr.NumericFault{Stage: "quenching", SegmentIndex: int(idx), Reason: "recombination factor is NaN"}
	}
	return nil
}

// recombinationFactor computes R for one segment's dE/dx under the
// configured model (§4.B).
func recombinationFactor(phys *config.PhysicsConfig, dEdx float64) float64 {
	switch phys.RecombModel {
	case config.RecombBox:
		xi := phys.BoxBeta * dEdx / (phys.EField * phys.LArDensity)
		if xi == 0 {
			// lim_{ξ→0} ln(α+ξ)/ξ = 1/α (L'Hôpital).
			return 1 / phys.BoxAlpha
		}
		r := math.Log(phys.BoxAlpha+xi) / xi
		if r < 0 {
			return 0
		}
		return r
	case config.RecombBirks:
		return phys.BirksAb / (1 + phys.BirksKb*dEdx/(phys.EField*phys.LArDensity))
	default:
		return math.NaN()
	}
}

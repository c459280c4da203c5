package systems

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

// SummatePixels collapses the per-(segment, neighbor) signal rows onto the
// batch's unique pixel set (§4.G): dedupe the neighbor lists into a sorted
// pixel index, cap each pixel's contributing-track slots at K, and scatter-
// add every signal sample into both the pixel-level and per-track-slot
// dense buffers.
func SummatePixels(cfg *config.Config, seg *components.SegmentBatch, assoc *components.AssociationBuffers, sig *components.SignalBuffers, trackStarts []float64) *components.SummationBuffers {
	unique := uniquePixels(assoc)
	k := cfg.Electronics.TrackSlots
	if k <= 0 {
		k = 5
	}
	ttot := cfg.Derived.NumTicks
	if ttot <= 0 {
		ttot = sig.T
	}

	sum := components.NewSummationBuffers(unique, k, ttot)
	if len(unique) == 0 || seg.Len() == 0 {
		return sum
	}

	indexOf := make(map[int64]int32, len(unique))
	for i, id := range unique {
		indexOf[id] = int32(i)
	}

	pixelIndexMap := make([]int32, assoc.S*assoc.NeighborWidth)
	for i := range pixelIndexMap {
		id := assoc.Neighboring[i]
		if id == components.SentinelPixel {
			pixelIndexMap[i] = -1
			continue
		}
		pixelIndexMap[i] = indexOf[id]
	}
	sum.PixelIndexMap = pixelIndexMap

	trackSlotOf := make([]map[int]int, len(unique))
	for u := range unique {
		slots := make(map[int]int, k)
		filled := 0
		for s := 0; s < assoc.S && filled < k; s++ {
			base := s * assoc.NeighborWidth
			matched := false
			for kk := 0; kk < assoc.NeighborWidth; kk++ {
				if pixelIndexMap[base+kk] == int32(u) {
					matched = true
					break
				}
			}
			if matched {
				slots[s] = filled
				sum.TrackPixelMap[u*k+filled] = int32(s)
				filled++
			}
		}
		trackSlotOf[u] = slots
	}

	numStripes := 64
	if numStripes > len(unique) {
		numStripes = len(unique)
	}
	if numStripes == 0 {
		numStripes = 1
	}
	stripes := make([]sync.Mutex, numStripes)

	dt := cfg.Physics.SamplingPeriod
	t0 := cfg.Physics.T0

	parallelFor(seg.Len(), func(s int) {
		base := s * assoc.NeighborWidth
		for kk := 0; kk < assoc.NeighborWidth; kk++ {
			u := pixelIndexMap[base+kk]
			if u < 0 {
				continue
			}
			slot, ok := trackSlotOf[u][s]
			stripe := &stripes[int(u)%numStripes]
			for t := 0; t < sig.T; t++ {
				v := sig.At(s, kk, t, assoc.NeighborWidth)
				if v == 0 {
					continue
				}
				globalT := 0
				if dt > 0 {
					globalT = int((trackStarts[s]-t0)/dt+0.5) + t
				}
				if globalT < 0 || globalT >= ttot {
					continue
				}
				stripe.Lock()
				sum.AddPixelsSignal(int(u), globalT, v)
				if ok {
					sum.AddTrackSignal(int(u), globalT, slot, v)
				}
				stripe.Unlock()
			}
		}
	})

	return sum
}

// uniquePixels sorts and deduplicates every non-sentinel ID in the
// association buffer's neighbor lists.
func uniquePixels(assoc *components.AssociationBuffers) []int64 {
	seen := make(map[int64]struct{}, len(assoc.Neighboring))
	for _, id := range assoc.Neighboring {
		if id == components.SentinelPixel {
			continue
		}
		seen[id] = struct{}{}
	}
	unique := make([]int64, 0, len(seen))
	for id := range seen {
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}

// TotalSignal sums every pixel-level sample in the batch, giving the batch's
// total induced current without re-walking the raw per-segment rows.
func TotalSignal(sum *components.SummationBuffers) float64 {
	return floats.Sum(sum.PixelsSignals)
}

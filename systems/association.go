package systems

import (
	"math"
	"sync/atomic"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
	"github.com/lartpc/larnd-sim-go/simerr"
)

// AssociatePixels lists, for every segment, the active pixels its anode
// projection crosses and the neighboring pixels within a per-batch
// Chebyshev radius (§4.D). Two passes, both parallel over segments: a dry
// run sizes Pmax (DESIGN NOTES §9's "cheap pass" over a ragged structure),
// then a dense S*Pmax buffer is filled.
func AssociatePixels(cfg *config.Config, seg *components.SegmentBatch) (*components.AssociationBuffers, error) {
	n := seg.Len()
	if n == 0 {
		return components.NewAssociationBuffers(0, 1, 0), nil
	}

	counts := make([]int, n)
	var faultIdx atomic.Int64
	faultIdx.Store(-1)

	parallelFor(n, func(i int) {
		plane, ok := cfg.Geometry.Plane(seg.PixelPlane[i])
		if !ok {
			faultIdx.CompareAndSwap(-1, int64(i))
			return
		}
		ix0, iy0, ok0 := startPixel(seg.XStart[i], seg.YStart[i], plane)
		ix1, iy1, ok1 := startPixel(seg.XEnd[i], seg.YEnd[i], plane)
		if !ok0 && !ok1 {
			counts[i] = 0
			return
		}
		if !ok0 {
			ix0, iy0 = ix1, iy1
		}
		if !ok1 {
			ix1, iy1 = ix0, iy0
		}
		pts := bresenhamLine(nil, ix0, iy0, ix1, iy1)
		counts[i] = boundedCount(pts, plane)
	})
	if idx := faultIdx.Load(); idx >= 0 {
		return nil, &simerr.NumericFault{Stage: "association", SegmentIndex: int(idx), Reason: "segment references an unknown pixel_plane"}
	}

	pmax := 1
	for _, c := range counts {
		if c > pmax {
			pmax = c
		}
	}

	tranDiffMax := 0.0
	minPitch := math.MaxFloat64
	for i := 0; i < n; i++ {
		if seg.TranDiff[i] > tranDiffMax {
			tranDiffMax = seg.TranDiff[i]
		}
		if plane, ok := cfg.Geometry.Plane(seg.PixelPlane[i]); ok && plane.Pitch < minPitch {
			minPitch = plane.Pitch
		}
	}
	if minPitch == math.MaxFloat64 || minPitch <= 0 {
		minPitch = 1
	}

	radius := int(math.Ceil(5 * tranDiffMax / minPitch))
	if radius < 0 {
		radius = 0
	}

	buf := components.NewAssociationBuffers(n, pmax, radius)

	parallelFor(n, func(i int) {
		plane, ok := cfg.Geometry.Plane(seg.PixelPlane[i])
		if !ok {
			return
		}
		ix0, iy0, ok0 := startPixel(seg.XStart[i], seg.YStart[i], plane)
		ix1, iy1, ok1 := startPixel(seg.XEnd[i], seg.YEnd[i], plane)
		if !ok0 && !ok1 {
			return
		}
		if !ok0 {
			ix0, iy0 = ix1, iy1
		}
		if !ok1 {
			ix1, iy1 = ix0, iy0
		}
		pts := bresenhamLine(make([]bresenhamPixel, 0, pmax), ix0, iy0, ix1, iy1)

		activeSlot := 0
		seenActive := make(map[int64]bool, pmax)
		for _, p := range pts {
			if p.IX < 0 || p.IX >= int32(plane.Nx) || p.IY < 0 || p.IY >= int32(plane.Ny) {
				continue
			}
			id := components.PixelID(p.IX, p.IY, seg.PixelPlane[i], int32(plane.Nx), int32(plane.Ny))
			if seenActive[id] {
				continue
			}
			seenActive[id] = true
			if activeSlot < buf.Pmax {
				buf.SetActive(i, activeSlot, id)
				activeSlot++
			}
		}

		seenNbr := make(map[int64]bool, buf.NeighborWidth)
		slot := 0
		for a := 0; a < buf.Pmax; a++ {
			id := buf.Active(i, a)
			if id == components.SentinelPixel {
				continue
			}
			cix, ciy, _ := components.DecodePixelID(id, int32(plane.Nx), int32(plane.Ny))
			for dx := -radius; dx <= radius; dx++ {
				for dy := -radius; dy <= radius; dy++ {
					nix := cix + int32(dx)
					niy := ciy + int32(dy)
					if nix < 0 || nix >= int32(plane.Nx) || niy < 0 || niy >= int32(plane.Ny) {
						continue
					}
					nid := components.PixelID(nix, niy, seg.PixelPlane[i], int32(plane.Nx), int32(plane.Ny))
					if seenNbr[nid] {
						continue
					}
					seenNbr[nid] = true
					if slot < buf.NeighborWidth {
						buf.SetNeighbor(i, slot, nid)
						slot++
					}
				}
			}
		}
	})

	return buf, nil
}

// startPixel converts a world-space (x,y) anode-plane point to its discrete
// pixel index, reporting false if the pixel geometry is degenerate.
func startPixel(x, y float64, plane config.PlaneGeometry) (ix, iy int32, ok bool) {
	if plane.Pitch <= 0 {
		return 0, 0, false
	}
	ix = int32(math.Floor((x - plane.OriginX) / plane.Pitch))
	iy = int32(math.Floor((y - plane.OriginY) / plane.Pitch))
	return ix, iy, true
}

// boundedCount counts how many distinct points of an already-walked
// Bresenham pixel list fall within the plane's pixel bounds, returning at
// least 1 (§4.D: fails silently for out-of-bounds pixels — they're omitted
// from the count, not an error).
func boundedCount(pts []bresenhamPixel, plane config.PlaneGeometry) int {
	seen := make(map[int64]bool, len(pts))
	count := 0
	for _, p := range pts {
		if p.IX < 0 || p.IX >= int32(plane.Nx) || p.IY < 0 || p.IY >= int32(plane.Ny) {
			continue
		}
		id := components.PixelID(p.IX, p.IY, 0, int32(plane.Nx), int32(plane.Ny))
		if seen[id] {
			continue
		}
		seen[id] = true
		count++
	}
	if count == 0 {
		count = 1
	}
	return count
}

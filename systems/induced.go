package systems

import (
	"math"

	"github.com/lartpc/larnd-sim-go/components"
	"github.com/lartpc/larnd-sim-go/config"
)

// InduceCurrent is the dominant kernel of the pipeline (§4.F): for every
// (segment, neighboring pixel, tick) triple it walks the drift axis in
// Δt-sized slices, integrates the closed-form 3-D Gaussian line-charge
// density over a polar grid around each slice's transverse position, and
// weights it by the pixel's parametric current response. Parallel over
// segments; the (k,t) loops run serially within one segment's worker since
// they share the same per-segment geometry. The polar-grid loop keeps its
// state in stack locals, so no scratch buffer is allocated (§9).
func InduceCurrent(cfg *config.Config, seg *components.SegmentBatch, assoc *components.AssociationBuffers, trackStarts []float64, tBatch int) *components.SignalBuffers {
	sig := components.NewSignalBuffers(assoc, tBatch)
	if seg.Len() == 0 || tBatch == 0 {
		return sig
	}

	phys := &cfg.Physics
	elec := &cfg.Electronics
	dt := phys.SamplingPeriod
	vd := phys.DriftVelocity
	lateCutoff := phys.LateSignalCutoff
	if lateCutoff <= 0 {
		lateCutoff = 5.0
	}
	nRadial := phys.NRadial
	if nRadial <= 0 {
		nRadial = 4
	}

	parallelFor(seg.Len(), func(s int) {
		plane, ok := cfg.Geometry.Plane(seg.PixelPlane[s])
		if !ok {
			return
		}

		segX := seg.XEnd[s] - seg.XStart[s]
		segY := seg.YEnd[s] - seg.YStart[s]
		segZ := vd * (seg.TEnd[s] - seg.TStart[s])
		deltaR := math.Sqrt(segX*segX + segY*segY + segZ*segZ)
		if deltaR < 1e-9 {
			return
		}
		startZ := vd * seg.TStart[s]

		sigmaT := seg.TranDiff[s]
		sigmaL := seg.LongDiff[s]
		if sigmaT <= 0 {
			sigmaT = 1e-6
		}
		if sigmaL <= 0 {
			sigmaL = 1e-6
		}
		maxRadius := 3 * sigmaT
		rStep := maxRadius / float64(nRadial)
		dTheta := math.Pi / float64(nRadial)

		rhoTol := 3 * math.Sqrt2 * plane.Pitch
		halfPitch := plane.Pitch / 2

		// endcapSize resolves §9's open question on Gaussian recentering: a
		// slice within endcapSize of either segment end recomputes the
		// transverse quadrature center at that slice's own position;
		// elsewhere the cheaper midpoint weights (the segment's overall
		// transverse midpoint) are reused, defaulting to 3*sigma_L per
		// segment when the descriptor leaves it at zero.
		endcapSize := phys.EndcapSize
		if endcapSize <= 0 {
			endcapSize = 3 * sigmaL
		}

		for k := 0; k < assoc.NeighborWidth; k++ {
			id := assoc.Neighbor(s, k)
			if id == components.SentinelPixel {
				continue
			}
			ix, iy, _ := components.DecodePixelID(id, int32(plane.Nx), int32(plane.Ny))
			xp, yp := components.PixelCenter(ix, iy, plane.Pitch, plane.OriginX, plane.OriginY)

			denom := segX*segX + segY*segY
			var uPoca float64
			if denom > 1e-12 {
				uPoca = ((xp-seg.XStart[s])*segX + (yp-seg.YStart[s])*segY) / denom
			}
			uPoca = clampFloat(uPoca, 0, 1)
			pocaX := seg.XStart[s] + uPoca*segX
			pocaY := seg.YStart[s] + uPoca*segY
			if math.Hypot(xp-pocaX, yp-pocaY) > rhoTol {
				continue
			}

			uLo, uHi := uPoca, uPoca
			if denom > 1e-12 {
				a2 := denom
				b2 := 2 * ((seg.XStart[s]-xp)*segX + (seg.YStart[s]-yp)*segY)
				c2 := (seg.XStart[s]-xp)*(seg.XStart[s]-xp) + (seg.YStart[s]-yp)*(seg.YStart[s]-yp) - rhoTol*rhoTol
				disc := b2*b2 - 4*a2*c2
				if disc < 0 {
					disc = 0
				}
				sqrtDisc := math.Sqrt(disc)
				u1 := (-b2 - sqrtDisc) / (2 * a2)
				u2 := (-b2 + sqrtDisc) / (2 * a2)
				uLo, uHi = u1, u2
				if uLo > uHi {
					uLo, uHi = uHi, uLo
				}
			}
			uLo = clampFloat(uLo, 0, 1)
			uHi = clampFloat(uHi, 0, 1)
			if uHi < uLo {
				uHi = uLo
			}

			tSpan := seg.TEnd[s] - seg.TStart[s]
			tPoca := seg.TStart[s] + uPoca*tSpan
			tLo := seg.TStart[s] + uLo*tSpan
			tHi := seg.TStart[s] + uHi*tSpan

			nUp := int(math.Ceil((tHi - tPoca) / dt))
			if nUp < 0 {
				nUp = 0
			}
			nDown := int(math.Ceil((tPoca - tLo) / dt))
			if nDown < 0 {
				nDown = 0
			}
			dtEff := dt
			if nUp > 0 {
				dtEff = (tHi - tPoca) / float64(nUp)
			}
			dzEff := vd * dtEff

			for iz := -nDown; iz <= nUp; iz++ {
				tIz := tPoca + float64(iz)*dtEff
				var uIz float64
				if tSpan != 0 {
					uIz = (tIz - seg.TStart[s]) / tSpan
				}
				uIz = clampFloat(uIz, 0, 1)
				xIz := seg.XStart[s] + uIz*segX
				yIz := seg.YStart[s] + uIz*segY
				zIz := vd * tIz
				t0 := tIz

				// Quadrature center: recentered on this slice near either
				// endpoint, the cheaper segment-midpoint center elsewhere.
				distFromStart := math.Abs(zIz - vd*seg.TStart[s])
				distFromEnd := math.Abs(vd*seg.TEnd[s] - zIz)
				quadX, quadY := xIz, yIz
				if distFromStart > endcapSize && distFromEnd > endcapSize {
					quadX, quadY = seg.X[s], seg.Y[s]
				}

				for t := 0; t < tBatch; t++ {
					tTick := trackStarts[s] + float64(t)*dt
					if tTick >= t0+lateCutoff {
						continue
					}

					var sliceSum float64
					for ir := 0; ir < nRadial; ir++ {
						r := (float64(ir) + 0.5) * rStep
						areaElement := 0.5 * dTheta * rStep * rStep * float64((ir+1)*(ir+1)-ir*ir)
						for ia := 0; ia < 2*nRadial; ia++ {
							theta := float64(ia) * dTheta
							x := quadX + r*math.Cos(theta)
							y := quadY + r*math.Sin(theta)

							rho := rhoCloud(seg.NElectrons[s], x, y, zIz,
								seg.XStart[s], seg.YStart[s], startZ,
								segX, segY, segZ, deltaR, sigmaT, sigmaL, phys.MinGaussianA)
							if rho == 0 {
								continue
							}
							dx := x - xp
							dy := y - yp
							resp := pixelResponse(elec.ResponseCoeffs, tTick, t0, dx, dy, halfPitch)
							sliceSum += rho * resp * areaElement
						}
					}
					sig.Add(s, k, t, assoc.NeighborWidth, sliceSum*dzEff)
				}
			}
		}
	})

	return sig
}

package systems

import "math"

// quantize clamps value to [vmin, vmax] and scales it to an integer ADC code
// in [0, counts-1] (§4.H digitize()).
func quantize(value, vmin, vmax float64, counts int) int {
	if value < vmin {
		value = vmin
	}
	if value > vmax {
		value = vmax
	}
	if vmax <= vmin || counts <= 1 {
		return 0
	}
	frac := (value - vmin) / (vmax - vmin)
	code := int(frac*float64(counts-1) + 0.5)
	if code < 0 {
		code = 0
	}
	if code > counts-1 {
		code = counts - 1
	}
	return code
}

// clampFloat clamps a float64 value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// bresenhamPixel is one (ix, iy) grid cell visited by a Bresenham walk.
type bresenhamPixel struct {
	IX, IY int32
}

// bresenhamLine walks the discrete 4-connected Bresenham line from (ix0,iy0)
// to (ix1,iy1), appending every visited cell to dst (§4.D phase 1). Both
// endpoints are included, even when they coincide.
func bresenhamLine(dst []bresenhamPixel, ix0, iy0, ix1, iy1 int32) []bresenhamPixel {
	dx := abs32(ix1 - ix0)
	dy := -abs32(iy1 - iy0)
	sx := int32(1)
	if ix0 >= ix1 {
		sx = -1
	}
	sy := int32(1)
	if iy0 >= iy1 {
		sy = -1
	}
	err := dx + dy

	x, y := ix0, iy0
	for {
		dst = append(dst, bresenhamPixel{IX: x, IY: y})
		if x == ix1 && y == iy1 {
			break
		}
		e2 := 2 * err
		if e2-dy > dx-e2 {
			err += dy
			x += sx
		} else {
			err += dx
			y += sy
		}
	}
	return dst
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// erfDiffAtZero returns erf(hi) - erf(lo). Inputs are not clamped; math.Erf
// itself saturates to ±1 for large arguments, so the difference falls to 0
// once both arguments are large and of the same sign (DESIGN NOTES §9's
// "|b/2√a| above ~6 is zero contribution").
func erfDiffAtZero(lo, hi float64) float64 {
	return math.Erf(hi) - math.Erf(lo)
}

// gaussianA computes the `a` coefficient of the closed-form line-charge
// Gaussian integral (§4.F): a = Σ_i (seg_i/Δr)² / (2σ_i²), clamped to a
// small positive floor per DESIGN NOTES §9 so a downstream division by a
// never produces Inf/NaN.
func gaussianA(segX, segY, segZ, deltaR, sigmaT, sigmaL, minA float64) float64 {
	a := (segX*segX)/(deltaR*deltaR)/(2*sigmaT*sigmaT) +
		(segY*segY)/(deltaR*deltaR)/(2*sigmaT*sigmaT) +
		(segZ*segZ)/(deltaR*deltaR)/(2*sigmaL*sigmaL)
	if a < minA {
		a = minA
	}
	return a
}

// gaussianBDelta computes the `b` and `δ` coefficients of the same integral
// at evaluation point p, relative to the segment's start point and
// direction vector (§4.F slice contribution).
func gaussianBDelta(px, py, pz, startX, startY, startZ, segX, segY, segZ, deltaR, sigmaT, sigmaL float64) (b, delta float64) {
	dx, dy, dz := px-startX, py-startY, pz-startZ
	b = -(dx*segX/(sigmaT*sigmaT) + dy*segY/(sigmaT*sigmaT) + dz*segZ/(sigmaL*sigmaL)) / deltaR
	delta = dx*dx/(2*sigmaT*sigmaT) + dy*dy/(2*sigmaT*sigmaT) + dz*dz/(2*sigmaL*sigmaL)
	return b, delta
}

// rhoCloud evaluates the closed-form 3-D Gaussian line-charge density at
// point p, given the segment's total electron count, start point, direction
// vector, length, and transverse/longitudinal diffusion sigmas (§4.F).
func rhoCloud(nElectrons, px, py, pz, startX, startY, startZ, segX, segY, segZ, deltaR, sigmaT, sigmaL, minA float64) float64 {
	a := gaussianA(segX, segY, segZ, deltaR, sigmaT, sigmaL, minA)
	b, delta := gaussianBDelta(px, py, pz, startX, startY, startZ, segX, segY, segZ, deltaR, sigmaT, sigmaL)

	sqrtA := math.Sqrt(a)
	factor := nElectrons / (deltaR * sigmaT * sigmaT * sigmaL * math.Sqrt(8*math.Pi*math.Pi*math.Pi))
	exponent := b*b/(4*a) - delta
	if exponent > 700 {
		exponent = 700
	}
	erfTerm := erfDiffAtZero(b/(2*sqrtA), (b+2*a*deltaR)/(2*sqrtA))
	rho := factor * math.Exp(exponent) * math.Sqrt(math.Pi) / (2 * sqrtA) * erfTerm
	if math.IsNaN(rho) || math.IsInf(rho, 0) {
		return 0
	}
	return rho
}

// pixelResponse evaluates I(t, t0, Δx, Δy) (§4.F step 5): zero for t >= t0
// or when either offset exceeds half the pixel pitch, otherwise a sum of two
// exponentials whose coefficients are quadratic polynomials in (Δx, Δy).
func pixelResponse(coeffs [5][6]float64, t, t0, dx, dy, halfPitch float64) float64 {
	if math.Abs(dx) > halfPitch || math.Abs(dy) > halfPitch {
		return 0
	}
	eval := func(k [6]float64) float64 {
		return k[0] + k[1]*dx + k[2]*dy + k[3]*dx*dx + k[4]*dx*dy + k[5]*dy*dy
	}
	t0Eff := t0 + eval(coeffs[4])
	if t >= t0Eff {
		return 0
	}
	a := eval(coeffs[0])
	b := eval(coeffs[1])
	c := eval(coeffs[2])
	d := eval(coeffs[3])
	dt := t - t0Eff
	var term1, term2 float64
	if b != 0 {
		term1 = a * math.Exp(dt/b)
	}
	if d != 0 {
		term2 = c * math.Exp(dt/d)
	}
	return term1 + term2
}

package bilateral

import "math"

// DownsamplePoint fills dst by point-sampling src at each destination
// texel center. One source texel per destination texel, no averaging,
// so depth values stay exact surface depths instead of becoming
// averages that exist on no surface.
func DownsamplePoint(dst, src *Plane) {
	if dst == nil || src == nil || dst.W <= 0 || dst.H <= 0 {
		return
	}
	for y := 0; y < dst.H; y++ {
		sy := nearestSource(y, dst.H, src.H)
		for x := 0; x < dst.W; x++ {
			sx := nearestSource(x, dst.W, src.W)
			i := src.index(sx, sy)
			o := dst.index(x, y)
			dst.Pix[o] = src.Pix[i]
			dst.Pix[o+1] = src.Pix[i+1]
			dst.Pix[o+2] = src.Pix[i+2]
			dst.Pix[o+3] = src.Pix[i+3]
		}
	}
}

// nearestSource maps destination texel d to the source texel whose
// center is nearest the destination texel center.
func nearestSource(d, dstLen, srcLen int) int {
	s := (2*d + 1) * srcLen / (2 * dstLen)
	return clampInt(s, 0, srcLen-1)
}

// BlurH applies one horizontal pass of the depth-weighted blur,
// reading fog from src and writing to dst at the same resolution.
// Each tap's spatial Gaussian weight is scaled by a depth range term,
// so taps across a depth discontinuity contribute almost nothing.
// Sample positions clamp at the image edges.
func BlurH(dst, src, depth *Plane, radius int, depthSigma float32) {
	blurAxis(dst, src, depth, radius, depthSigma, true)
}

// BlurV applies the matching vertical pass. Run BlurH into a scratch
// plane and BlurV back for a full separable blur.
func BlurV(dst, src, depth *Plane, radius int, depthSigma float32) {
	blurAxis(dst, src, depth, radius, depthSigma, false)
}

func blurAxis(dst, src, depth *Plane, radius int, depthSigma float32, horizontal bool) {
	if dst == nil || src == nil {
		return
	}
	if radius <= 0 {
		dst.CopyFrom(src)
		return
	}

	kernel := gaussianKernel(radius)
	invTwoSigmaSq := depthRangeScale(depthSigma)

	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			centerDepth := float32(0)
			if depth != nil {
				centerDepth = depth.Depth(x, y)
			}

			var r, g, b, a, wsum float32
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k, 0, src.W-1)
				} else {
					sy = clampInt(y+k, 0, src.H-1)
				}

				w := kernel[k+radius]
				if depth != nil {
					dd := depth.Depth(sx, sy) - centerDepth
					w *= float32(math.Exp(float64(-dd * dd * invTwoSigmaSq)))
				}

				i := src.index(sx, sy)
				r += src.Pix[i] * w
				g += src.Pix[i+1] * w
				b += src.Pix[i+2] * w
				a += src.Pix[i+3] * w
				wsum += w
			}

			o := dst.index(x, y)
			if wsum > 0 {
				inv := 1 / wsum
				dst.Pix[o] = r * inv
				dst.Pix[o+1] = g * inv
				dst.Pix[o+2] = b * inv
				dst.Pix[o+3] = a * inv
			} else {
				i := src.index(x, y)
				copy(dst.Pix[o:o+4], src.Pix[i:i+4])
			}
		}
	}
}

// Upsample fills the high-resolution dst from the low-resolution fog
// plane. The four nearest low texels are blended with bilinear weights
// scaled by how closely each low depth matches the high-resolution
// depth at the destination pixel. When every neighbor sits across a
// depth discontinuity the nearest-depth texel wins outright, keeping
// silhouettes sharp.
func Upsample(dst, lowFog, lowDepth, highDepth *Plane, depthSigma float32) {
	if dst == nil || lowFog == nil || lowFog.W <= 0 || lowFog.H <= 0 {
		return
	}
	invTwoSigmaSq := depthRangeScale(depthSigma)

	for y := 0; y < dst.H; y++ {
		fy := (float32(y)+0.5)*float32(lowFog.H)/float32(dst.H) - 0.5
		y0 := int(math.Floor(float64(fy)))
		ty := fy - float32(y0)

		for x := 0; x < dst.W; x++ {
			fx := (float32(x)+0.5)*float32(lowFog.W)/float32(dst.W) - 0.5
			x0 := int(math.Floor(float64(fx)))
			tx := fx - float32(x0)

			refDepth := float32(0)
			if highDepth != nil {
				refDepth = highDepth.Depth(x, y)
			}

			bilinear := [4]float32{
				(1 - tx) * (1 - ty),
				tx * (1 - ty),
				(1 - tx) * ty,
				tx * ty,
			}
			taps := [4][2]int{
				{x0, y0}, {x0 + 1, y0}, {x0, y0 + 1}, {x0 + 1, y0 + 1},
			}

			var r, g, b, a, wsum float32
			bestW := float32(-1)
			var bestTap [2]int
			for i, tap := range taps {
				w := bilinear[i]
				dw := float32(1)
				if lowDepth != nil && highDepth != nil {
					dd := lowDepth.Depth(tap[0], tap[1]) - refDepth
					dw = float32(math.Exp(float64(-dd * dd * invTwoSigmaSq)))
				}
				if dw > bestW {
					bestW = dw
					bestTap = tap
				}
				w *= dw

				tr, tg, tb, ta := lowFog.At(tap[0], tap[1])
				r += tr * w
				g += tg * w
				b += tb * w
				a += ta * w
				wsum += w
			}

			if wsum > 1e-6 {
				inv := 1 / wsum
				dst.Set(x, y, r*inv, g*inv, b*inv, a*inv)
			} else {
				tr, tg, tb, ta := lowFog.At(bestTap[0], bestTap[1])
				dst.Set(x, y, tr, tg, tb, ta)
			}
		}
	}
}

// gaussianKernel builds a normalized 1D Gaussian of size 2*radius+1
// truncated at the radius, with sigma tied to the radius so the
// support always covers two standard deviations.
func gaussianKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	sigma := float64(radius) / 2
	twoSigmaSq := 2 * sigma * sigma

	kernel := make([]float32, radius*2+1)
	sum := float64(0)
	for i := range kernel {
		x := float64(i - radius)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// depthRangeScale converts a depth sigma into the 1/(2*sigma^2) factor
// used by the range weight. A non-positive sigma collapses the range
// term to a hard depth match.
func depthRangeScale(depthSigma float32) float32 {
	if depthSigma <= 0 {
		depthSigma = 1e-4
	}
	return 1 / (2 * depthSigma * depthSigma)
}

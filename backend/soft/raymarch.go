package soft

import (
	"math"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/internal/bilateral"
	"github.com/gogpu/fog/internal/parallel"
)

// rayMarch integrates one fog volume into dst, one ray per texel. It
// mirrors the GPU program closely enough for golden-image tests: sphere
// intersection, exponential extinction, Henyey-Greenstein scattering
// and the ambient floor all match, while shadow-map taps degrade to
// unshadowed scattering because the CPU path has no atlas.
//
// The depth plane stores linear camera distance and may be any
// resolution; it is point-sampled at the ray's texel. Rows shade in
// parallel; a ray writes only its own texel, so the additive path
// needs no locking and stays deterministic.
func rayMarch(dst, depth *bilateral.Plane, p fog.RayMarchParams, additive bool) {
	if dst.W == 0 || dst.H == 0 || p.VolumeRadius <= 0 {
		return
	}

	prof := p.Profile
	invVP := p.ViewProj.Invert()
	stepMin := prof.StepMin
	if stepMin <= 0 {
		stepMin = 0.05
	}
	stepMax := prof.StepMax
	if stepMax < stepMin {
		stepMax = stepMin
	}
	grow := prof.StepIncrement
	if grow < 1 {
		grow = 1
	}
	maxSamples := prof.MaxSamples
	if maxSamples <= 0 {
		maxSamples = 64
	}
	var scroll fog.Vec3
	if n := prof.Noise; n != nil {
		scroll = n.Scroll.Mul(p.Time)
	}

	parallel.Rows(dst.H, func(y int) {
		for x := 0; x < dst.W; x++ {
			origin, dir := pixelRay(invVP, p.CameraPos, x, y, dst.W, dst.H, p.Jitter)

			tNear, tFar, hit := raySphere(origin, dir, p.VolumeCenter, p.VolumeRadius)
			if !hit {
				continue
			}
			if tNear < 0 {
				tNear = 0
			}
			if d := sampleDepth(depth, x, y, dst.W, dst.H); d > 0 && d < tFar {
				tFar = d
			}
			if lim := tNear + prof.MaxRayLength; prof.MaxRayLength > 0 && lim < tFar {
				tFar = lim
			}
			if tFar <= tNear {
				continue
			}

			// Per-pixel start offset hides banding between steps.
			t := tNear + hash2(x, y)*stepMin*prof.JitterStrength
			step := stepMin
			transmittance := float32(1)
			var cr, cg, cb float32

			for i := 0; i < maxSamples && t < tFar && transmittance > 1e-3; i++ {
				dt := step
				if t+dt > tFar {
					dt = tFar - t
				}
				pos := origin.Add(dir.Mul(t + dt*0.5))

				density := float32(1)
				if n := prof.Noise; n != nil && n.Strength > 0 {
					density = 1 - n.Strength*valueNoise(pos.Add(scroll).Mul(n.Scale))
					if density < 0 {
						density = 0
					}
				}

				radiance := prof.AmbientColor.Mul(prof.AmbientOpacity)
				if prof.Lighting != fog.LightingUnlit {
					radiance = radiance.Add(inScatter(pos, dir, p.Lights, prof.MieG))
				}
				if c := prof.BrightnessClamp; c > 0 {
					radiance = clampVec(radiance, c)
				}

				transmittance *= expf(-prof.Extinction * density * dt)
				w := prof.Scattering * density * dt * transmittance
				cr += radiance[0] * prof.Albedo[0] * w
				cg += radiance[1] * prof.Albedo[1] * w
				cb += radiance[2] * prof.Albedo[2] * w

				t += dt
				step *= grow
				if step > stepMax {
					step = stepMax
				}
			}

			alpha := 1 - transmittance
			if additive {
				pr, pg, pb, pa := dst.At(x, y)
				cr += pr
				cg += pg
				cb += pb
				alpha = pa + alpha*(1-pa)
			}
			dst.Set(x, y, cr, cg, cb, alpha)
		}
	})
}

// pixelRay unprojects texel (x, y) plus the frame jitter into a world
// ray. Clip depth follows the [0, 1] convention of Perspective.
func pixelRay(invVP fog.Mat4, camera fog.Vec3, x, y, w, h int, jitter [2]float32) (origin, dir fog.Vec3) {
	fx := (float32(x) + 0.5 + jitter[0]) / float32(w)
	fy := (float32(y) + 0.5 + jitter[1]) / float32(h)
	nx := fx*2 - 1
	ny := 1 - fy*2

	far := invVP.MulVec4(fog.Vec4{nx, ny, 1, 1})
	if far[3] != 0 {
		inv := 1 / far[3]
		far[0] *= inv
		far[1] *= inv
		far[2] *= inv
	}
	return camera, far.Vec3().Sub(camera).Normalize()
}

// raySphere intersects origin+t*dir with the sphere, returning the
// entry and exit distances.
func raySphere(origin, dir, center fog.Vec3, radius float32) (tNear, tFar float32, hit bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	s := float32(math.Sqrt(float64(disc)))
	tNear, tFar = -b-s, -b+s
	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// sampleDepth point-samples the depth guide at the texel matching
// (x, y) of a w-by-h target. Zero means no depth bound.
func sampleDepth(depth *bilateral.Plane, x, y, w, h int) float32 {
	if depth == nil || depth.W == 0 || depth.H == 0 {
		return 0
	}
	dx := x * depth.W / w
	dy := y * depth.H / h
	return depth.Depth(dx, dy)
}

// inScatter sums the light reaching pos along view direction dir.
// Spot cones fade smoothly over the outer tenth of the cone angle.
func inScatter(pos, dir fog.Vec3, lights []fog.Snapshot, g float32) fog.Vec3 {
	var sum fog.Vec3
	for i := range lights {
		l := &lights[i]

		var toLight fog.Vec3
		atten := float32(1)
		if l.Directional {
			toLight = l.Direction.Mul(-1).Normalize()
		} else {
			delta := l.Position.Sub(pos)
			dist := delta.Len()
			if l.Range > 0 && dist > l.Range {
				continue
			}
			toLight = delta.Normalize()
			atten = distanceAtten(l.Attenuation, dist)
			if l.SpotAngle > 0 {
				atten *= spotAtten(l, toLight)
			}
			if atten <= 0 {
				continue
			}
		}

		phase := henyeyGreenstein(g, dir.Dot(toLight))
		sum = sum.Add(l.Color.Mul(atten * phase))
	}
	return sum
}

// distanceAtten evaluates the packed constant/linear/quadratic falloff.
func distanceAtten(k fog.Vec3, dist float32) float32 {
	denom := k[0] + k[1]*dist + k[2]*dist*dist
	if denom <= 1e-6 {
		return 1
	}
	return 1 / denom
}

// spotAtten fades the light toward the cone edge. toLight points from
// the sample to the light, so the cone test flips it.
func spotAtten(l *fog.Snapshot, toLight fog.Vec3) float32 {
	cosOuter := float32(math.Cos(float64(l.SpotAngle) * 0.5))
	cosInner := float32(math.Cos(float64(l.SpotAngle) * 0.45))
	cos := l.Direction.Normalize().Dot(toLight.Mul(-1))
	if cos <= cosOuter {
		return 0
	}
	if cos >= cosInner {
		return 1
	}
	return (cos - cosOuter) / (cosInner - cosOuter)
}

// henyeyGreenstein is the Mie phase function; g=0 is isotropic.
func henyeyGreenstein(g, cos float32) float32 {
	denom := 1 + g*g - 2*g*cos
	if denom < 1e-4 {
		denom = 1e-4
	}
	return (1 - g*g) / (4 * math.Pi * denom * float32(math.Sqrt(float64(denom))))
}

// hash2 is a cheap stateless hash of a texel coordinate in [0, 1).
func hash2(x, y int) float32 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return float32(h^(h>>16)) / float32(math.MaxUint32)
}

// valueNoise is trilinear value noise over a lattice of hashed corners,
// in [0, 1].
func valueNoise(p fog.Vec3) float32 {
	x0, y0, z0 := floorI(p[0]), floorI(p[1]), floorI(p[2])
	fx := p[0] - float32(x0)
	fy := p[1] - float32(y0)
	fz := p[2] - float32(z0)

	lerp := func(a, b, t float32) float32 { return a + (b-a)*t }
	c := func(dx, dy, dz int) float32 { return hash3(x0+dx, y0+dy, z0+dz) }

	return lerp(
		lerp(lerp(c(0, 0, 0), c(1, 0, 0), fx), lerp(c(0, 1, 0), c(1, 1, 0), fx), fy),
		lerp(lerp(c(0, 0, 1), c(1, 0, 1), fx), lerp(c(0, 1, 1), c(1, 1, 1), fx), fy),
		fz,
	)
}

func hash3(x, y, z int) float32 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(z)*2147483647
	h = (h ^ (h >> 13)) * 1274126177
	return float32(h^(h>>16)) / float32(math.MaxUint32)
}

func floorI(v float32) int {
	return int(math.Floor(float64(v)))
}

func clampVec(v fog.Vec3, max float32) fog.Vec3 {
	for i := range v {
		if v[i] > max {
			v[i] = max
		}
	}
	return v
}

func expf(v float32) float32 {
	return float32(math.Exp(float64(v)))
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
)

// Uniform buffer sizes in bytes. Every struct is built from 16-byte
// rows so the layouts hold in WGSL uniform address space without
// implicit padding.
const (
	marchUniformSize      = 224
	blurUniformSize       = 32
	downsampleUniformSize = 16
	upsampleUniformSize   = 48
	reprojectUniformSize  = 48
	blitUniformSize       = 16
	clearUniformSize      = 32

	// lightStride is the byte size of one FogLight in the lights
	// storage buffer.
	lightStride = 64
)

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func putI32(b []byte, off int, v int32) {
	putU32(b, off, uint32(v))
}

func putF32(b []byte, off int, v float32) {
	putU32(b, off, math.Float32bits(v))
}

func putVec4(b []byte, off int, x, y, z, w float32) {
	putF32(b, off, x)
	putF32(b, off+4, y)
	putF32(b, off+8, z)
	putF32(b, off+12, w)
}

// putMat4 writes the matrix as four column vectors, converting the
// row-major host layout to the column-major order mat4x4<f32> loads.
func putMat4(b []byte, off int, m fog.Mat4) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			putF32(b, off+(col*4+row)*4, m[row*4+col])
		}
	}
}

// marchUniformBytes serializes RayMarchParams into the MarchParams
// layout of ray_march.wgsl. Profile fields are normalized the same way
// the CPU reference kernel does, so the shader needs no guards.
func marchUniformBytes(p fog.RayMarchParams, dstW, dstH, depthW, depthH int, additive bool) []byte {
	prof := p.Profile

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

	litMode := float32(0)
	if prof.Lighting != fog.LightingUnlit {
		litMode = 1
	}
	noiseScale, noiseStrength := float32(0), float32(0)
	var scroll fog.Vec3
	if n := prof.Noise; n != nil {
		noiseScale, noiseStrength = n.Scale, n.Strength
		scroll = n.Scroll.Mul(p.Time)
	}
	additiveFlag := float32(0)
	if additive {
		additiveFlag = 1
	}

	buf := make([]byte, marchUniformSize)
	putMat4(buf, 0, p.ViewProj.Invert())
	putVec4(buf, 64, p.CameraPos[0], p.CameraPos[1], p.CameraPos[2], 0)
	putVec4(buf, 80, p.VolumeCenter[0], p.VolumeCenter[1], p.VolumeCenter[2], p.VolumeRadius)
	putVec4(buf, 96, prof.Albedo[0], prof.Albedo[1], prof.Albedo[2], prof.AmbientOpacity)
	putVec4(buf, 112, prof.AmbientColor[0], prof.AmbientColor[1], prof.AmbientColor[2], prof.BrightnessClamp)
	putVec4(buf, 128, stepMin, stepMax, grow, prof.MaxRayLength)
	putVec4(buf, 144, p.Jitter[0], p.Jitter[1], prof.JitterStrength, prof.MieG)
	putVec4(buf, 160, prof.Scattering, prof.Extinction, float32(maxSamples), litMode)
	putVec4(buf, 176, noiseScale, noiseStrength, float32(len(p.Lights)), additiveFlag)
	putVec4(buf, 192, scroll[0], scroll[1], scroll[2], 0)
	putU32(buf, 208, uint32(dstW))
	putU32(buf, 212, uint32(dstH))
	putU32(buf, 216, uint32(depthW))
	putU32(buf, 220, uint32(depthH))
	return buf
}

// lightBytes serializes the gathered lights into the FogLight layout of
// ray_march.wgsl. The buffer always holds at least one stride because
// zero-sized bindings are invalid; the shader never reads past the
// count in the uniform.
func lightBytes(lights []fog.Snapshot) []byte {
	n := len(lights)
	if n == 0 {
		n = 1
	}
	buf := make([]byte, n*lightStride)
	for i := range lights {
		l := &lights[i]
		off := i * lightStride

		directional := float32(0)
		if l.Directional {
			directional = 1
		}
		putVec4(buf, off, l.Position[0], l.Position[1], l.Position[2], directional)
		putVec4(buf, off+16, l.Direction[0], l.Direction[1], l.Direction[2], l.SpotAngle)
		putVec4(buf, off+32, l.Color[0], l.Color[1], l.Color[2], l.Range)
		putVec4(buf, off+48, l.Attenuation[0], l.Attenuation[1], l.Attenuation[2], 0)
	}
	return buf
}

// blurUniformBytes serializes BlurParams into the BlurParams layout of
// blur.wgsl.
func blurUniformBytes(p fog.BlurParams, w, h int) []byte {
	buf := make([]byte, blurUniformSize)
	putU32(buf, 0, uint32(w))
	putU32(buf, 4, uint32(h))
	putF32(buf, 16, float32(p.Radius))
	putF32(buf, 20, p.DepthSigma)
	return buf
}

// downsampleUniformBytes serializes the DownsampleParams layout of
// downsample.wgsl.
func downsampleUniformBytes(dstW, dstH, srcW, srcH int) []byte {
	buf := make([]byte, downsampleUniformSize)
	putU32(buf, 0, uint32(dstW))
	putU32(buf, 4, uint32(dstH))
	putU32(buf, 8, uint32(srcW))
	putU32(buf, 12, uint32(srcH))
	return buf
}

// upsampleUniformBytes serializes UpsampleParams into the
// UpsampleParams layout of upsample.wgsl.
func upsampleUniformBytes(p fog.UpsampleParams, dstW, dstH, lowW, lowH, guideW, guideH int) []byte {
	buf := make([]byte, upsampleUniformSize)
	putU32(buf, 0, uint32(dstW))
	putU32(buf, 4, uint32(dstH))
	putU32(buf, 8, uint32(lowW))
	putU32(buf, 12, uint32(lowH))
	putU32(buf, 16, uint32(guideW))
	putU32(buf, 20, uint32(guideH))
	putF32(buf, 32, p.DepthSigma)
	return buf
}

// reprojectUniformBytes serializes ReprojectParams into the
// ReprojectParams layout of reproject.wgsl.
func reprojectUniformBytes(p fog.ReprojectParams, dstW, dstH, tileW, tileH int) []byte {
	buf := make([]byte, reprojectUniformSize)
	putU32(buf, 0, uint32(dstW))
	putU32(buf, 4, uint32(dstH))
	putU32(buf, 8, uint32(tileW))
	putU32(buf, 12, uint32(tileH))
	putI32(buf, 16, p.JitterX)
	putI32(buf, 20, p.JitterY)
	putI32(buf, 24, p.KernelSize)
	putF32(buf, 32, p.Blend)
	putF32(buf, 36, p.MotionInfluence)
	return buf
}

// blitUniformBytes serializes the BlitParams layout of blit.wgsl.
func blitUniformBytes(w, h int) []byte {
	buf := make([]byte, blitUniformSize)
	putU32(buf, 0, uint32(w))
	putU32(buf, 4, uint32(h))
	return buf
}

// clearUniformBytes serializes the ClearParams layout of clear.wgsl.
func clearUniformBytes(w, h int, c gputypes.Color) []byte {
	buf := make([]byte, clearUniformSize)
	putU32(buf, 0, uint32(w))
	putU32(buf, 4, uint32(h))
	putVec4(buf, 16, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	return buf
}

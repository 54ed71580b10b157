// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// texelStride is the byte size of one texel. Targets are stored as
// tightly packed vec4<f32> storage buffers regardless of the declared
// format; Format records the logical format the host composites into.
const texelStride = 16

// Texture is a render target backed by a device storage buffer.
type Texture struct {
	label  string
	format gputypes.TextureFormat
	width  int
	height int
	buf    hal.Buffer
}

var _ fog.Texture = (*Texture)(nil)

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture format recorded at creation.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label recorded at creation.
func (t *Texture) Label() string { return t.label }

// byteSize returns the storage buffer size for the texture.
func (t *Texture) byteSize() uint64 {
	return uint64(t.width) * uint64(t.height) * texelStride
}

// packTexels serializes RGBA float texels into the little-endian layout
// the shaders index.
func packTexels(texels []float32) []byte {
	buf := make([]byte, len(texels)*4)
	for i, v := range texels {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// unpackTexels deserializes a readback buffer into RGBA float texels.
func unpackTexels(buf []byte) []float32 {
	texels := make([]float32, len(buf)/4)
	for i := range texels {
		texels[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return texels
}

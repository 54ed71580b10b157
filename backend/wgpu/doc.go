// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu is the GPU backend for the fog pipeline, built on the
// gogpu/wgpu Pure Go HAL.
//
// Fog programs are WGSL compute shaders compiled on first use and
// cached for the life of the device. Textures are storage buffers of
// packed vec4 texels rather than sampled images, so every pass is a
// plain compute dispatch with one thread per target texel and the
// implicit barriers between passes give the pipeline its in-order
// execution guarantee. A frame records into a single command buffer
// and Finish performs the one submit and fence wait.
//
// The backend registers itself on import:
//
//	import _ "github.com/gogpu/fog/backend/wgpu"
//
// Building with the nogpu tag compiles the package empty, leaving only
// the soft backend registered.
package wgpu

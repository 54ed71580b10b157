// Package backend registers and selects fog pipeline backends.
//
// Backends register themselves on import:
//
//	import _ "github.com/gogpu/fog/backend/soft" // CPU reference
//	import _ "github.com/gogpu/fog/backend/wgpu" // GPU via gogpu/wgpu
//
// Select one explicitly with Get, or let Default pick the best
// registered backend (GPU first, CPU fallback).
package backend

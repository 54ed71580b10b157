// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/fog"
)

// Embedded WGSL shader sources, one file per fog program. The bilateral
// file carries all four resampling entry points.

//go:embed shaders/ray_march.wgsl
var rayMarchShaderWGSL string

//go:embed shaders/blur.wgsl
var blurShaderWGSL string

//go:embed shaders/downsample.wgsl
var downsampleShaderWGSL string

//go:embed shaders/upsample.wgsl
var upsampleShaderWGSL string

//go:embed shaders/reproject.wgsl
var reprojectShaderWGSL string

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

//go:embed shaders/clear.wgsl
var clearShaderWGSL string

// passKey identifies one compute entry point. Clear and Copy use
// synthetic kinds outside the fog.ProgramKind range.
type passKey struct {
	kind fog.ProgramKind
	pass int
}

// kindClear is the synthetic program kind for the clear pass.
const kindClear fog.ProgramKind = -1

// passSpec describes one compute entry point: which WGSL source and
// entry name to compile, and how many read-only storage inputs sit
// between the uniform at binding 0 and the writable target at the last
// binding. shader names the source file stem so entry points sharing a
// file share one compiled module.
type passSpec struct {
	shader string
	label  string
	source string
	entry  string
	inputs int
}

// specFor resolves the pass table. The binding layout is always
// uniform, inputs..., destination, matching the @binding annotations in
// the WGSL sources.
func specFor(key passKey) (passSpec, error) {
	switch key.kind {
	case fog.ProgramRayMarch:
		// Lights and the depth guide both bind as read-only storage.
		return passSpec{"fog_ray_march", "fog_ray_march", rayMarchShaderWGSL, "cs_ray_march", 2}, nil
	case fog.ProgramBilateral:
		switch key.pass {
		case fog.BilateralPassBlurH:
			return passSpec{"fog_blur", "fog_blur_h", blurShaderWGSL, "cs_blur_h", 2}, nil
		case fog.BilateralPassBlurV:
			return passSpec{"fog_blur", "fog_blur_v", blurShaderWGSL, "cs_blur_v", 2}, nil
		case fog.BilateralPassDownsample:
			return passSpec{"fog_downsample", "fog_downsample", downsampleShaderWGSL, "cs_downsample", 1}, nil
		case fog.BilateralPassUpsample:
			return passSpec{"fog_upsample", "fog_upsample", upsampleShaderWGSL, "cs_upsample", 3}, nil
		}
	case fog.ProgramReproject:
		return passSpec{"fog_reproject", "fog_reproject", reprojectShaderWGSL, "cs_reproject", 2}, nil
	case fog.ProgramBlit:
		return passSpec{"fog_blit", "fog_blit", blitShaderWGSL, "cs_blit", 2}, nil
	case kindClear:
		return passSpec{"fog_clear", "fog_clear", clearShaderWGSL, "cs_clear", 0}, nil
	}
	return passSpec{}, fmt.Errorf("wgpu: no shader for program %v pass %d", key.kind, key.pass)
}

// workgroups rounds a texel extent up to 8x8 workgroup counts, matching
// the @workgroup_size annotation in every shader.
func workgroups(w, h int) (uint32, uint32) {
	return (uint32(w) + 7) / 8, (uint32(h) + 7) / 8
}

// Package fog renders volumetric fog as an ordered sequence of render
// passes composited over a host camera's output.
//
// # Overview
//
// fog is a Pure Go volumetric fog pipeline designed to integrate with
// the GoGPU ecosystem. A host renderer registers fog volumes, then
// drives the pipeline once per camera per frame; the pipeline culls
// volumes and lights, ray-marches the survivors at a configurable
// resolution, optionally accumulates results across frames, and
// composites the fog over the scene color.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/fog"
//		"github.com/gogpu/fog/backend/soft"
//	)
//
//	backend := soft.New()
//	p, err := fog.NewPipeline(backend, fog.WithMode(fog.ModeHalf))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Dispose()
//
//	p.Registry().Add(fog.NewVolume(fog.Vec3{0, 2, -10}, 5, nil))
//
//	// Once per camera per frame:
//	err = p.RenderFrame(&fog.Frame{
//		Camera:     cam,
//		SceneColor: color,
//		SceneDepth: depth,
//		Lights:     lights,
//		MainLight:  0,
//		Shadows:    fog.NoShadows,
//	})
//
// # Architecture
//
// The pipeline runs a fixed stage order each frame:
//   - Resolution resolve: the configured mode, forced to full when
//     temporal accumulation is on
//   - Target acquisition: per-frame textures from the backend pool,
//     released symmetrically on every exit path
//   - Depth downsample: point-sampled half and quarter depth copies
//   - Gather: frustum culling of volumes, range culling and distance
//     ordering of lights, shadow slot resolution
//   - Ray-march: one additive draw per visible volume
//   - Temporal reprojection: jittered low-resolution accumulation
//     against a persistent history buffer
//   - Bilateral blur and upsample: depth-aware filtering back to the
//     camera resolution
//   - Composite: fog added over the scene color
//
// Backends live in backend/: soft is a CPU reference implementation,
// wgpu records the same stages onto a GPU command stream.
//
// # Resolution Modes
//
// ModeFull marches every pixel. ModeHalf and ModeQuarter march a
// reduced grid and upsample with a depth-aware filter, trading sharp
// silhouettes for a large cost reduction. Enabling temporal
// accumulation overrides the mode to full: the cost reduction then
// comes from marching a jittered fraction of pixels each frame
// instead.
//
// # Concurrency
//
// A Pipeline serves one camera at a time; Setup, Execute and Cleanup
// must not run concurrently. The volume Registry and the package
// logger are safe for concurrent use.
package fog

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)

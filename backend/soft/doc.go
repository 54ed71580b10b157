// Package soft is the CPU reference backend for the fog pipeline.
//
// Every program the pipeline records runs immediately on the CPU over
// float32 RGBA planes: the ray-march integrates real rays against the
// volume sphere, the bilateral passes run the internal/bilateral
// kernels, and reprojection blends jittered tiles into the history
// exactly as the GPU shaders do. The backend exists for tests, for
// headless tools, and as the executable definition of what each
// program computes.
//
// The backend registers itself on import:
//
//	import _ "github.com/gogpu/fog/backend/soft"
package soft

// Package bilateral implements the CPU kernels for the depth-aware
// fog filters:
//   - Point-sampled depth downsampling (half and quarter resolution)
//   - Separable depth-weighted blur (horizontal and vertical passes)
//   - Depth-guided upsampling back to camera resolution
//
// All kernels operate on tightly packed float32 RGBA planes. Depth
// planes carry the depth value in the R channel; the other channels
// are ignored. Weights blend a spatial Gaussian with a depth range
// term so fog never bleeds across geometry silhouettes.
package bilateral

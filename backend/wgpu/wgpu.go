// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Backend runs the fog programs as compute shaders on the gogpu HAL.
// Textures are storage buffers of packed vec4 texels and every program
// is a compute pass writing one texel per thread, so the whole frame
// records into one command buffer and needs one submit.
type Backend struct {
	// instance is non-nil only when the backend opened the device
	// itself; a nil instance marks a shared device that Close must
	// leave open.
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pool      *pool
	pipelines *pipelineCache
}

var _ fog.Backend = (*Backend)(nil)

// init registers the backend on package import. Construction fails
// cleanly on machines without a usable adapter, so backend.Default
// falls through to the soft backend there.
func init() {
	backend.Register(backend.BackendWGPU, func() (fog.Backend, error) {
		return New()
	})
}

// New opens a GPU adapter, preferring discrete over integrated, and
// builds a backend that owns the device.
func New() (*Backend, error) {
	instance, device, queue, name, err := openDevice()
	if err != nil {
		return nil, err
	}
	fog.Logger().Info("wgpu: backend ready", "adapter", name)
	return newBackend(instance, device, queue), nil
}

// NewWithProvider builds a backend on a device owned by the host
// application, such as a renderer already driving the GPU. The
// provider either implements gpucontext.DeviceProvider or exposes
// HalDevice() any and HalQueue() any; the handles must be HAL types.
// Close leaves the shared device open.
func NewWithProvider(provider any) (*Backend, error) {
	device, queue, err := extractDevice(provider)
	if err != nil {
		return nil, err
	}
	return newBackend(nil, device, queue), nil
}

func newBackend(instance hal.Instance, device hal.Device, queue hal.Queue) *Backend {
	return &Backend{
		instance:  instance,
		device:    device,
		queue:     queue,
		pool:      newPool(device),
		pipelines: newPipelineCache(device),
	}
}

// Pool returns the backend's recycling texture pool.
func (b *Backend) Pool() fog.TargetPool { return b.pool }

// Programs returns the compute program library.
func (b *Backend) Programs() fog.ProgramLibrary { return library{} }

// BeginFrame opens an encoder recording into one HAL command buffer.
func (b *Backend) BeginFrame(label string) (fog.CommandEncoder, error) {
	return newEncoder(b, label)
}

// Outstanding returns the number of pool textures currently acquired
// and not yet released. Zero between frames when the pipeline's
// acquire and release stayed symmetric.
func (b *Backend) Outstanding() int { return b.pool.outstanding() }

// PipelineStats reports compiled-pass cache activity.
type PipelineStats struct {
	Passes    int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns the compiled-pass cache counters.
func (b *Backend) Stats() PipelineStats {
	s := b.pipelines.stats()
	return PipelineStats{Passes: s.Len, Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions}
}

// NewTarget allocates a device texture outside the pool, for scene
// color and depth inputs the host uploads each frame. Destroy it with
// DestroyTarget when done.
func (b *Backend) NewTarget(label string, width, height int, format gputypes.TextureFormat) (*Texture, error) {
	return b.pool.create(fog.TargetDesc{Label: label, Width: width, Height: height, Format: format})
}

// DestroyTarget frees a texture created with NewTarget. Pool textures
// go back through Pool().Release instead.
func (b *Backend) DestroyTarget(t *Texture) {
	if t == nil || t.buf == nil {
		return
	}
	b.device.DestroyBuffer(t.buf)
	t.buf = nil
}

// WriteTexture uploads host texels into a texture. texels holds four
// float32 channels per texel, row-major, exactly width*height*4 long.
// Depth textures carry linear camera distance in the first channel.
func (b *Backend) WriteTexture(t *Texture, texels []float32) error {
	if want := t.width * t.height * 4; len(texels) != want {
		return fmt.Errorf("wgpu: write %q: %d floats, want %d", t.label, len(texels), want)
	}
	b.queue.WriteBuffer(t.buf, 0, packTexels(texels))
	return nil
}

// ReadTexture downloads a texture through a transient staging buffer,
// blocking until the copy completes. The layout matches WriteTexture.
func (b *Backend) ReadTexture(t *Texture) ([]float32, error) {
	size := t.byteSize()
	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: t.label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(staging)

	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "fog_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create readback encoder: %w", err)
	}
	if err := enc.BeginEncoding("fog_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin readback: %w", err)
	}
	enc.CopyBufferToBuffer(t.buf, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end readback: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("wgpu: submit readback: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, submitTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wgpu: wait for readback: ok=%v err=%w", ok, err)
	}

	raw := make([]byte, size)
	if err := b.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("wgpu: readback %q: %w", t.label, err)
	}
	return unpackTexels(raw), nil
}

// Close destroys compiled pipelines, pooled textures and, when the
// backend owns the device, the device and instance. Shared devices
// from NewWithProvider stay open.
func (b *Backend) Close() {
	b.pipelines.close()
	b.pool.destroy()
	if b.instance != nil {
		if b.device != nil {
			b.device.Destroy()
		}
		b.instance.Destroy()
		b.instance = nil
	}
	b.device = nil
	b.queue = nil
}

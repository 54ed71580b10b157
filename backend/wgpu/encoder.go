// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Encoder errors.
var (
	// ErrForeignTexture is returned when a command references a texture
	// that was not created by this backend.
	ErrForeignTexture = errors.New("wgpu: texture from another backend")

	// ErrSizeMismatch is returned when a copy joins two differently
	// sized textures.
	ErrSizeMismatch = errors.New("wgpu: texture size mismatch")

	errEncoderDone = errors.New("wgpu: encoder already finished")
)

// submitTimeout bounds the fence wait after a frame submit.
const submitTimeout = 5 * time.Second

// binding pairs a storage buffer with its bound byte size.
type binding struct {
	buf  hal.Buffer
	size uint64
}

// encoder records compute passes into a HAL command encoder as the
// pipeline issues them and submits the lot as one command buffer on
// Finish. Passes touching the same storage buffer are ordered by the
// implicit barriers between compute passes, so a frame costs exactly
// one submit and one fence wait.
//
// Uniform and light buffers and bind groups created during recording
// are frame-transient; Finish and Discard destroy them.
type encoder struct {
	backend *Backend
	label   string
	enc     hal.CommandEncoder
	done    bool

	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

var _ fog.CommandEncoder = (*encoder)(nil)

func newEncoder(b *Backend, label string) (*encoder, error) {
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding %s: %w", label, err)
	}
	return &encoder{backend: b, label: label, enc: enc}, nil
}

// Clear runs as a compute pass rather than a queue-level fill so it
// keeps its place in the frame's command order.
func (e *encoder) Clear(dst fog.Texture, c gputypes.Color) error {
	t, err := unwrap(dst)
	if err != nil {
		return err
	}
	return e.dispatch(passKey{kindClear, 0}, clearUniformBytes(t.width, t.height, c), nil, t)
}

func (e *encoder) Copy(src, dst fog.Texture) error {
	s, err := unwrap(src)
	if err != nil {
		return err
	}
	d, err := unwrap(dst)
	if err != nil {
		return err
	}
	if s.width != d.width || s.height != d.height {
		return fmt.Errorf("%w: copy %dx%d to %dx%d", ErrSizeMismatch, s.width, s.height, d.width, d.height)
	}
	if e.done {
		return errEncoderDone
	}
	e.enc.CopyBufferToBuffer(s.buf, d.buf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: d.byteSize()},
	})
	return nil
}

func (e *encoder) Draw(call fog.DrawCall) error {
	dst, err := unwrap(call.Target)
	if err != nil {
		return err
	}

	switch call.Program.Kind() {
	case fog.ProgramBilateral:
		return e.drawBilateral(dst, call)
	case fog.ProgramRayMarch:
		params, ok := call.Params.(fog.RayMarchParams)
		if !ok {
			return fmt.Errorf("wgpu: ray-march params are %T", call.Params)
		}
		if params.VolumeRadius <= 0 {
			return nil
		}
		depth, err := input(call, 0)
		if err != nil {
			return err
		}
		lights, err := e.transientStorage("fog_lights", lightBytes(params.Lights))
		if err != nil {
			return err
		}
		uniform := marchUniformBytes(params, dst.width, dst.height, depth.width, depth.height,
			call.Blend == fog.BlendAdditive)
		return e.dispatch(passKey{fog.ProgramRayMarch, 0}, uniform,
			[]binding{lights, texBinding(depth)}, dst)
	case fog.ProgramReproject:
		params, ok := call.Params.(fog.ReprojectParams)
		if !ok {
			return fmt.Errorf("wgpu: reproject params are %T", call.Params)
		}
		tile, err := input(call, 0)
		if err != nil {
			return err
		}
		history, err := input(call, 1)
		if err != nil {
			return err
		}
		uniform := reprojectUniformBytes(params, dst.width, dst.height, tile.width, tile.height)
		return e.dispatch(passKey{fog.ProgramReproject, 0}, uniform,
			[]binding{texBinding(tile), texBinding(history)}, dst)
	case fog.ProgramBlit:
		base, err := input(call, 0)
		if err != nil {
			return err
		}
		fogTex, err := input(call, 1)
		if err != nil {
			return err
		}
		return e.dispatch(passKey{fog.ProgramBlit, 0}, blitUniformBytes(dst.width, dst.height),
			[]binding{texBinding(base), texBinding(fogTex)}, dst)
	default:
		return fmt.Errorf("wgpu: unknown program kind %v", call.Program.Kind())
	}
}

func (e *encoder) drawBilateral(dst *Texture, call fog.DrawCall) error {
	switch call.Pass {
	case fog.BilateralPassBlurH, fog.BilateralPassBlurV:
		params, ok := call.Params.(fog.BlurParams)
		if !ok {
			return fmt.Errorf("wgpu: blur params are %T", call.Params)
		}
		src, err := input(call, 0)
		if err != nil {
			return err
		}
		depth, err := input(call, 1)
		if err != nil {
			return err
		}
		return e.dispatch(passKey{fog.ProgramBilateral, call.Pass},
			blurUniformBytes(params, dst.width, dst.height),
			[]binding{texBinding(src), texBinding(depth)}, dst)
	case fog.BilateralPassDownsample:
		src, err := input(call, 0)
		if err != nil {
			return err
		}
		return e.dispatch(passKey{fog.ProgramBilateral, call.Pass},
			downsampleUniformBytes(dst.width, dst.height, src.width, src.height),
			[]binding{texBinding(src)}, dst)
	case fog.BilateralPassUpsample:
		params, ok := call.Params.(fog.UpsampleParams)
		if !ok {
			return fmt.Errorf("wgpu: upsample params are %T", call.Params)
		}
		lowFog, err := input(call, 0)
		if err != nil {
			return err
		}
		lowDepth, err := input(call, 1)
		if err != nil {
			return err
		}
		highDepth, err := input(call, 2)
		if err != nil {
			return err
		}
		uniform := upsampleUniformBytes(params, dst.width, dst.height,
			lowFog.width, lowFog.height, highDepth.width, highDepth.height)
		return e.dispatch(passKey{fog.ProgramBilateral, call.Pass}, uniform,
			[]binding{texBinding(lowFog), texBinding(lowDepth), texBinding(highDepth)}, dst)
	default:
		return fmt.Errorf("wgpu: unknown bilateral pass %d", call.Pass)
	}
}

// dispatch records one compute pass: upload the uniform, bind
// uniform/inputs/target per the pass layout, and launch one thread per
// target texel.
func (e *encoder) dispatch(key passKey, uniform []byte, inputs []binding, dst *Texture) error {
	if e.done {
		return errEncoderDone
	}
	compiled, err := e.backend.pipelines.pass(key)
	if err != nil {
		return err
	}
	spec, err := specFor(key)
	if err != nil {
		return err
	}

	ub, err := e.transient(spec.label+"_params", uniform,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	entries := make([]gputypes.BindGroupEntry, 0, len(inputs)+2)
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(uniform))},
	})
	for i, in := range inputs {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i + 1),
			Resource: gputypes.BufferBinding{Buffer: in.buf.NativeHandle(), Offset: 0, Size: in.size},
		})
	}
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  uint32(len(inputs) + 1),
		Resource: gputypes.BufferBinding{Buffer: dst.buf.NativeHandle(), Offset: 0, Size: dst.byteSize()},
	})

	bg, err := e.backend.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   spec.label + "_bind",
		Layout:  compiled.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group for %s: %w", spec.label, err)
	}
	e.bindGroups = append(e.bindGroups, bg)

	pass := e.enc.BeginComputePass(&hal.ComputePassDescriptor{Label: spec.label})
	pass.SetPipeline(compiled.pipeline)
	pass.SetBindGroup(0, bg, nil)
	gx, gy := workgroups(dst.width, dst.height)
	pass.Dispatch(gx, gy, 1)
	pass.End()
	return nil
}

// transientStorage uploads data into a storage buffer that lives until
// the frame's fence signals.
func (e *encoder) transientStorage(label string, data []byte) (binding, error) {
	buf, err := e.transient(label, data, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return binding{}, err
	}
	return binding{buf: buf, size: uint64(len(data))}, nil
}

func (e *encoder) transient(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := e.backend.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s buffer: %w", label, err)
	}
	e.buffers = append(e.buffers, buf)
	e.backend.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Finish submits the recorded passes and blocks until the fence
// signals. The pipeline records a whole camera frame before calling
// Finish, so the wait happens once per frame.
func (e *encoder) Finish() error {
	if e.done {
		return errEncoderDone
	}
	e.done = true
	defer e.cleanup()

	cmdBuf, err := e.enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding %s: %w", e.label, err)
	}
	defer e.backend.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.backend.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer e.backend.device.DestroyFence(fence)

	if err := e.backend.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit %s: %w", e.label, err)
	}
	ok, err := e.backend.device.Wait(fence, 1, submitTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wgpu: wait for %s: ok=%v err=%w", e.label, ok, err)
	}
	return nil
}

func (e *encoder) Discard() {
	if e.done {
		return
	}
	e.done = true
	e.enc.DiscardEncoding()
	e.cleanup()
}

// cleanup destroys the frame's transient bind groups and buffers.
func (e *encoder) cleanup() {
	for _, bg := range e.bindGroups {
		e.backend.device.DestroyBindGroup(bg)
	}
	for _, buf := range e.buffers {
		e.backend.device.DestroyBuffer(buf)
	}
	e.bindGroups = nil
	e.buffers = nil
}

func texBinding(t *Texture) binding {
	return binding{buf: t.buf, size: t.byteSize()}
}

// unwrap recovers a backend texture.
func unwrap(t fog.Texture) (*Texture, error) {
	wt, ok := t.(*Texture)
	if !ok || wt == nil {
		return nil, ErrForeignTexture
	}
	return wt, nil
}

// input unwraps input i of a draw call.
func input(call fog.DrawCall, i int) (*Texture, error) {
	if i >= len(call.Inputs) {
		return nil, fmt.Errorf("wgpu: %s pass %d: missing input %d", call.Program.Name(), call.Pass, i)
	}
	return unwrap(call.Inputs[i])
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

type poolKey struct {
	w, h   int
	format gputypes.TextureFormat
}

// pool recycles storage-buffer textures by size and format. Released
// textures go to a free list and come back with stale contents; the
// pipeline clears targets before drawing into them.
type pool struct {
	mu       sync.Mutex
	device   hal.Device
	free     map[poolKey][]*Texture
	acquired int
	released int
}

var _ fog.TargetPool = (*pool)(nil)

func newPool(device hal.Device) *pool {
	return &pool{device: device, free: make(map[poolKey][]*Texture)}
}

func (p *pool) Acquire(desc fog.TargetDesc) (fog.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("wgpu: acquire %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := poolKey{desc.Width, desc.Height, desc.Format}
	if list := p.free[key]; len(list) > 0 {
		t := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		t.label = desc.Label
		p.acquired++
		return t, nil
	}

	t, err := p.create(desc)
	if err != nil {
		return nil, err
	}
	p.acquired++
	return t, nil
}

func (p *pool) Release(t fog.Texture) {
	wt, ok := t.(*Texture)
	if !ok || wt == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++

	key := poolKey{wt.width, wt.height, wt.format}
	p.free[key] = append(p.free[key], wt)
}

// create allocates a device buffer sized for the target. CopySrc and
// CopyDst cover the history copy and the readback path.
func (p *pool) create(desc fog.TargetDesc) (*Texture, error) {
	t := &Texture{
		label:  desc.Label,
		format: desc.Format,
		width:  desc.Width,
		height: desc.Height,
	}
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  t.byteSize(),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: acquire %q: %w", desc.Label, err)
	}
	t.buf = buf
	return t, nil
}

// outstanding returns acquired minus released.
func (p *pool) outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired - p.released
}

// destroy frees every pooled buffer. Outstanding textures stay alive
// until released; callers drain frames before closing the backend.
func (p *pool) destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, list := range p.free {
		for _, t := range list {
			if t.buf != nil {
				p.device.DestroyBuffer(t.buf)
				t.buf = nil
			}
		}
		delete(p.free, key)
	}
}

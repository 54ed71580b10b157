// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/internal/cache"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// passCacheLimit bounds the compiled pass cache. The fog pipeline needs
// eight entry points, so eviction only fires if the program set grows.
const passCacheLimit = 16

// compiledPass bundles the device objects for one compute entry point.
// The shader module is shared between passes of one source file and
// owned by the cache's module table, not the pass.
type compiledPass struct {
	pipeline   hal.ComputePipeline
	layout     hal.PipelineLayout
	bindLayout hal.BindGroupLayout
}

// pipelineCache builds the compute pipeline for each entry point on
// first dispatch. Pipeline creation is expensive, so compiled passes
// persist across frames.
type pipelineCache struct {
	device hal.Device

	mu      sync.Mutex
	modules map[string]hal.ShaderModule

	passes *cache.Cache[passKey, *compiledPass]
}

func newPipelineCache(device hal.Device) *pipelineCache {
	c := &pipelineCache{
		device:  device,
		modules: make(map[string]hal.ShaderModule),
	}
	c.passes = cache.New[passKey, *compiledPass](passCacheLimit, func(_ passKey, p *compiledPass) {
		c.destroyPass(p)
	})
	return c
}

// pass returns the compiled pipeline for key, building it on a miss.
func (c *pipelineCache) pass(key passKey) (*compiledPass, error) {
	return c.passes.GetOrCreate(key, func() (*compiledPass, error) {
		return c.compile(key)
	})
}

func (c *pipelineCache) compile(key passKey) (*compiledPass, error) {
	spec, err := specFor(key)
	if err != nil {
		return nil, err
	}

	module, err := c.ensureModule(spec)
	if err != nil {
		return nil, err
	}

	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   spec.label + "_bgl",
		Entries: layoutEntries(spec.inputs),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group layout for %s: %w", spec.label, err)
	}

	layout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            spec.label + "_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		c.device.DestroyBindGroupLayout(bindLayout)
		return nil, fmt.Errorf("wgpu: create pipeline layout for %s: %w", spec.label, err)
	}

	pipeline, err := c.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  spec.label,
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: spec.entry,
		},
	})
	if err != nil {
		c.device.DestroyPipelineLayout(layout)
		c.device.DestroyBindGroupLayout(bindLayout)
		return nil, fmt.Errorf("wgpu: create compute pipeline for %s: %w", spec.label, err)
	}

	fog.Logger().Debug("wgpu: pipeline compiled",
		"pass", spec.label,
		"entry", spec.entry)

	return &compiledPass{
		pipeline:   pipeline,
		layout:     layout,
		bindLayout: bindLayout,
	}, nil
}

// ensureModule creates the shader module once per source file and
// reuses it for every entry point in it. The HAL compiles the WGSL;
// shader tests cross-check the sources against naga.
func (c *pipelineCache) ensureModule(spec passSpec) (hal.ShaderModule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.modules[spec.shader]; ok {
		return m, nil
	}

	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  spec.shader,
		Source: hal.ShaderSource{WGSL: spec.source},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module %s: %w", spec.shader, err)
	}
	c.modules[spec.shader] = module

	fog.Logger().Debug("wgpu: shader module created", "shader", spec.shader)
	return module, nil
}

// layoutEntries builds the fixed binding layout: a uniform at 0, the
// read-only inputs, then the writable destination.
func layoutEntries(inputs int) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, inputs+2)
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	})
	for i := 0; i < inputs; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i + 1),
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		})
	}
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    uint32(inputs + 1),
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
	})
	return entries
}

func (c *pipelineCache) destroyPass(p *compiledPass) {
	if p == nil {
		return
	}
	if p.pipeline != nil {
		c.device.DestroyComputePipeline(p.pipeline)
	}
	if p.layout != nil {
		c.device.DestroyPipelineLayout(p.layout)
	}
	if p.bindLayout != nil {
		c.device.DestroyBindGroupLayout(p.bindLayout)
	}
}

// stats exposes the pass cache counters.
func (c *pipelineCache) stats() cache.Stats {
	return c.passes.Stats()
}

// close destroys every compiled pass and shader module.
func (c *pipelineCache) close() {
	c.passes.Clear()

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, m := range c.modules {
		c.device.DestroyShaderModule(m)
		delete(c.modules, name)
	}
}

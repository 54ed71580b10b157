// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// openDevice initializes a HAL device on the Vulkan backend, preferring
// discrete then integrated adapters. The returned instance is owned by
// the caller and must outlive the device.
func openDevice() (hal.Instance, hal.Device, hal.Queue, string, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, nil, nil, "", fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, "", fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, "", fmt.Errorf("wgpu: open device: %w", err)
	}
	return instance, openDev.Device, openDev.Queue, selected.Info.Name, nil
}

// extractDevice pulls HAL handles from a shared device provider, such
// as a host application already driving the GPU. Two provider shapes
// are recognized: gpucontext.DeviceProvider, the standard integration
// interface host frameworks implement, and anything exposing
// HalDevice() any and HalQueue() any directly. In both cases the
// underlying handles must be hal.Device and hal.Queue.
func extractDevice(provider any) (hal.Device, hal.Queue, error) {
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		device, ok := dp.Device().(hal.Device)
		if !ok || device == nil {
			return nil, nil, fmt.Errorf("wgpu: provider device is not hal.Device")
		}
		queue, ok := dp.Queue().(hal.Queue)
		if !ok || queue == nil {
			return nil, nil, fmt.Errorf("wgpu: provider queue is not hal.Queue")
		}
		return device, queue, nil
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import "github.com/gogpu/fog"

// program is a descriptor; pipelines compile lazily on first dispatch
// through the backend's pipeline cache.
type program struct {
	kind fog.ProgramKind
}

var _ fog.Program = (*program)(nil)

func (p *program) Kind() fog.ProgramKind { return p.kind }
func (p *program) Name() string          { return "wgpu/" + p.kind.String() }

// library registers one compute program per kind.
type library struct{}

var _ fog.ProgramLibrary = library{}

func (library) Program(kind fog.ProgramKind) (fog.Program, bool) {
	switch kind {
	case fog.ProgramRayMarch, fog.ProgramBilateral, fog.ProgramReproject, fog.ProgramBlit:
		return &program{kind: kind}, true
	default:
		return nil, false
	}
}

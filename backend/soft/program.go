package soft

import "github.com/gogpu/fog"

// program is a descriptor; execution happens in the encoder, which
// dispatches on the kind.
type program struct {
	kind fog.ProgramKind
}

var _ fog.Program = (*program)(nil)

func (p *program) Kind() fog.ProgramKind { return p.kind }
func (p *program) Name() string          { return "soft/" + p.kind.String() }

// library registers one CPU program per kind.
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

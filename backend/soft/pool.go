package soft

import (
	"fmt"
	"sync"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
)

type poolKey struct {
	w, h   int
	format gputypes.TextureFormat
}

// pool recycles textures by size and format. Released textures go to a
// free list and come back zeroed on the next matching acquire.
type pool struct {
	mu       sync.Mutex
	free     map[poolKey][]*Texture
	acquired int
	released int
}

var _ fog.TargetPool = (*pool)(nil)

func newPool() *pool {
	return &pool{free: make(map[poolKey][]*Texture)}
}

func (p *pool) Acquire(desc fog.TargetDesc) (fog.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("soft: acquire %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++

	key := poolKey{desc.Width, desc.Height, desc.Format}
	if list := p.free[key]; len(list) > 0 {
		t := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		t.label = desc.Label
		t.plane.Fill(0, 0, 0, 0)
		return t, nil
	}
	return NewTexture(desc), nil
}

func (p *pool) Release(t fog.Texture) {
	st, ok := t.(*Texture)
	if !ok || st == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++

	key := poolKey{st.plane.W, st.plane.H, st.format}
	p.free[key] = append(p.free[key], st)
}

// outstanding returns acquired minus released.
func (p *pool) outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired - p.released
}

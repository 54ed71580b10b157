package bilateral

// Plane is a tightly packed float32 RGBA image: four floats per pixel,
// row-major. Depth planes store depth in R and leave GBA unused.
type Plane struct {
	Pix []float32
	W   int
	H   int
}

// NewPlane allocates a zeroed plane of the given size.
func NewPlane(w, h int) *Plane {
	return &Plane{Pix: make([]float32, w*h*4), W: w, H: h}
}

// At returns the RGBA value at (x, y). Coordinates are clamped to the
// plane bounds, giving edge extension at the borders.
func (p *Plane) At(x, y int) (r, g, b, a float32) {
	i := p.index(clampInt(x, 0, p.W-1), clampInt(y, 0, p.H-1))
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]
}

// Depth returns the R channel at (x, y) with clamped coordinates.
func (p *Plane) Depth(x, y int) float32 {
	return p.Pix[p.index(clampInt(x, 0, p.W-1), clampInt(y, 0, p.H-1))]
}

// Set writes the RGBA value at (x, y). Out-of-bounds writes are
// discarded.
func (p *Plane) Set(x, y int, r, g, b, a float32) {
	if x < 0 || x >= p.W || y < 0 || y >= p.H {
		return
	}
	i := p.index(x, y)
	p.Pix[i] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
	p.Pix[i+3] = a
}

// Fill sets every pixel to the given RGBA value.
func (p *Plane) Fill(r, g, b, a float32) {
	for i := 0; i < len(p.Pix); i += 4 {
		p.Pix[i] = r
		p.Pix[i+1] = g
		p.Pix[i+2] = b
		p.Pix[i+3] = a
	}
}

// CopyFrom copies src into p. Both planes must have identical
// dimensions; mismatched copies are ignored.
func (p *Plane) CopyFrom(src *Plane) {
	if src == nil || src.W != p.W || src.H != p.H {
		return
	}
	copy(p.Pix, src.Pix)
}

func (p *Plane) index(x, y int) int {
	return (y*p.W + x) * 4
}

// clampInt clamps v to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

package soft

import (
	"errors"
	"fmt"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/internal/bilateral"
	"github.com/gogpu/gputypes"
)

// Encoder errors.
var (
	// ErrForeignTexture is returned when a draw references a texture
	// that was not created by this backend.
	ErrForeignTexture = errors.New("soft: texture from another backend")

	// ErrSizeMismatch is returned when a copy joins two differently
	// sized textures.
	ErrSizeMismatch = errors.New("soft: texture size mismatch")
)

// encoder executes commands immediately on the CPU. Finish is a
// checkpoint rather than a submit, and Discard only marks the frame
// abandoned; work already executed is not rolled back.
type encoder struct {
	label     string
	discarded bool
}

var _ fog.CommandEncoder = (*encoder)(nil)

func (e *encoder) Clear(dst fog.Texture, c gputypes.Color) error {
	t, err := plane(dst)
	if err != nil {
		return err
	}
	t.Fill(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	return nil
}

func (e *encoder) Copy(src, dst fog.Texture) error {
	s, err := plane(src)
	if err != nil {
		return err
	}
	d, err := plane(dst)
	if err != nil {
		return err
	}
	if s.W != d.W || s.H != d.H {
		return fmt.Errorf("%w: copy %dx%d to %dx%d", ErrSizeMismatch, s.W, s.H, d.W, d.H)
	}
	d.CopyFrom(s)
	return nil
}

func (e *encoder) Draw(call fog.DrawCall) error {
	dst, err := plane(call.Target)
	if err != nil {
		return err
	}

	switch call.Program.Kind() {
	case fog.ProgramBilateral:
		return e.drawBilateral(dst, call)
	case fog.ProgramRayMarch:
		params, ok := call.Params.(fog.RayMarchParams)
		if !ok {
			return fmt.Errorf("soft: ray-march params are %T", call.Params)
		}
		depth, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		rayMarch(dst, depth, params, call.Blend == fog.BlendAdditive)
		return nil
	case fog.ProgramReproject:
		params, ok := call.Params.(fog.ReprojectParams)
		if !ok {
			return fmt.Errorf("soft: reproject params are %T", call.Params)
		}
		tile, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		history, err := inputPlane(call, 1)
		if err != nil {
			return err
		}
		reproject(dst, tile, history, params)
		return nil
	case fog.ProgramBlit:
		base, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		fogPlane, err := inputPlane(call, 1)
		if err != nil {
			return err
		}
		blitAdd(dst, base, fogPlane)
		return nil
	default:
		return fmt.Errorf("soft: unknown program kind %v", call.Program.Kind())
	}
}

func (e *encoder) drawBilateral(dst *bilateral.Plane, call fog.DrawCall) error {
	switch call.Pass {
	case fog.BilateralPassBlurH, fog.BilateralPassBlurV:
		params, ok := call.Params.(fog.BlurParams)
		if !ok {
			return fmt.Errorf("soft: blur params are %T", call.Params)
		}
		src, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		depth, err := inputPlane(call, 1)
		if err != nil {
			return err
		}
		if call.Pass == fog.BilateralPassBlurH {
			bilateral.BlurH(dst, src, depth, int(params.Radius), params.DepthSigma)
		} else {
			bilateral.BlurV(dst, src, depth, int(params.Radius), params.DepthSigma)
		}
		return nil
	case fog.BilateralPassDownsample:
		src, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		bilateral.DownsamplePoint(dst, src)
		return nil
	case fog.BilateralPassUpsample:
		params, ok := call.Params.(fog.UpsampleParams)
		if !ok {
			return fmt.Errorf("soft: upsample params are %T", call.Params)
		}
		lowFog, err := inputPlane(call, 0)
		if err != nil {
			return err
		}
		lowDepth, err := inputPlane(call, 1)
		if err != nil {
			return err
		}
		highDepth, err := inputPlane(call, 2)
		if err != nil {
			return err
		}
		bilateral.Upsample(dst, lowFog, lowDepth, highDepth, params.DepthSigma)
		return nil
	default:
		return fmt.Errorf("soft: unknown bilateral pass %d", call.Pass)
	}
}

func (e *encoder) Finish() error {
	if e.discarded {
		return errors.New("soft: finish after discard")
	}
	return nil
}

func (e *encoder) Discard() {
	e.discarded = true
}

// plane unwraps a backend texture.
func plane(t fog.Texture) (*bilateral.Plane, error) {
	st, ok := t.(*Texture)
	if !ok || st == nil {
		return nil, ErrForeignTexture
	}
	return st.plane, nil
}

// inputPlane unwraps input i of a draw call.
func inputPlane(call fog.DrawCall, i int) (*bilateral.Plane, error) {
	if i >= len(call.Inputs) {
		return nil, fmt.Errorf("soft: %s pass %d: missing input %d", call.Program.Name(), call.Pass, i)
	}
	return plane(call.Inputs[i])
}

// reproject refreshes the pixels matching this frame's jitter phase
// from the low-resolution tile and carries every other pixel over from
// the history. Refreshed pixels blend toward the new sample by
// 1 - Blend so a stray bright sample cannot flash the whole history.
// MotionInfluence scales the history weight; editor cameras pass 0 so
// refreshed pixels take the fresh sample outright.
func reproject(dst, tile, history *bilateral.Plane, p fog.ReprojectParams) {
	k := int(p.KernelSize)
	if k < 1 {
		k = 1
	}
	jx, jy := int(p.JitterX), int(p.JitterY)
	blend := p.Blend * p.MotionInfluence

	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			hr, hg, hb, ha := history.At(x, y)
			if x%k == jx && y%k == jy {
				cr, cg, cb, ca := tile.At(x/k, y/k)
				b := blend
				dst.Set(x, y,
					hr*b+cr*(1-b),
					hg*b+cg*(1-b),
					hb*b+cb*(1-b),
					ha*b+ca*(1-b),
				)
			} else {
				dst.Set(x, y, hr, hg, hb, ha)
			}
		}
	}
}

// blitAdd writes base + fog into dst. Fog color is premultiplied, so
// compositing is a plain add; alpha composites over.
func blitAdd(dst, base, fogPlane *bilateral.Plane) {
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			br, bg, bb, ba := base.At(x, y)
			fr, fg, fb, fa := fogPlane.At(x, y)
			dst.Set(x, y, br+fr, bg+fg, bb+fb, ba+fa*(1-ba))
		}
	}
}

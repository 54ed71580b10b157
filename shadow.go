package fog

// ShadowSlotNone marks a light snapshot with no shadow-map slot. It is
// also forced onto the main light, whose shadowing is resolved against
// the main shadow map outside this pipeline.
const ShadowSlotNone int32 = -1

// ShadowSlotResolver maps a light's index in the host's visible-light
// list to the shadow-map slot assigned by the host's shadow pass.
//
// The host must provide a resolver whenever any gathered light casts
// shadows; a missing or incomplete mapping is surfaced through the
// package logger rather than silently defaulted, since a mismapped
// slot renders wrong shadows without crashing.
type ShadowSlotResolver interface {
	// ShadowSlot returns the slot for the light at index i, or ok=false
	// when the host has no mapping for it.
	ShadowSlot(i int) (slot int32, ok bool)
}

// ShadowSlotFunc adapts a function to the ShadowSlotResolver interface.
type ShadowSlotFunc func(i int) (int32, bool)

// ShadowSlot calls f.
func (f ShadowSlotFunc) ShadowSlot(i int) (int32, bool) { return f(i) }

// NoShadows is the resolver for hosts without shadow maps: every light
// resolves to ShadowSlotNone, with the mapping considered available so
// no diagnostics are raised.
var NoShadows ShadowSlotResolver = ShadowSlotFunc(func(int) (int32, bool) {
	return ShadowSlotNone, true
})

package fog

import "time"

// FrameStats reports what the pipeline did for the last executed
// frame. Counters reset at Setup.
type FrameStats struct {
	// Mode is the effective working resolution used.
	Mode Mode

	// RegisteredVolumes and VisibleVolumes count the active set and the
	// subset that survived frustum culling.
	RegisteredVolumes int
	VisibleVolumes    int

	// HostLights and GatheredLights count the host list and the subset
	// kept after the range cull.
	HostLights     int
	GatheredLights int

	// TargetsAcquired counts pool acquisitions during Setup.
	TargetsAcquired int

	// JitterIndex is the temporal tile counter value used this frame.
	// Meaningful only when temporal reprojection is on.
	JitterIndex int

	// HistoryRealloc reports that the temporal history buffer was
	// (re)allocated this frame, discarding prior history.
	HistoryRealloc bool

	// Skipped reports that rasterization and compositing were skipped
	// because no volume was visible.
	Skipped bool

	// Elapsed is the CPU time spent recording the frame.
	Elapsed time.Duration
}

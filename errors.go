package fog

import "errors"

// Errors returned by pipeline construction and per-frame execution.
var (
	// ErrNilBackend is returned by NewPipeline when no backend is supplied.
	ErrNilBackend = errors.New("fog: backend is nil")

	// ErrMissingProgram is returned by NewPipeline when a required shader
	// program is not registered with the backend. The pipeline cannot run
	// without its full program set, so this is reported once at setup
	// rather than per frame.
	ErrMissingProgram = errors.New("fog: required shader program not registered")

	// ErrFrameNotSetUp is returned by Execute when Setup has not run (or
	// did not complete) for the current frame.
	ErrFrameNotSetUp = errors.New("fog: frame executed before setup")

	// ErrZeroTargetSize is returned by Setup when the camera target has a
	// zero dimension.
	ErrZeroTargetSize = errors.New("fog: camera target has zero dimensions")

	// ErrDisposed is returned when the pipeline is used after Dispose.
	ErrDisposed = errors.New("fog: pipeline disposed")
)

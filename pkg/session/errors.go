package session

import "errors"

var (
	// ErrModelNotReady means Start was called before the async model
	// load completed. The caller may retry once the model is ready.
	ErrModelNotReady = errors.New("detection model not ready")

	// ErrModelFailed means the model load failed; Start will never
	// succeed without a restart.
	ErrModelFailed = errors.New("detection model failed to load")

	// ErrAlreadyRunning means a session is already active.
	ErrAlreadyRunning = errors.New("session already running")
)

package session

import "time"

// State is the lifecycle state of the capture/render loop.
type State int

const (
	// Idle means no camera is held and no frame cycle is live
	Idle State = iota
	// Starting means the camera is being acquired
	Starting
	// Running means exactly one frame cycle goroutine is live
	Running
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	}
	return "idle"
}

// Status is a user-visible condition of the pipeline.
type Status string

const (
	StatusModelLoading      Status = "model-loading"
	StatusModelReady        Status = "model-ready"
	StatusModelFailed       Status = "model-failed"
	StatusCameraStarting    Status = "camera-starting"
	StatusCameraRunning     Status = "camera-running"
	StatusCameraStopped     Status = "camera-stopped"
	StatusCameraUnavailable Status = "camera-unavailable"
)

// StatusEvent is broadcast to dashboard clients whenever the pipeline
// condition changes.
type StatusEvent struct {
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Time      time.Time `json:"time"`
}

// Snapshot describes the current pipeline state for the status API.
type Snapshot struct {
	State      State  `json:"-"`
	StateName  string `json:"state"`
	Status     Status `json:"status"`
	Mode       string `json:"mode"`
	ModelReady bool   `json:"model_ready"`
	SessionID  string `json:"session_id,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// Package session owns the capture/detect/annotate/publish loop and its
// lifecycle. Exactly one session is active at a time; the session holds
// the camera exclusively and releases it on Stop.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hazardcam/hazardcam/internal/log"
	"github.com/hazardcam/hazardcam/pkg/annotate"
	"github.com/hazardcam/hazardcam/pkg/camera"
	"github.com/hazardcam/hazardcam/pkg/detect"
)

// FrameSource produces JPEG frames. Satisfied by camera.Webcam.
type FrameSource interface {
	Grab() ([]byte, error)
	Size() (width, height int)
	Close() error
}

// Renderer draws detections onto a frame. Satisfied by annotate.Annotator.
type Renderer interface {
	Render(frameJPEG []byte, dets []detect.Detection) ([]byte, error)
}

// Config holds the session manager configuration.
type Config struct {
	Camera        camera.Config
	FrameInterval time.Duration // Minimum spacing between frame cycles
}

// Manager is the state machine driving the capture/render loop.
// All control-plane entry points are safe for concurrent use.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	state    State
	mode     detect.Mode
	detector detect.Detector
	modelErr error
	source   FrameSource
	cancel   context.CancelFunc
	done     chan struct{}
	id       string
	width    int
	height   int
	status   Status

	// stopRequested records a Stop that arrived while Start was still
	// acquiring the camera; Start observes it and aborts.
	stopRequested bool

	// stopping marks a teardown in flight so concurrent Stops cannot
	// run it twice.
	stopping bool

	// OnFrame receives each annotated JPEG frame.
	OnFrame func(jpeg []byte)

	// OnStatus receives pipeline condition changes.
	OnStatus func(ev StatusEvent)

	// Seams for tests; production values open the webcam and build
	// a fresh annotator per session.
	openSource  func() (FrameSource, error)
	newRenderer func() Renderer
}

// NewManager creates a session manager in Idle with the model not yet
// loaded (status model-loading until SetDetector or SetModelError).
func NewManager(cfg Config) *Manager {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 16 * time.Millisecond
	}
	m := &Manager{
		cfg:    cfg,
		status: StatusModelLoading,
	}
	m.openSource = func() (FrameSource, error) {
		return camera.Open(cfg.Camera)
	}
	m.newRenderer = func() Renderer {
		return annotate.New()
	}
	return m
}

// SetDetector installs the loaded detection model, enabling Start.
func (m *Manager) SetDetector(d detect.Detector) {
	m.mu.Lock()
	m.detector = d
	if m.state == Idle {
		m.status = StatusModelReady
	}
	m.mu.Unlock()

	m.emit(StatusModelReady, "")
}

// SetModelError records a model load failure. Start is rejected from
// then on; no automatic retry is attempted.
func (m *Manager) SetModelError(err error) {
	m.mu.Lock()
	m.modelErr = err
	m.status = StatusModelFailed
	m.mu.Unlock()

	m.emit(StatusModelFailed, err.Error())
}

// Mode returns the active filter mode.
func (m *Manager) Mode() detect.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode switches the filter mode. Takes effect on the next frame cycle.
func (m *Manager) SetMode(mode detect.Mode) {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
}

// Start acquires the camera and launches the frame cycle.
// Rejected while the model is not ready or a session is already active.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.state != Idle {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if m.detector == nil {
		err := ErrModelNotReady
		if m.modelErr != nil {
			err = fmt.Errorf("%w: %s", ErrModelFailed, m.modelErr)
		}
		m.mu.Unlock()
		return err
	}
	m.state = Starting
	m.status = StatusCameraStarting
	m.stopRequested = false
	m.mu.Unlock()

	m.emit(StatusCameraStarting, "")

	src, err := m.openSource()
	if err != nil {
		m.mu.Lock()
		m.state = Idle
		m.status = StatusCameraUnavailable
		m.stopRequested = false
		m.mu.Unlock()

		m.emit(StatusCameraUnavailable, err.Error())
		return fmt.Errorf("camera unavailable: %w", err)
	}

	m.mu.Lock()
	if m.stopRequested {
		// A Stop arrived while the camera was being acquired; honor
		// it instead of racing into Running with the stop lost.
		m.stopRequested = false
		m.state = Idle
		m.status = StatusCameraStopped
		m.mu.Unlock()

		if err := src.Close(); err != nil {
			log.Warn("close camera", "error", err)
		}
		log.Info("session start aborted by stop")
		m.emit(StatusCameraStopped, "")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	id := uuid.NewString()
	width, height := src.Size()

	m.state = Running
	m.status = StatusCameraRunning
	m.source = src
	m.cancel = cancel
	m.done = done
	m.id = id
	m.width = width
	m.height = height
	detector := m.detector
	m.mu.Unlock()

	log.Info("session started", "session_id", id, "width", width, "height", height)
	m.emit(StatusCameraRunning, fmt.Sprintf("%dx%d", width, height))

	go m.run(ctx, done, src, detector, m.newRenderer())

	return nil
}

// Stop cancels the frame cycle, waits for any in-flight detection to
// drain, and releases the camera. Idempotent: a no-op from Idle. A Stop
// issued while Start is still acquiring the camera is not lost: Start
// observes it, releases the camera and reverts to Idle.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.state == Starting {
		m.stopRequested = true
		m.mu.Unlock()
		return nil
	}
	if m.state != Running || m.stopping {
		m.mu.Unlock()
		return nil
	}
	m.stopping = true
	cancel := m.cancel
	done := m.done
	src := m.source
	id := m.id
	m.mu.Unlock()

	cancel()
	<-done

	if err := src.Close(); err != nil {
		log.Warn("close camera", "error", err)
	}

	m.mu.Lock()
	m.state = Idle
	m.status = StatusCameraStopped
	m.stopping = false
	m.source = nil
	m.cancel = nil
	m.done = nil
	m.id = ""
	m.width = 0
	m.height = 0
	m.mu.Unlock()

	log.Info("session stopped", "session_id", id)
	m.emit(StatusCameraStopped, "")
	return nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the pipeline state for the status API.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:      m.state,
		StateName:  m.state.String(),
		Status:     m.status,
		Mode:       m.mode.String(),
		ModelReady: m.detector != nil,
		SessionID:  m.id,
		Width:      m.width,
		Height:     m.height,
	}
}

// emit delivers a status event outside the manager lock.
func (m *Manager) emit(status Status, detail string) {
	if m.OnStatus == nil {
		return
	}
	m.mu.Lock()
	id := m.id
	m.mu.Unlock()
	m.OnStatus(StatusEvent{
		Status:    status,
		Detail:    detail,
		SessionID: id,
		Time:      time.Now(),
	})
}

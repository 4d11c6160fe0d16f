package session

import (
	"context"
	"time"

	"github.com/hazardcam/hazardcam/internal/log"
	"github.com/hazardcam/hazardcam/pkg/detect"
)

// run drives frame cycles until the context is cancelled. Each cycle:
// grab -> detect -> filter -> render -> publish -> re-arm. The detect
// call is the only unbounded suspension; a slow model simply stretches
// the cycle. Per-frame failures are logged and skipped, never fatal.
func (m *Manager) run(ctx context.Context, done chan struct{}, src FrameSource, detector detect.Detector, renderer Renderer) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		m.cycle(ctx, src, detector, renderer)

		// A Stop issued while detect was in flight must win: check
		// before re-arming so the loop cannot outrun cancellation.
		if ctx.Err() != nil {
			return
		}
		timer.Reset(m.cfg.FrameInterval)
	}
}

// cycle runs one grab/detect/filter/render/publish pass.
func (m *Manager) cycle(ctx context.Context, src FrameSource, detector detect.Detector, renderer Renderer) {
	frame, err := src.Grab()
	if err != nil {
		log.Warn("grab frame", "error", err)
		return
	}

	dets, err := detector.Detect(frame)
	if err != nil {
		// Recovered locally: this frame renders with zero detections,
		// the next cycle gets a fresh attempt.
		log.Warn("detect frame", "error", err)
		dets = nil
	}

	// Stop may have been issued while Detect was pending; do not
	// publish a frame for a session that is already gone.
	if ctx.Err() != nil {
		return
	}

	kept := detect.Filter(dets, m.Mode())

	out, err := renderer.Render(frame, kept)
	if err != nil {
		log.Warn("render frame", "error", err)
		return
	}

	if m.OnFrame != nil {
		m.OnFrame(out)
	}
}

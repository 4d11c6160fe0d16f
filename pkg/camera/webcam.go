package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Source is the interface for frame producers.
type Source interface {
	// Grab captures the current frame as JPEG
	Grab() ([]byte, error)

	// Size returns the native frame size of the source
	Size() (width, height int)

	// Close releases the capture hardware
	Close() error
}

// Webcam captures frames from a local V4L2 device via gocv.
type Webcam struct {
	vc     *gocv.VideoCapture
	frame  gocv.Mat
	params []int
	width  int
	height int
	mu     sync.Mutex
	closed bool
}

// Open opens the configured capture device and reads back the
// resolution the driver actually granted. If the driver reports zero,
// the requested size is kept as the best estimate.
func Open(cfg Config) (*Webcam, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid camera config: %v", errs)
	}

	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera device %d: %w", cfg.Device, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	width := int(vc.Get(gocv.VideoCaptureFrameWidth))
	height := int(vc.Get(gocv.VideoCaptureFrameHeight))
	if width == 0 || height == 0 {
		width, height = cfg.Width, cfg.Height
	}

	return &Webcam{
		vc:     vc,
		frame:  gocv.NewMat(),
		params: []int{gocv.IMWriteJpegQuality, cfg.Quality},
		width:  width,
		height: height,
	}, nil
}

// Grab captures the current frame and encodes it as JPEG.
func (w *Webcam) Grab() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("camera closed")
	}

	if ok := w.vc.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, fmt.Errorf("read frame from device")
	}

	buf, err := gocv.IMEncodeWithParams(".jpg", w.frame, w.params)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

// Size returns the native frame size.
func (w *Webcam) Size() (int, int) {
	return w.width, w.height
}

// Close stops the capture and releases the device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.frame.Close()
	return w.vc.Close()
}

var _ Source = (*Webcam)(nil)

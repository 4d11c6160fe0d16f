// Package annotate draws detection overlays onto JPEG frames.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/hazardcam/hazardcam/pkg/detect"
)

// Overlay styling.
var (
	warningColor = color.RGBA{R: 220, G: 40, B: 40, A: 0}  // dangerous classes
	neutralColor = color.RGBA{R: 40, G: 200, B: 80, A: 0}  // everything else
	chipText     = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	fpsColor     = color.RGBA{R: 255, G: 255, B: 0, A: 0}
)

const (
	warningThickness = 3
	neutralThickness = 1
	fontScale        = 0.5
	chipPadding      = 4
)

// Annotator renders detection boxes, label chips and an FPS readout.
// The FPS clock lives on the instance so consecutive Render calls can
// measure wall-clock spacing; one Annotator serves one session.
type Annotator struct {
	fps fpsMeter

	// now is swappable for tests
	now func() time.Time
}

// New creates an Annotator.
func New() *Annotator {
	return &Annotator{now: time.Now}
}

// Render draws the detections and FPS readout onto the frame and
// returns the re-encoded JPEG. The input slice is never mutated.
func (a *Annotator) Render(frameJPEG []byte, dets []detect.Detection) ([]byte, error) {
	img, err := gocv.IMDecode(frameJPEG, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	for _, det := range dets {
		drawDetection(&img, det)
	}

	if fps, ok := a.fps.Tick(a.now()); ok {
		gocv.PutText(&img, fmt.Sprintf("%.1f FPS", fps),
			image.Pt(10, 25), gocv.FontHersheySimplex, 0.7, fpsColor, 2)
	}

	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// drawDetection strokes the bounding box and a filled label chip above it.
func drawDetection(img *gocv.Mat, det detect.Detection) {
	boxColor := neutralColor
	thickness := neutralThickness
	if detect.IsDangerous(det.Class) {
		boxColor = warningColor
		thickness = warningThickness
	}

	gocv.Rectangle(img, det.Box, boxColor, thickness)

	label := LabelText(det)
	size := gocv.GetTextSize(label, gocv.FontHersheySimplex, fontScale, 1)

	// Chip sits above the box; clamp to the frame top
	chipTop := det.Box.Min.Y - size.Y - 2*chipPadding
	if chipTop < 0 {
		chipTop = 0
	}
	chip := image.Rect(
		det.Box.Min.X,
		chipTop,
		det.Box.Min.X+size.X+2*chipPadding,
		chipTop+size.Y+2*chipPadding,
	)
	gocv.Rectangle(img, chip, boxColor, -1)

	gocv.PutText(img, label,
		image.Pt(chip.Min.X+chipPadding, chip.Max.Y-chipPadding),
		gocv.FontHersheySimplex, fontScale, chipText, 1)
}

// LabelText formats the label chip text: class name plus confidence
// percentage with one decimal place, e.g. "knife 92.0%".
func LabelText(det detect.Detection) string {
	return fmt.Sprintf("%s %.1f%%", det.Class, det.Confidence*100)
}

// Package detect provides object detection over JPEG frames.
package detect

import "image"

// Detection represents one detected object in a single frame.
// Detections are frame-scoped: a fresh slice is produced per frame and
// never mutated afterwards.
type Detection struct {
	Class      string          // COCO class name
	Confidence float64         // Detection confidence (0-1)
	Box        image.Rectangle // Bounding box in frame pixels
}

// Detector is the interface for object detection backends.
type Detector interface {
	// Detect finds objects in the JPEG image
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Mode selects which detections the pipeline keeps.
type Mode int

const (
	// ModeAll keeps every detection
	ModeAll Mode = iota
	// ModeDangerous keeps only detections of dangerous classes
	ModeDangerous
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if m == ModeDangerous {
		return "dangerous"
	}
	return "all"
}

// ParseMode parses a wire mode name.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "all":
		return ModeAll, true
	case "dangerous":
		return ModeDangerous, true
	}
	return ModeAll, false
}

// DangerousClasses is the fixed set of class names rendered with
// emphasized styling. Immutable for the process lifetime.
var DangerousClasses = map[string]bool{
	"knife":        true,
	"scissors":     true,
	"baseball bat": true,
}

// IsDangerous returns true if the class is in the dangerous set.
func IsDangerous(className string) bool {
	return DangerousClasses[className]
}

// Filter returns the detections kept under the given mode.
// Pure and order-preserving: ModeAll returns the input unchanged,
// ModeDangerous keeps only dangerous classes.
func Filter(dets []Detection, mode Mode) []Detection {
	if mode == ModeAll {
		return dets
	}

	var kept []Detection
	for _, d := range dets {
		if IsDangerous(d.Class) {
			kept = append(kept, d)
		}
	}
	return kept
}

// Package camera provides webcam capture for the detection pipeline.
package camera

// Config holds the capture configuration.
type Config struct {
	Device  int `json:"device"`  // V4L2 device index
	Width   int `json:"width"`   // Requested frame width in pixels
	Height  int `json:"height"`  // Requested frame height in pixels
	Quality int `json:"quality"` // JPEG quality 1-100
}

// Capture limits for consumer webcams.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// DefaultConfig returns the recommended 720p configuration.
// Good balance between detection accuracy and per-frame latency.
func DefaultConfig() Config {
	return Config{
		Device:  0,
		Width:   1280,
		Height:  720,
		Quality: 80,
	}
}

// VGAConfig returns the low-resolution 640x480 configuration.
// Use this if the detector cannot keep up at 720p.
func VGAConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	return cfg
}

// HD1080Config returns the 1080p configuration.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device must not be negative")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}

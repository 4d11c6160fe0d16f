// Package config provides environment-backed configuration for hazardcam.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port     string // HTTP listen port
	LogLevel string // debug, info, warn, error

	// Detection model
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum detection confidence

	// Camera
	CameraDevice int // V4L2 device index
	FrameWidth   int // Requested capture width
	FrameHeight  int // Requested capture height
	JPEGQuality  int // Encode quality for the feed

	// Loop pacing
	FrameInterval time.Duration // Minimum time between frame cycles
}

// Load reads configuration from the environment. If envFile is non-empty
// it is loaded first via godotenv; a missing file is not an error so the
// binary runs with plain environment variables too.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8090"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ModelPath:        getEnv("MODEL_PATH", "models/yolov8n.onnx"),
		ConfidenceThresh: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		CameraDevice:     getEnvAsInt("CAMERA_DEVICE", 0),
		FrameWidth:       getEnvAsInt("FRAME_WIDTH", 1280),
		FrameHeight:      getEnvAsInt("FRAME_HEIGHT", 720),
		JPEGQuality:      getEnvAsInt("JPEG_QUALITY", 80),
		FrameInterval:    getEnvAsDuration("FRAME_INTERVAL", 16*time.Millisecond),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ConfidenceThresh < 0 || c.ConfidenceThresh > 1 {
		return fmt.Errorf("confidence threshold %.2f out of range [0,1]", c.ConfidenceThresh)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range [1,100]", c.JPEGQuality)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("frame interval must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

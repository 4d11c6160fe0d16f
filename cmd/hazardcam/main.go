// hazardcam - live webcam object detection with dangerous-object
// highlighting, served over a local web dashboard.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazardcam/hazardcam/internal/config"
	"github.com/hazardcam/hazardcam/internal/log"
	"github.com/hazardcam/hazardcam/pkg/camera"
	"github.com/hazardcam/hazardcam/pkg/detect"
	"github.com/hazardcam/hazardcam/pkg/session"
	"github.com/hazardcam/hazardcam/pkg/web"
)

func main() {
	envFile := flag.String("env", ".env", "Path to env file (optional)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	log.Init(cfg.LogLevel)
	log.Info("hazardcam starting",
		"port", cfg.Port,
		"model", cfg.ModelPath,
		"camera", cfg.CameraDevice,
	)

	sessions := session.NewManager(session.Config{
		Camera: camera.Config{
			Device:  cfg.CameraDevice,
			Width:   cfg.FrameWidth,
			Height:  cfg.FrameHeight,
			Quality: cfg.JPEGQuality,
		},
		FrameInterval: cfg.FrameInterval,
	})

	server := web.NewServer(cfg.Port, sessions)

	// The model loads in the background; Start is rejected until it
	// is ready, and permanently if the load fails.
	go func() {
		yoloCfg := detect.DefaultYOLOConfig()
		yoloCfg.ModelPath = cfg.ModelPath
		yoloCfg.ConfidenceThresh = float32(cfg.ConfidenceThresh)

		detector, err := detect.NewYOLO(yoloCfg)
		if err != nil {
			log.Error("load detection model", "error", err)
			sessions.SetModelError(err)
			return
		}
		log.Info("detection model loaded", "path", yoloCfg.ModelPath)
		sessions.SetDetector(detector)
	}()

	// Release the camera and close the server on Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		sessions.Stop()
		server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		log.Error("server", "error", err)
		os.Exit(1)
	}
}

// Package app provides the main application logic for the Mudra gesture
// control system.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	CameraID     int
	StreamURL    string
	MotionThresh float64
	Detector     detector.Config
	Body         *detector.BodyDetector
	Mapping      control.Mapping
	Gate         *control.Gate
	Dispatcher   *control.Dispatcher
	SnapshotDir  string
}

// App is the main application that runs the detection loop: capture,
// hand detection, gesture classification, command mapping, debounced
// dispatch, and overlay rendering.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	body       *detector.BodyDetector
	mapping    control.Mapping
	gate       *control.Gate
	dispatcher *control.Dispatcher

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	onGesture func(label gesture.Label, handedness string)

	frameMu   sync.RWMutex
	lastFrame []byte // latest annotated frame as JPEG
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	var camera capture.Camera
	if config.StreamURL != "" {
		camera = capture.NewStreamCamera(config.StreamURL)
	} else {
		camera = capture.NewCamera(config.CameraID)
	}

	a := &App{
		config:     config,
		camera:     camera,
		motion:     capture.NewMotionDetector(motionThreshold),
		body:       config.Body,
		mapping:    config.Mapping,
		gate:       config.Gate,
		dispatcher: config.Dispatcher,
		enabled:    false,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnGesture sets the callback invoked for every classified hand.
// It runs on the pipeline loop and must not block.
func (a *App) OnGesture(fn func(label gesture.Label, handedness string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	// Close the body detector if set
	if a.body != nil {
		if err := a.body.Close(); err != nil {
			log.Printf("Error closing body detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Dispatcher returns the command dispatcher.
func (a *App) Dispatcher() *control.Dispatcher {
	return a.dispatcher
}

// LatestJPEG returns the most recent annotated frame encoded as JPEG,
// or nil if no frame has been processed yet.
func (a *App) LatestJPEG() []byte {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.lastFrame
}

func (a *App) setLatestJPEG(data []byte) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	a.lastFrame = data
}

// SaveSnapshot writes the latest annotated frame to the snapshot
// directory and returns the file path.
func (a *App) SaveSnapshot() (string, error) {
	data := a.LatestJPEG()
	if data == nil {
		return "", fmt.Errorf("no frame available yet")
	}

	dir := a.config.SnapshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("mudra_%s.jpg", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	log.Printf("Saved snapshot to %s", path)
	return path, nil
}

// encodeFrame stores the annotated frame for the preview stream.
func (a *App) encodeFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	a.setLatestJPEG(data)
}

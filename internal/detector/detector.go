package detector

import "gocv.io/x/gocv"

// Detector produces hand landmark observations from video frames.
type Detector interface {
	// Detect returns one HandLandmarks per hand visible in the frame.
	// No hands is an empty slice, not an error.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases the detector and any backing process.
	Close() error
}

// Config tunes the landmark provider.
type Config struct {
	// MaxHands caps how many hands the provider reports per frame.
	MaxHands int

	// MinConfidence is the detection confidence floor (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the tracking confidence floor (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the provider defaults: two hands, 0.5 floors.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

package detector

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Person detection tuning for the Haar cascade. Looser neighbor counts
// produce too many false boxes on noisy frames.
const (
	bodyScaleFactor  = 1.1
	bodyMinNeighbors = 3
	bodyMinSize      = 60
)

// BodyDetector detects whole-body bounding boxes using an OpenCV Haar
// cascade. Its output is composed with hand results for rendering only
// and never participates in gesture classification.
type BodyDetector struct {
	cascade gocv.CascadeClassifier
	mu      sync.Mutex
	closed  bool
}

// NewBodyDetector loads the full-body Haar cascade from the given path.
func NewBodyDetector(cascadePath string) (*BodyDetector, error) {
	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("load body cascade from %s failed", cascadePath)
	}

	return &BodyDetector{cascade: cascade}, nil
}

// Detect returns axis-aligned bounding boxes for people visible in the frame.
func (d *BodyDetector) Detect(frame *gocv.Mat) ([]image.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("body detector is closed")
	}
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	// Haar cascades operate on grayscale
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	rects := d.cascade.DetectMultiScaleWithParams(
		gray,
		bodyScaleFactor,
		bodyMinNeighbors,
		0,
		image.Point{X: bodyMinSize, Y: bodyMinSize},
		image.Point{},
	)

	return rects, nil
}

// Close releases the cascade classifier.
func (d *BodyDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.cascade.Close()
}

package overlay

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestLabelAnchor_ProjectsWrist(t *testing.T) {
	hand := detector.OpenHandLandmarks()
	hand.Points[detector.Wrist] = detector.Point3D{X: 0.25, Y: 0.5}

	anchor := LabelAnchor(&hand, 640, 480)

	if anchor.X != 160 || anchor.Y != 240 {
		t.Errorf("LabelAnchor() = %v, want (160, 240)", anchor)
	}
}

func TestLabelAnchor_DistinctHandsDistinctAnchors(t *testing.T) {
	// Two simultaneous hands with different wrist positions must never
	// anchor their labels to the same pixel.
	left := detector.PoseLandmarks(detector.HandednessLeft, [5]bool{true, true, true, true, true})
	right := detector.PoseLandmarks(detector.HandednessRight, [5]bool{true, true, true, true, true})
	left.Points[detector.Wrist].X = 0.25
	right.Points[detector.Wrist].X = 0.75

	leftAnchor := LabelAnchor(&left, 640, 480)
	rightAnchor := LabelAnchor(&right, 640, 480)

	if leftAnchor == rightAnchor {
		t.Errorf("both hands anchored to %v", leftAnchor)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		label   gesture.Label
		fingers gesture.FingerState
		want    string
	}{
		{gesture.ThumbsUp, gesture.FingerState{true, false, false, false, false}, "Thumbs Up"},
		{gesture.Fist, gesture.FingerState{}, "Fist"},
		{gesture.Unknown, gesture.FingerState{true, true, false, false, false}, "2 Fingers"},
		{gesture.Unknown, gesture.FingerState{false, true, true, true, false}, "3 Fingers"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.label, tt.fingers); got != tt.want {
			t.Errorf("DisplayName(%q, %v) = %q, want %q", tt.label, tt.fingers, got, tt.want)
		}
	}
}

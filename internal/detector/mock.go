package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger base X positions for synthetic right-hand geometry, index finger
// through pinky. The hand points up with the wrist at the bottom.
var fingerBaseX = [4]float64{0.56, 0.50, 0.44, 0.38}

// PoseLandmarks builds a synthetic HandLandmarks with the given fingers
// extended, in the order (thumb, index, middle, ring, pinky).
//
// Geometry is constructed for a right hand in mirrored user-perspective
// coordinates: an extended non-thumb finger has its tip above (smaller y
// than) its PIP joint, and an extended thumb has its tip at smaller x than
// its IP joint. A left hand is the same geometry mirrored across the
// vertical axis.
func PoseLandmarks(handedness string, extended [5]bool) HandLandmarks {
	hand := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: handedness,
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: 0.50, Y: 0.90}

	// Thumb chain, moving laterally from the wrist
	hand.Points[ThumbCMC] = Point3D{X: 0.58, Y: 0.85}
	hand.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.80}
	hand.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.75}
	if extended[0] {
		hand.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.72}
	} else {
		hand.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.78}
	}

	// Index through pinky, each four landmarks proximal to distal
	for f := 0; f < 4; f++ {
		x := fingerBaseX[f]
		mcp := IndexMCP + f*4
		hand.Points[mcp] = Point3D{X: x, Y: 0.70}
		hand.Points[mcp+1] = Point3D{X: x, Y: 0.60} // PIP
		if extended[f+1] {
			hand.Points[mcp+2] = Point3D{X: x, Y: 0.48} // DIP
			hand.Points[mcp+3] = Point3D{X: x, Y: 0.38} // Tip above PIP
		} else {
			hand.Points[mcp+2] = Point3D{X: x, Y: 0.64}
			hand.Points[mcp+3] = Point3D{X: x, Y: 0.72} // Tip curled below PIP
		}
	}

	if handedness == HandednessLeft {
		for i := range hand.Points {
			hand.Points[i].X = 1.0 - hand.Points[i].X
		}
	}

	return hand
}

// FistLandmarks returns a right hand with no fingers extended.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{})
}

// ThumbsUpLandmarks returns a right hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{true, false, false, false, false})
}

// PointingLandmarks returns a right hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{false, true, false, false, false})
}

// PeaceSignLandmarks returns a right hand with index and middle extended.
func PeaceSignLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{false, true, true, false, false})
}

// OpenHandLandmarks returns a right hand with all five fingers extended.
func OpenHandLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{true, true, true, true, true})
}

// RockOnLandmarks returns a right hand with index and pinky extended.
func RockOnLandmarks() HandLandmarks {
	return PoseLandmarks(HandednessRight, [5]bool{false, true, false, false, true})
}

// Package detector provides hand and person detection interfaces and types
// for the Mudra gesture control system.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels as reported by the landmark provider.
const (
	HandednessLeft  = "Left"
	HandednessRight = "Right"
)

// Point3D represents a 3D point with x and y normalized to [0,1]
// in image space and z as relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents one observed hand: the 21 MediaPipe landmarks
// in canonical order (wrist, then each finger proximal to distal), the
// handedness label, and the provider's confidence score.
//
// The provider delivers coordinates already mirrored to user perspective.
// A misbehaving provider may deliver a different number of points;
// consumers must check Complete before indexing by landmark constant.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Complete reports whether the observation carries exactly the expected
// 21 landmarks. Incomplete observations are skipped by consumers; this
// is not an error condition.
func (h *HandLandmarks) Complete() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

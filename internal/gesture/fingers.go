// Package gesture derives finger extension states from hand landmarks and
// classifies them into discrete gesture labels.
package gesture

import (
	"errors"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrMalformedLandmarks is returned when an observation does not carry
// exactly 21 landmarks. Callers skip the observation and continue; this
// never aborts a frame.
var ErrMalformedLandmarks = errors.New("hand observation does not have 21 landmarks")

// FingerState holds the extension state of each finger in fixed order:
// thumb, index, middle, ring, pinky. True means extended.
type FingerState [5]bool

// Finger indices into a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// Non-thumb fingertip and PIP landmark indices, in FingerState order.
var (
	fingerTips = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerPIPs = [4]int{detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
)

// ExtractFingers derives the extension state of all five fingers from one
// hand observation. It is pure and holds no history.
//
// Index, middle, ring and pinky are extended when the fingertip sits above
// its PIP joint in image space (smaller y). The thumb moves laterally, so
// it compares tip x against the IP joint, and the direction flips by
// handedness because the provider's coordinates are already mirrored to
// user perspective: for a right hand, extended means tip.x < ip.x.
func ExtractFingers(hand *detector.HandLandmarks) (FingerState, error) {
	var fingers FingerState

	if !hand.Complete() {
		return fingers, ErrMalformedLandmarks
	}

	thumbTip := hand.Points[detector.ThumbTip]
	thumbIP := hand.Points[detector.ThumbIP]
	if hand.Handedness == detector.HandednessLeft {
		fingers[Thumb] = thumbTip.X > thumbIP.X
	} else {
		fingers[Thumb] = thumbTip.X < thumbIP.X
	}

	for f := 0; f < 4; f++ {
		fingers[f+1] = hand.Points[fingerTips[f]].Y < hand.Points[fingerPIPs[f]].Y
	}

	return fingers, nil
}

// ExtendedCount returns how many fingers are extended.
func ExtendedCount(fingers FingerState) int {
	count := 0
	for _, up := range fingers {
		if up {
			count++
		}
	}
	return count
}

// Package overlay renders detection results onto video frames: hand
// landmarks, gesture labels anchored at each hand's wrist, and body
// bounding boxes from the secondary detector.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Drawing colors (RGBA).
var (
	landmarkColor   = color.RGBA{R: 0, G: 255, B: 0}
	gestureColor    = color.RGBA{R: 0, G: 255, B: 0}
	handednessColor = color.RGBA{R: 255, G: 255, B: 0}
	bodyBoxColor    = color.RGBA{R: 0, G: 0, B: 255}
	infoColor       = color.RGBA{R: 255, G: 255, B: 255}
)

// Fingertip landmark indices and their display names.
var fingertipNames = map[int]string{
	detector.ThumbTip:  "Thumb",
	detector.IndexTip:  "Index",
	detector.MiddleTip: "Middle",
	detector.RingTip:   "Ring",
	detector.PinkyTip:  "Pinky",
}

// LabelAnchor projects the hand's wrist landmark to pixel coordinates.
// Each hand's label anchors to its own wrist, never to a fixed screen
// position, so two simultaneously visible hands never share an anchor.
func LabelAnchor(hand *detector.HandLandmarks, width, height int) image.Point {
	wrist := hand.Points[detector.Wrist]
	return image.Point{
		X: int(wrist.X * float64(width)),
		Y: int(wrist.Y * float64(height)),
	}
}

// DisplayName returns the overlay text for a classification. Unmatched
// poses show the extended finger count instead of "Unknown".
func DisplayName(label gesture.Label, fingers gesture.FingerState) string {
	if label == gesture.Unknown {
		return fmt.Sprintf("%d Fingers", gesture.ExtendedCount(fingers))
	}
	return string(label)
}

// DrawHand draws the hand's landmarks, fingertip names, and its gesture
// and handedness text anchored near the wrist.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks, label gesture.Label, fingers gesture.FingerState) {
	if frame == nil || !hand.Complete() {
		return
	}

	w := frame.Cols()
	h := frame.Rows()

	for i, p := range hand.Points {
		pt := image.Point{X: int(p.X * float64(w)), Y: int(p.Y * float64(h))}
		gocv.Circle(frame, pt, 3, landmarkColor, -1)

		if name, ok := fingertipNames[i]; ok {
			gocv.PutText(frame, name, image.Point{X: pt.X, Y: pt.Y - 10},
				gocv.FontHersheySimplex, 0.5, landmarkColor, 2)
		}
	}

	anchor := LabelAnchor(hand, w, h)
	gocv.PutText(frame, "Gesture: "+DisplayName(label, fingers),
		image.Point{X: anchor.X - 80, Y: anchor.Y - 60},
		gocv.FontHersheySimplex, 1, gestureColor, 2)
	gocv.PutText(frame, "Hand: "+hand.Handedness,
		image.Point{X: anchor.X - 50, Y: anchor.Y - 30},
		gocv.FontHersheySimplex, 0.7, handednessColor, 2)
}

// DrawBodies draws bounding boxes for detected people. Body detections
// are composed with hand results for display only; they never influence
// classification.
func DrawBodies(frame *gocv.Mat, bodies []image.Rectangle) {
	if frame == nil {
		return
	}
	for _, rect := range bodies {
		gocv.Rectangle(frame, rect, bodyBoxColor, 2)
	}
}

// DrawCounts writes the detection summary in the top-left corner.
func DrawCounts(frame *gocv.Mat, hands, people int) {
	if frame == nil {
		return
	}
	text := fmt.Sprintf("Hands: %d | People: %d", hands, people)
	gocv.PutText(frame, text, image.Point{X: 10, Y: 30},
		gocv.FontHersheySimplex, 0.7, infoColor, 2)
}

package app

import (
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// runPipeline is the main detection loop that processes frames from the
// camera. It manages the state transitions between idle and active modes
// based on motion detection.
//
// Pipeline logic per frame:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection and, if configured, body detection
// 4. Classify each hand and offer admitted commands to the dispatcher
// 5. Render the overlay and publish the annotated frame
// 6. After 2s without motion, switch back to idle mode
//
// The only blocking network work happens on the dispatcher's worker; the
// loop itself never waits on delivery.
func (a *App) runPipeline(stopCh chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Skip detection if not in active mode
			if !activeMode {
				frame.Close()
				continue
			}

			a.ProcessFrame(frame)
			frame.Close()
		}
	}
}

// ProcessFrame runs both detectors over one frame, classifies every
// observed hand, offers admitted commands to the dispatcher, and renders
// the overlay onto the frame. The pipeline calls it for every active
// frame; it is exported so a single frame can be pushed through without
// a camera.
func (a *App) ProcessFrame(frame *gocv.Mat) {
	d := a.Detector()
	if d == nil {
		return
	}

	hands, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	// Body detection is composed for rendering only; it never touches
	// gesture classification.
	var bodies []image.Rectangle
	if a.body != nil {
		if bodies, err = a.body.Detect(frame); err != nil {
			log.Printf("Error detecting bodies: %v", err)
		}
	}

	// Each hand flows through the pipeline independently; the debounce
	// gate is the only state they share.
	for i := range hands {
		hand := &hands[i]

		fingers, err := gesture.ExtractFingers(hand)
		if err != nil {
			// Malformed observation: skip this hand, keep the frame going.
			log.Printf("Skipping hand observation: %v", err)
			continue
		}

		label := gesture.Classify(fingers)
		a.notifyGesture(label, hand.Handedness)
		overlay.DrawHand(frame, hand, label, fingers)

		command, ok := a.mapping.Command(label)
		if !ok {
			continue
		}

		ev := control.NewEvent(label, command)
		if !a.gate.Admit(ev.Time) {
			continue
		}
		a.dispatcher.Offer(ev)
	}

	overlay.DrawBodies(frame, bodies)
	overlay.DrawCounts(frame, len(hands), len(bodies))
	a.encodeFrame(frame)
}

func (a *App) notifyGesture(label gesture.Label, handedness string) {
	a.mu.RLock()
	fn := a.onGesture
	a.mu.RUnlock()

	if fn != nil {
		fn(label, handedness)
	}
}

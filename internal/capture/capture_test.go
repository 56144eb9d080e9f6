package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open initially")
	}
}

func TestNewStreamCamera_Defaults(t *testing.T) {
	cam := NewStreamCamera("http://192.168.4.1:81/stream")

	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("stream camera should not be open initially")
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"set to 10", 10, 10},
		{"set to 30", 30, 30},
		{"set to 1", 1, 1},
		{"zero keeps previous", 0, 1},
		{"negative keeps previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrameNotOpen(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() before Open() should fail")
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		frame.Close()
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() past the end without loop should fail")
	}

	cam.Reset()
	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset() error = %v", err)
	}
	frame.Close()
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame only establishes the baseline
	if detected, _ := md.Detect(&frame1); detected {
		t.Error("first frame should not detect motion")
	}

	// Identical frame: no change
	detected, changePercent := md.Detect(&frame2)
	if detected {
		t.Error("identical frame should not detect motion")
	}
	if changePercent != 0 {
		t.Errorf("changePercent = %f, want 0", changePercent)
	}
}

func TestMotionDetector_DetectsChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()

	white := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()

	md.Detect(&black)

	detected, changePercent := md.Detect(&white)
	if !detected {
		t.Error("black-to-white transition should detect motion")
	}
	if changePercent < 50 {
		t.Errorf("changePercent = %f, want most of the frame", changePercent)
	}
}

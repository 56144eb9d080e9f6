package gesture

import "testing"

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name    string
		fingers FingerState
		want    Label
	}{
		{"fist", FingerState{false, false, false, false, false}, Fist},
		{"thumbs up", FingerState{true, false, false, false, false}, ThumbsUp},
		{"pointing", FingerState{false, true, false, false, false}, Pointing},
		{"peace sign", FingerState{false, true, true, false, false}, PeaceSign},
		{"open hand", FingerState{true, true, true, true, true}, OpenHand},
		{"rock on", FingerState{false, true, false, false, true}, RockOn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.fingers); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.fingers, got, tt.want)
			}
		})
	}
}

func TestClassify_UnmatchedPatternsAreUnknown(t *testing.T) {
	// Walk all 32 patterns; anything outside the rule table must be Unknown.
	known := map[FingerState]Label{}
	for _, r := range rules {
		known[r.pattern] = r.label
	}

	for i := 0; i < 32; i++ {
		var fingers FingerState
		for bit := 0; bit < 5; bit++ {
			fingers[bit] = i&(1<<bit) != 0
		}

		got := Classify(fingers)
		if want, ok := known[fingers]; ok {
			if got != want {
				t.Errorf("Classify(%v) = %q, want %q", fingers, got, want)
			}
		} else if got != Unknown {
			t.Errorf("Classify(%v) = %q, want %q", fingers, got, Unknown)
		}
	}
}

func TestClassify_Pure(t *testing.T) {
	fingers := FingerState{false, true, true, false, false}

	first := Classify(fingers)
	for i := 0; i < 100; i++ {
		if got := Classify(fingers); got != first {
			t.Fatalf("Classify result changed on call %d: %q != %q", i, got, first)
		}
	}
}

func TestExtendedCount(t *testing.T) {
	tests := []struct {
		fingers FingerState
		want    int
	}{
		{FingerState{}, 0},
		{FingerState{true, false, false, false, false}, 1},
		{FingerState{false, true, true, false, false}, 2},
		{FingerState{true, true, true, true, true}, 5},
	}

	for _, tt := range tests {
		if got := ExtendedCount(tt.fingers); got != tt.want {
			t.Errorf("ExtendedCount(%v) = %d, want %d", tt.fingers, got, tt.want)
		}
	}
}

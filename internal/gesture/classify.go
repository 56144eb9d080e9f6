package gesture

// Label is a discrete gesture classification.
type Label string

// Recognized gesture labels.
const (
	Fist      Label = "Fist"
	ThumbsUp  Label = "Thumbs Up"
	Pointing  Label = "Pointing"
	PeaceSign Label = "Peace Sign"
	OpenHand  Label = "Open Hand"
	RockOn    Label = "Rock On"
	Unknown   Label = "Unknown"
)

// rule maps one exact finger pattern to a label.
type rule struct {
	pattern FingerState
	label   Label
}

// rules is the classification table, evaluated top to bottom with
// first-match-wins semantics. The table is data, not logic: adding a
// gesture means appending a row, and conflicts are resolved by
// declaration order.
var rules = []rule{
	{FingerState{false, false, false, false, false}, Fist},
	{FingerState{true, false, false, false, false}, ThumbsUp},
	{FingerState{false, true, false, false, false}, Pointing},
	{FingerState{false, true, true, false, false}, PeaceSign},
	{FingerState{true, true, true, true, true}, OpenHand},
	{FingerState{false, true, false, false, true}, RockOn},
}

// Labels returns every label present in the classification table, in
// declaration order.
func Labels() []Label {
	labels := make([]Label, 0, len(rules))
	for _, r := range rules {
		labels = append(labels, r.label)
	}
	return labels
}

// Classify maps a finger extension state to a gesture label. Patterns
// absent from the table classify as Unknown, which is a valid terminal
// state and carries no error semantics. Classify is a pure function.
func Classify(fingers FingerState) Label {
	for _, r := range rules {
		if fingers == r.pattern {
			return r.label
		}
	}
	return Unknown
}

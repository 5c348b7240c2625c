package model

// ScoreScale is the fixed option scale, most aligned first
var ScoreScale = []int{8, 6, 4, 2}

// OptionsPerQuestion is the conventional option count per question
const OptionsPerQuestion = 4

// CoreValue is a named organizational principle. Values have no identity of
// their own; their position in the owner's list identifies them.
type CoreValue struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Option is one answer choice of a question
type Option struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Question is a scored multiple-choice workplace scenario
type Question struct {
	ID         int      `json:"id"`          // 1-based, contiguous within a test
	Text       string   `json:"text"`        // scenario prompt
	CoreValues []string `json:"core_values"` // names, not full records
	Options    []Option `json:"options"`
}

// IsOnScale reports whether score is one of the fixed scale levels
func IsOnScale(score int) bool {
	for _, s := range ScoreScale {
		if s == score {
			return true
		}
	}
	return false
}

// CopyCoreValues returns an independent copy of values, never nil
func CopyCoreValues(values []CoreValue) []CoreValue {
	out := make([]CoreValue, len(values))
	copy(out, values)
	return out
}

// CoreValueNames returns the names of values in order
func CoreValueNames(values []CoreValue) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return names
}

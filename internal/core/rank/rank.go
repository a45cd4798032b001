// Package rank defines the fixed ordered sequence of infraction labels.
// Row 2 of every week block carries these labels in order; the terminal
// label both closes a block and triggers alert dispatch.
package rank

// Labels is the ordered rank sequence. Index 0 is the lowest rank.
var Labels = []string{
	"1st Offense",
	"2nd Offense",
	"3rd Offense",
	"4th Offense",
	"5th Offense",
}

// Count is the number of ranks, and therefore the width of a week block.
func Count() int {
	return len(Labels)
}

// Terminal returns the highest rank label.
func Terminal() string {
	return Labels[len(Labels)-1]
}

// Index returns the 1-based ordinal of a rank label, or 0 if the label
// is not a recognized rank.
func Index(label string) int {
	for i, l := range Labels {
		if l == label {
			return i + 1
		}
	}
	return 0
}

// IsRank reports whether label is one of the recognized rank labels.
func IsRank(label string) bool {
	return Index(label) > 0
}

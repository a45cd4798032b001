package rank

import "testing"

func TestIndex(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"1st Offense", 1},
		{"3rd Offense", 3},
		{"5th Offense", 5},
		{"6th Offense", 0},
		{"", 0},
		{"Grade", 0},
	}

	for _, tt := range tests {
		if got := Index(tt.label); got != tt.want {
			t.Errorf("Index(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	if Terminal() != "5th Offense" {
		t.Errorf("Terminal() = %q, want %q", Terminal(), "5th Offense")
	}
	if !IsRank(Terminal()) {
		t.Error("Terminal() should be a recognized rank")
	}
}

func TestCountMatchesLabels(t *testing.T) {
	if Count() != len(Labels) {
		t.Errorf("Count() = %d, want %d", Count(), len(Labels))
	}
}

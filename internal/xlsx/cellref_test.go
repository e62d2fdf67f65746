package xlsx

import "testing"

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ColumnLetter(tt.index); got != tt.want {
				t.Errorf("ColumnLetter(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want int
	}{
		{"single letter", "A1", 1},
		{"two letters", "AA10", 27},
		{"lowercase", "c7", 3},
		{"letters only", "ZZ", 702},
		{"no letters", "17", 1},
		{"empty", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnIndex(tt.ref); got != tt.want {
				t.Errorf("ColumnIndex(%q) = %d, want %d", tt.ref, got, tt.want)
			}
		})
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for n := 1; n <= 2000; n++ {
		if got := ColumnIndex(ColumnLetter(n)); got != n {
			t.Fatalf("ColumnIndex(ColumnLetter(%d)) = %d", n, got)
		}
	}
}

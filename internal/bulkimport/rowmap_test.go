package bulkimport

import (
	"reflect"
	"testing"

	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want NaturalKey
	}{
		{"simple", "General Knowledge", "general-knowledge"},
		{"punctuation collapses", "C++ & Go!", "c-go"},
		{"leading and trailing runs trimmed", "  --Math--  ", "math"},
		{"already a slug", "history", "history"},
		{"nothing left", "!!!", "subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name string
		cell xlsx.Cell
		def  bool
		want bool
	}{
		{"literal true", xlsx.Bool(true), false, true},
		{"literal false", xlsx.Bool(false), true, false},
		{"yes", xlsx.Text("Yes"), false, true},
		{"publish", xlsx.Text("publish"), false, true},
		{"one", xlsx.Text("1"), false, true},
		{"draft", xlsx.Text("Draft"), true, false},
		{"zero", xlsx.Text("0"), true, false},
		{"absent uses default", xlsx.Absent(), true, true},
		{"unknown uses default", xlsx.Text("maybe"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBool(tt.cell, tt.def); got != tt.want {
				t.Errorf("parseBool = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"commas", "a, b, c", []string{"a", "b", "c"}},
		{"semicolons", "a; b;c", []string{"a", "b", "c"}},
		{"pipes", "a|b | c", []string{"a", "b", "c"}},
		{"mixed", "a, b; c|d", []string{"a", "b", "c", "d"}},
		{"blank segments dropped", "a,, ,b", []string{"a", "b"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPickFollowsAliasOrder(t *testing.T) {
	headers := headerNames(xlsx.Row{xlsx.Text("Quiz"), xlsx.Text("Title")})
	m := newRowMap(headers, xlsx.Row{xlsx.Text("from quiz col"), xlsx.Text("from title col")})
	// "title" precedes "quiz" in the alias list, so the Title column wins
	// even though Quiz appears first in the sheet.
	if got := m.pickString(quizTitleAliases); got != "from title col" {
		t.Errorf("pickString = %q, want %q", got, "from title col")
	}
}

func TestExtractOptions(t *testing.T) {
	headers := headerNames(xlsx.Row{
		xlsx.Text("Prompt"), xlsx.Text("Option 1"), xlsx.Text("Option 2"),
		xlsx.Text("Option 3"), xlsx.Text("Correct Option"),
	})
	row := xlsx.Row{
		xlsx.Text("Q"), xlsx.Text("alpha"), xlsx.Absent(), xlsx.Text("gamma"), xlsx.Text("alpha"),
	}
	got := extractOptions(headers, row)
	want := []optionColumn{
		{header: "option 1", text: "alpha"},
		{header: "option 3", text: "gamma"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractOptions = %v, want %v", got, want)
	}
}

func TestResolveCorrectIndex(t *testing.T) {
	options := []optionColumn{
		{header: "option 1", text: "Paris"},
		{header: "option 2", text: "London"},
		{header: "option 3", text: "Madrid"},
	}
	tests := []struct {
		name    string
		correct string
		want    int
	}{
		{"by option text", "london", 1},
		{"by full header", "Option 3", 2},
		{"by stripped header", "2", 1},
		{"by letter", "c", 2},
		{"first letter", "A", 0},
		{"no match", "Rome", -1},
		{"blank", "  ", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCorrectIndex(options, tt.correct); got != tt.want {
				t.Errorf("resolveCorrectIndex(%q) = %d, want %d", tt.correct, got, tt.want)
			}
		})
	}
}

func TestResolveCorrectTextBeatsPosition(t *testing.T) {
	// "1" is option 2's text and also option 1's position; the text
	// derivation of an earlier slot is checked before later slots, so slot
	// order decides.
	options := []optionColumn{
		{header: "option 1", text: "2"},
		{header: "option 2", text: "1"},
	}
	if got := resolveCorrectIndex(options, "1"); got != 0 {
		t.Errorf("resolveCorrectIndex = %d, want 0 (position candidate of slot 1)", got)
	}
}

func TestIsBlankRow(t *testing.T) {
	if !isBlankRow(xlsx.Row{xlsx.Absent(), xlsx.Text("   ")}) {
		t.Error("row of absent and whitespace cells should be blank")
	}
	if isBlankRow(xlsx.Row{xlsx.Absent(), xlsx.Text("x")}) {
		t.Error("row with text should not be blank")
	}
	if isBlankRow(xlsx.Row{xlsx.Bool(false)}) {
		t.Error("boolean cell should count as content")
	}
}

package bulkimport

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

func mustWorkbook(t *testing.T, sheets []xlsx.Sheet) []byte {
	t.Helper()
	data, err := xlsx.Write(sheets)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return data
}

func TestParseWorkbookFullUpload(t *testing.T) {
	data := mustWorkbook(t, []xlsx.Sheet{
		{Name: "Categories", Rows: xlsx.Grid{
			{xlsx.Text("Name"), xlsx.Text("Description"), xlsx.Text("Icon")},
			{xlsx.Text("Science"), xlsx.Text("Natural sciences"), xlsx.Text("flask")},
			{xlsx.Absent(), xlsx.Absent(), xlsx.Absent()},
			{xlsx.Text("History"), xlsx.Absent(), xlsx.Absent()},
		}},
		{Name: "Quizzes", Rows: xlsx.Grid{
			{xlsx.Text("Title"), xlsx.Text("Description"), xlsx.Text("Is Active"), xlsx.Text("Questions")},
			{xlsx.Text("Starter"), xlsx.Text("First quiz"), xlsx.Text("draft"), xlsx.Text("What boils water?; Who was first?")},
		}},
		{Name: "Question Bank", Rows: xlsx.Grid{
			{
				xlsx.Text("Prompt"), xlsx.Text("Explanation"), xlsx.Text("Subject"),
				xlsx.Text("Difficulty"), xlsx.Text("Is Active"), xlsx.Text("Category"),
				xlsx.Text("Option 1"), xlsx.Text("Option 2"), xlsx.Text("Correct Option"),
				xlsx.Text("Quizzes"),
			},
			{
				xlsx.Text("What boils water?"), xlsx.Text("Heat."), xlsx.Text("Physics"),
				xlsx.Text("Easy"), xlsx.Bool(true), xlsx.Text("Science"),
				xlsx.Text("Heat"), xlsx.Text("Cold"), xlsx.Text("Option 1"),
				xlsx.Text("Starter"),
			},
		}},
	})

	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(parsed.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", parsed.Warnings)
	}

	// The blank row is skipped but row numbering still reflects the sheet.
	if len(parsed.Subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(parsed.Subjects))
	}
	if parsed.Subjects[1].SourceRow != 4 || parsed.Subjects[1].Name != "History" {
		t.Errorf("second subject = row %d name %q, want row 4 History",
			parsed.Subjects[1].SourceRow, parsed.Subjects[1].Name)
	}

	quiz := parsed.Quizzes[0]
	if quiz.IsActive {
		t.Error("quiz marked 'draft' should be inactive")
	}
	if want := []string{"What boils water?", "Who was first?"}; !reflect.DeepEqual(quiz.QuestionPrompts, want) {
		t.Errorf("quiz prompts = %v, want %v", quiz.QuestionPrompts, want)
	}

	question := parsed.Questions[0]
	if len(question.Errors) != 0 {
		t.Fatalf("question errors = %v, want none", question.Errors)
	}
	if question.Topic != "Physics" || question.SubjectName != "Science" {
		t.Errorf("topic %q subject %q, want Physics/Science", question.Topic, question.SubjectName)
	}
	if !question.Options[0].IsCorrect || question.Options[1].IsCorrect {
		t.Errorf("correct flags = %v, want first option correct", question.Options)
	}
}

func TestParseWorkbookAccumulatesRowErrors(t *testing.T) {
	data := mustWorkbook(t, []xlsx.Sheet{
		{Name: "Questions", Rows: xlsx.Grid{
			{xlsx.Text("Prompt"), xlsx.Text("Category"), xlsx.Text("Option 1"), xlsx.Text("Correct Option")},
			{xlsx.Absent(), xlsx.Absent(), xlsx.Text("only one"), xlsx.Text("nope")},
		}},
	})

	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	question := parsed.Questions[0]
	want := []string{
		"Question prompt is required.",
		"Subject name is required for each question.",
		"Provide at least two options.",
		"Select a correct option.",
	}
	if !reflect.DeepEqual(question.Errors, want) {
		t.Errorf("errors = %v, want %v", question.Errors, want)
	}
	// Missing sheets make warnings, never row errors.
	if len(parsed.Warnings) != 2 {
		t.Errorf("warnings = %v, want subjects and quizzes warnings", parsed.Warnings)
	}
}

func TestParseWorkbookMissingSheets(t *testing.T) {
	data := mustWorkbook(t, []xlsx.Sheet{
		{Name: "Notes", Rows: xlsx.Grid{{xlsx.Text("whatever")}}},
	})
	parsed, err := ParseWorkbook(data)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(parsed.Warnings) != 3 {
		t.Errorf("warnings = %v, want 3", parsed.Warnings)
	}
	if len(parsed.Subjects)+len(parsed.Quizzes)+len(parsed.Questions) != 0 {
		t.Error("no records expected from unrecognized sheets")
	}
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	_, err := ParseWorkbook([]byte("not a zip archive"))
	var formatErr *xlsx.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("err = %v, want *xlsx.FormatError", err)
	}
}

package bulkimport

import (
	"fmt"
	"strings"

	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

// ExportSubject is a subject flattened for the workbook.
type ExportSubject struct {
	Name        string
	Description string
	Icon        string
}

type ExportQuiz struct {
	Title           string
	Description     string
	IsActive        bool
	QuestionPrompts []string
}

type ExportQuestionOption struct {
	Text      string
	IsCorrect bool
}

type ExportQuestion struct {
	Prompt      string
	Explanation string
	Topic       string
	Difficulty  string
	IsActive    bool
	SubjectName string
	QuizTitles  []string
	Options     []ExportQuestionOption
}

// BuildWorkbook renders an export that re-imports cleanly: the sheet names
// and column headers are the same ones the parser accepts, and the correct
// answer is written as an "Option N" reference so it survives option text
// edits.
func BuildWorkbook(subjects []ExportSubject, quizzes []ExportQuiz, questions []ExportQuestion) ([]byte, error) {
	subjectRows := xlsx.Grid{headerRow("Name", "Description", "Icon")}
	for _, subject := range subjects {
		subjectRows = append(subjectRows, xlsx.Row{
			xlsx.Text(subject.Name),
			textOrAbsent(subject.Description),
			textOrAbsent(subject.Icon),
		})
	}

	quizRows := xlsx.Grid{headerRow("Title", "Description", "Is Active", "Questions")}
	for _, quiz := range quizzes {
		quizRows = append(quizRows, xlsx.Row{
			xlsx.Text(quiz.Title),
			textOrAbsent(quiz.Description),
			xlsx.Bool(quiz.IsActive),
			textOrAbsent(strings.Join(quiz.QuestionPrompts, ", ")),
		})
	}

	optionWidth := 2
	for _, question := range questions {
		if len(question.Options) > optionWidth {
			optionWidth = len(question.Options)
		}
	}
	questionHeaders := []string{"Prompt", "Explanation", "Subject", "Difficulty", "Is Active", "Category"}
	for i := 1; i <= optionWidth; i++ {
		questionHeaders = append(questionHeaders, fmt.Sprintf("Option %d", i))
	}
	questionHeaders = append(questionHeaders, "Correct Option", "Quizzes")

	questionRows := xlsx.Grid{headerRow(questionHeaders...)}
	for _, question := range questions {
		row := xlsx.Row{
			xlsx.Text(question.Prompt),
			textOrAbsent(question.Explanation),
			textOrAbsent(question.Topic),
			textOrAbsent(question.Difficulty),
			xlsx.Bool(question.IsActive),
			xlsx.Text(question.SubjectName),
		}
		correct := -1
		for i := 0; i < optionWidth; i++ {
			if i < len(question.Options) {
				row = append(row, textOrAbsent(question.Options[i].Text))
				if question.Options[i].IsCorrect && correct < 0 {
					correct = i
				}
			} else {
				row = append(row, xlsx.Absent())
			}
		}
		if correct >= 0 {
			row = append(row, xlsx.Text(fmt.Sprintf("Option %d", correct+1)))
		} else {
			row = append(row, xlsx.Absent())
		}
		row = append(row, textOrAbsent(strings.Join(question.QuizTitles, ", ")))
		questionRows = append(questionRows, row)
	}

	return xlsx.Write([]xlsx.Sheet{
		{Name: "Subjects", Rows: subjectRows},
		{Name: "Quizzes", Rows: quizRows},
		{Name: "Questions", Rows: questionRows},
	})
}

// BuildTemplate renders a one-row-per-sheet starter workbook demonstrating
// the expected format.
func BuildTemplate() ([]byte, error) {
	subjects := []ExportSubject{
		{Name: "General Knowledge", Description: "Mixed trivia sample", Icon: "sparkles"},
	}
	quizzes := []ExportQuiz{
		{
			Title:           "General Quiz",
			Description:     "Starter quiz to demonstrate the format",
			IsActive:        true,
			QuestionPrompts: []string{"What is 2 + 2?"},
		},
	}
	questions := []ExportQuestion{
		{
			Prompt:      "What is 2 + 2?",
			Explanation: "Basic arithmetic question.",
			Topic:       "Mathematics",
			Difficulty:  "Easy",
			IsActive:    true,
			SubjectName: "General Knowledge",
			QuizTitles:  []string{"General Quiz"},
			Options: []ExportQuestionOption{
				{Text: "4", IsCorrect: true},
				{Text: "5"},
				{Text: "3"},
				{Text: "22"},
			},
		},
	}
	return BuildWorkbook(subjects, quizzes, questions)
}

func headerRow(names ...string) xlsx.Row {
	row := make(xlsx.Row, len(names))
	for i, name := range names {
		row[i] = xlsx.Text(name)
	}
	return row
}

// textOrAbsent keeps empty optionals out of the sheet entirely.
func textOrAbsent(s string) xlsx.Cell {
	if s == "" {
		return xlsx.Absent()
	}
	return xlsx.Text(s)
}

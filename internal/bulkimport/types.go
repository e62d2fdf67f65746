// Package bulkimport implements the bulk content interchange pipeline:
// parsing an uploaded workbook into typed records, previewing the import
// against the content store without writing anything, committing an
// operator-approved payload in one transaction, and exporting a scope's
// content back to workbook bytes.
package bulkimport

// ParsedSubject is one row of the subjects sheet.
type ParsedSubject struct {
	SourceRow   int      `json:"source_row"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Errors      []string `json:"errors"`
}

// ParsedQuiz is one row of the quizzes sheet.
type ParsedQuiz struct {
	SourceRow       int      `json:"source_row"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	IsActive        bool     `json:"is_active"`
	QuestionPrompts []string `json:"question_prompts"`
	Errors          []string `json:"errors"`
}

// ParsedQuestionOption is one answer choice extracted from a question row's
// option columns.
type ParsedQuestionOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// ParsedQuestion is one row of the questions sheet. Topic is the free-form
// subject label column; SubjectName references a subjects-sheet entry.
type ParsedQuestion struct {
	SourceRow   int                    `json:"source_row"`
	Prompt      string                 `json:"prompt"`
	Explanation string                 `json:"explanation,omitempty"`
	Topic       string                 `json:"topic,omitempty"`
	Difficulty  string                 `json:"difficulty,omitempty"`
	IsActive    bool                   `json:"is_active"`
	SubjectName string                 `json:"subject_name"`
	QuizTitles  []string               `json:"quiz_titles"`
	Options     []ParsedQuestionOption `json:"options"`
	Errors      []string               `json:"errors"`
}

// ParsedWorkbook aggregates the three parsed sheets plus sheet-level
// warnings such as a sheet not being found by name.
type ParsedWorkbook struct {
	Subjects  []ParsedSubject  `json:"subjects"`
	Quizzes   []ParsedQuiz     `json:"quizzes"`
	Questions []ParsedQuestion `json:"questions"`
	Warnings  []string         `json:"warnings"`
}

package bulkimport

import (
	"strings"

	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

// Sheet role aliases, matched case-insensitively and ignoring
// non-alphanumeric characters, so "Category Setup" and "categories" both
// resolve to the subjects role.
var (
	subjectSheetAliases  = []string{"subjects", "subject", "subjectsetup", "categories", "category", "categorysetup"}
	quizSheetAliases     = []string{"quizzes", "quiz", "quizsetup"}
	questionSheetAliases = []string{"questions", "questionbank", "items"}
)

// ParseWorkbook reads uploaded workbook bytes into typed per-sheet records.
//
// It fails only when the bytes are unreadable as a package (*xlsx.FormatError);
// every data problem is reported as a per-record error or a workbook-level
// warning so the operator sees the full picture in one pass.
func ParseWorkbook(data []byte) (*ParsedWorkbook, error) {
	wb, err := xlsx.Read(data)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedWorkbook{}

	if grid, ok := locateSheet(wb, subjectSheetAliases); ok {
		parsed.Subjects = parseSubjects(grid)
	} else {
		parsed.Warnings = append(parsed.Warnings, "Subjects sheet not found. Expected a sheet named 'Subjects'.")
	}
	if grid, ok := locateSheet(wb, quizSheetAliases); ok {
		parsed.Quizzes = parseQuizzes(grid)
	} else {
		parsed.Warnings = append(parsed.Warnings, "Quizzes sheet not found. Expected a sheet named 'Quizzes'.")
	}
	if grid, ok := locateSheet(wb, questionSheetAliases); ok {
		parsed.Questions = parseQuestions(grid)
	} else {
		parsed.Warnings = append(parsed.Warnings, "Questions sheet not found. Expected a sheet named 'Questions'.")
	}
	return parsed, nil
}

// locateSheet finds the first sheet whose normalized display name matches
// one of the role aliases.
func locateSheet(wb *xlsx.Workbook, aliases []string) (xlsx.Grid, bool) {
	for _, alias := range aliases {
		for _, sheet := range wb.Sheets {
			if normalizeSheetName(sheet.Name) == alias {
				return sheet.Rows, true
			}
		}
	}
	return nil, false
}

// normalizeSheetName lower-cases a sheet name and strips everything outside
// [a-z0-9].
func normalizeSheetName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func parseSubjects(grid xlsx.Grid) []ParsedSubject {
	headers, rows := splitHeader(grid)
	var subjects []ParsedSubject
	for i, row := range rows {
		sourceRow := i + 2
		if isBlankRow(row) {
			continue
		}
		m := newRowMap(headers, row)
		subject := ParsedSubject{
			SourceRow:   sourceRow,
			Name:        m.pickString(subjectNameAliases),
			Description: m.pickString(subjectDescAliases),
			Icon:        m.pickString(subjectIconAliases),
		}
		if subject.Name == "" {
			subject.Errors = append(subject.Errors, "Subject name is required.")
		}
		subjects = append(subjects, subject)
	}
	return subjects
}

func parseQuizzes(grid xlsx.Grid) []ParsedQuiz {
	headers, rows := splitHeader(grid)
	var quizzes []ParsedQuiz
	for i, row := range rows {
		sourceRow := i + 2
		if isBlankRow(row) {
			continue
		}
		m := newRowMap(headers, row)
		quiz := ParsedQuiz{
			SourceRow:       sourceRow,
			Title:           m.pickString(quizTitleAliases),
			Description:     m.pickString(quizDescAliases),
			IsActive:        m.pickBool(activeAliases, true),
			QuestionPrompts: splitList(m.pickString(quizPromptsAliases)),
		}
		if quiz.Title == "" {
			quiz.Errors = append(quiz.Errors, "Quiz title is required.")
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes
}

func parseQuestions(grid xlsx.Grid) []ParsedQuestion {
	headers, rows := splitHeader(grid)
	var questions []ParsedQuestion
	for i, row := range rows {
		sourceRow := i + 2
		if isBlankRow(row) {
			continue
		}
		m := newRowMap(headers, row)

		optionCols := extractOptions(headers, row)
		correctIdx := resolveCorrectIndex(optionCols, m.pickString(correctAliases))
		options := make([]ParsedQuestionOption, len(optionCols))
		for idx, opt := range optionCols {
			options[idx] = ParsedQuestionOption{Text: opt.text, IsCorrect: idx == correctIdx}
		}

		question := ParsedQuestion{
			SourceRow:   sourceRow,
			Prompt:      m.pickString(promptAliases),
			Explanation: m.pickString(explanationAliases),
			Topic:       m.pickString(topicAliases),
			Difficulty:  m.pickString(difficultyAliases),
			IsActive:    m.pickBool(activeAliases, true),
			SubjectName: m.pickString(subjectRefAliases),
			QuizTitles:  splitList(m.pickString(quizTitlesAliases)),
			Options:     options,
		}

		// Every failed condition is reported, not just the first, so the
		// operator can fix a row in one round trip.
		if question.Prompt == "" {
			question.Errors = append(question.Errors, "Question prompt is required.")
		}
		if question.SubjectName == "" {
			question.Errors = append(question.Errors, "Subject name is required for each question.")
		}
		if len(question.Options) < 2 {
			question.Errors = append(question.Errors, "Provide at least two options.")
		}
		if !hasCorrectOption(question.Options) {
			question.Errors = append(question.Errors, "Select a correct option.")
		}

		questions = append(questions, question)
	}
	return questions
}

func hasCorrectOption(options []ParsedQuestionOption) bool {
	for _, opt := range options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

// splitHeader separates a grid into its normalized header names and data
// rows. An empty grid yields no rows.
func splitHeader(grid xlsx.Grid) ([]string, xlsx.Grid) {
	if len(grid) == 0 {
		return nil, nil
	}
	return headerNames(grid[0]), grid[1:]
}

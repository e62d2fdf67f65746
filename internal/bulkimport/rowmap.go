package bulkimport

import (
	"strconv"
	"strings"

	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

// optionPrefix marks a header as an option slot, in left-to-right column
// order.
const optionPrefix = "option"

// Field alias tables. Each logical field lists its acceptable headers in
// order of preference; matching is against normalized (lower-cased,
// trimmed) header text.
var (
	subjectNameAliases = []string{"name", "category", "category name"}
	subjectDescAliases = []string{"description", "details", "summary"}
	subjectIconAliases = []string{"icon", "emoji"}

	quizTitleAliases   = []string{"title", "quiz", "name"}
	quizDescAliases    = []string{"description", "details"}
	activeAliases      = []string{"is active", "active", "status"}
	quizPromptsAliases = []string{"questions", "question prompts", "prompt list"}

	promptAliases      = []string{"prompt", "question", "text"}
	explanationAliases = []string{"explanation", "rationale", "notes"}
	topicAliases       = []string{"subject", "topic"}
	difficultyAliases  = []string{"difficulty", "level"}
	subjectRefAliases  = []string{"category", "category name"}
	correctAliases     = []string{"correct option", "answer", "correct"}
	quizTitlesAliases  = []string{"quizzes", "quiz titles", "assign to quizzes"}
)

// rowMap pairs a sheet's normalized header row with one data row, giving
// alias-based field lookup. A header with no non-blank characters is ignored
// for field lookup but still occupies its column position, which matters for
// option extraction.
type rowMap struct {
	headers []string
	row     xlsx.Row
}

// headerNames normalizes a header row: lower-case, trimmed, blank headers
// kept as empty strings to preserve column positions.
func headerNames(header xlsx.Row) []string {
	names := make([]string, len(header))
	for i, cell := range header {
		names[i] = strings.ToLower(strings.TrimSpace(cell.String()))
	}
	return names
}

func newRowMap(headers []string, row xlsx.Row) rowMap {
	return rowMap{headers: headers, row: row}
}

// pick returns the cell under the first alias that matches a header, or an
// absent cell when none do.
func (m rowMap) pick(aliases []string) xlsx.Cell {
	for _, alias := range aliases {
		for col, header := range m.headers {
			if header != "" && header == alias {
				return m.row.Cell(col + 1)
			}
		}
	}
	return xlsx.Absent()
}

// pickString returns the trimmed text of the first matching field, or ""
// when the field is absent or blank.
func (m rowMap) pickString(aliases []string) string {
	return strings.TrimSpace(m.pick(aliases).String())
}

// pickBool parses the first matching field as a boolean, falling back to
// def for absent or unrecognized values.
func (m rowMap) pickBool(aliases []string, def bool) bool {
	return parseBool(m.pick(aliases), def)
}

// parseBool maps a cell to a boolean. Literal boolean cells pass through;
// text cells match a fixed synonym set case-insensitively; anything else,
// including absent, yields the caller's default.
func parseBool(cell xlsx.Cell, def bool) bool {
	if cell.Kind == xlsx.CellBool {
		return cell.Bool
	}
	switch strings.ToLower(strings.TrimSpace(cell.String())) {
	case "true", "yes", "y", "1", "active", "publish":
		return true
	case "false", "no", "n", "0", "inactive", "draft":
		return false
	default:
		return def
	}
}

// splitList splits a delimited list cell on commas, semicolons, or pipes
// (interchangeable within one cell) into trimmed non-empty segments, order
// preserved.
func splitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, ";", ",")
	value = strings.ReplaceAll(value, "|", ",")
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// optionColumn is one populated option slot: its normalized header and the
// row's trimmed cell text.
type optionColumn struct {
	header string
	text   string
}

// extractOptions collects the row's populated option slots. Any header
// beginning with "option" is a slot; blank cells are skipped but column
// order is preserved. Minimum-count enforcement happens later, in the sheet
// parser.
func extractOptions(headers []string, row xlsx.Row) []optionColumn {
	var options []optionColumn
	for col, header := range headers {
		if header == "" || !strings.HasPrefix(header, optionPrefix) {
			continue
		}
		text := strings.TrimSpace(row.Cell(col + 1).String())
		if text == "" {
			continue
		}
		options = append(options, optionColumn{header: header, text: text})
	}
	return options
}

// resolveCorrectIndex matches a free-form "correct option" value against
// each option slot's candidate derivations in order: the option's own text,
// its full header, its header with the option prefix stripped, its 1-based
// position, and (for the first 26 slots) a single letter by position. First
// match wins; no match yields -1 and the caller surfaces it as a validation
// error rather than a parse failure.
func resolveCorrectIndex(options []optionColumn, correct string) int {
	normalized := strings.ToLower(strings.TrimSpace(correct))
	if normalized == "" {
		return -1
	}
	for idx, opt := range options {
		candidates := []string{
			strings.ToLower(opt.text),
			opt.header,
			strings.TrimSpace(strings.TrimPrefix(opt.header, optionPrefix)),
			strconv.Itoa(idx + 1),
		}
		if idx < 26 {
			candidates = append(candidates, string(rune('a'+idx)))
		}
		for _, candidate := range candidates {
			if normalized == candidate {
				return idx
			}
		}
	}
	return -1
}

// isBlankRow reports whether every cell in the row is absent or blank text.
func isBlankRow(row xlsx.Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell.String()) != "" {
			return false
		}
	}
	return true
}

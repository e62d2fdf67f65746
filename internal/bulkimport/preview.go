package bulkimport

import (
	"context"
	"fmt"

	"github.com/shekhar1luitel/quizHub/internal/content"
)

// Actions a preview record can take on commit.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// SubjectPreview is a reconciled subject row: the parsed fields plus the
// derived slug, the planned action, and every problem found so far.
type SubjectPreview struct {
	SourceRow   int      `json:"source_row"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Slug        string   `json:"slug"`
	Action      string   `json:"action"`
	Errors      []string `json:"errors"`
}

type QuizPreview struct {
	SourceRow       int      `json:"source_row"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	IsActive        bool     `json:"is_active"`
	QuestionPrompts []string `json:"question_prompts"`
	Action          string   `json:"action"`
	Errors          []string `json:"errors"`
}

type QuestionPreview struct {
	SourceRow   int                    `json:"source_row"`
	Prompt      string                 `json:"prompt"`
	Explanation string                 `json:"explanation,omitempty"`
	Topic       string                 `json:"topic,omitempty"`
	Difficulty  string                 `json:"difficulty,omitempty"`
	IsActive    bool                   `json:"is_active"`
	SubjectName string                 `json:"subject_name"`
	QuizTitles  []string               `json:"quiz_titles"`
	Options     []ParsedQuestionOption `json:"options"`
	Action      string                 `json:"action"`
	Errors      []string               `json:"errors"`
}

// Preview is the full read-only reconciliation of an uploaded workbook
// against the catalog. It is safe to recompute any number of times; nothing
// is written.
type Preview struct {
	Subjects  []SubjectPreview  `json:"subjects"`
	Quizzes   []QuizPreview     `json:"quizzes"`
	Questions []QuestionPreview `json:"questions"`
	Warnings  []string          `json:"warnings"`
}

// Catalog answers natural-key lookups across every tenant scope. The
// returned maps carry all matches for a key so cross-tenant collisions are
// visible to the caller.
type Catalog interface {
	SubjectRefs(ctx context.Context, keys []string) (map[string][]content.Ref, error)
	QuizRefs(ctx context.Context, keys []string) (map[string][]content.Ref, error)
	QuestionRefs(ctx context.Context, keys []string) (map[string][]content.Ref, error)
}

// BuildPreview reconciles a parsed workbook against the catalog for one
// tenant scope. A key owned by the target scope classifies the record as an
// update. A key owned only by a different scope is a hard conflict: the
// record keeps action create and carries a "belongs to another organization"
// error so it is never silently shadowed.
func BuildPreview(ctx context.Context, catalog Catalog, scope content.Scope, parsed *ParsedWorkbook) (*Preview, error) {
	subjectRefs, err := catalog.SubjectRefs(ctx, subjectKeys(parsed))
	if err != nil {
		return nil, fmt.Errorf("look up subjects: %w", err)
	}
	quizRefs, err := catalog.QuizRefs(ctx, quizKeys(parsed))
	if err != nil {
		return nil, fmt.Errorf("look up quizzes: %w", err)
	}
	questionRefs, err := catalog.QuestionRefs(ctx, questionKeys(parsed))
	if err != nil {
		return nil, fmt.Errorf("look up questions: %w", err)
	}

	preview := &Preview{Warnings: parsed.Warnings}

	slugCounts := map[string]int{}
	for _, subject := range parsed.Subjects {
		slug := ""
		if subject.Name != "" {
			slug = string(Slugify(subject.Name))
		}
		errs := append([]string(nil), subject.Errors...)
		if slug != "" {
			slugCounts[slug]++
			if slugCounts[slug] > 1 {
				errs = append(errs, "Duplicate subject name in the workbook.")
			}
		}
		action, conflict := classify(subjectRefs[slug], scope)
		if conflict {
			errs = append(errs, "Subject belongs to another organization.")
		}
		preview.Subjects = append(preview.Subjects, SubjectPreview{
			SourceRow:   subject.SourceRow,
			Name:        subject.Name,
			Description: subject.Description,
			Icon:        subject.Icon,
			Slug:        slug,
			Action:      action,
			Errors:      errs,
		})
	}

	// Slugs usable as question subject references: clean rows from this
	// upload plus anything the target scope already owns.
	validSlugs := map[string]bool{}
	for _, item := range preview.Subjects {
		if item.Slug != "" && len(item.Errors) == 0 {
			validSlugs[item.Slug] = true
		}
	}
	for slug, refs := range subjectRefs {
		if anyInScope(refs, scope) {
			validSlugs[slug] = true
		}
	}

	availablePrompts := map[string]bool{}
	for _, question := range parsed.Questions {
		if key := string(TextKey(question.Prompt)); key != "" {
			availablePrompts[key] = true
		}
	}
	for key, refs := range questionRefs {
		if anyInScope(refs, scope) {
			availablePrompts[key] = true
		}
	}

	titleCounts := map[string]int{}
	for _, quiz := range parsed.Quizzes {
		key := string(TextKey(quiz.Title))
		errs := append([]string(nil), quiz.Errors...)
		if key != "" {
			titleCounts[key]++
			if titleCounts[key] > 1 {
				errs = append(errs, "Duplicate quiz title in the workbook.")
			}
		}
		action, conflict := classify(quizRefs[key], scope)
		if conflict {
			errs = append(errs, "Quiz belongs to another organization.")
		}
		for _, prompt := range quiz.QuestionPrompts {
			promptKey := string(TextKey(prompt))
			if promptKey != "" && !availablePrompts[promptKey] {
				errs = append(errs, fmt.Sprintf("Question '%s' is not defined in this import or library.", prompt))
			}
		}
		preview.Quizzes = append(preview.Quizzes, QuizPreview{
			SourceRow:       quiz.SourceRow,
			Title:           quiz.Title,
			Description:     quiz.Description,
			IsActive:        quiz.IsActive,
			QuestionPrompts: quiz.QuestionPrompts,
			Action:          action,
			Errors:          errs,
		})
	}

	availableTitles := map[string]bool{}
	for _, quiz := range parsed.Quizzes {
		if key := string(TextKey(quiz.Title)); key != "" {
			availableTitles[key] = true
		}
	}
	for key, refs := range quizRefs {
		if anyInScope(refs, scope) {
			availableTitles[key] = true
		}
	}

	promptCounts := map[string]int{}
	for _, question := range parsed.Questions {
		key := string(TextKey(question.Prompt))
		errs := append([]string(nil), question.Errors...)
		if key != "" {
			promptCounts[key]++
			if promptCounts[key] > 1 {
				errs = append(errs, "Duplicate question prompt in the workbook.")
			}
		}
		if question.SubjectName != "" {
			slug := string(Slugify(question.SubjectName))
			if !validSlugs[slug] {
				errs = append(errs, fmt.Sprintf("Subject '%s' is not defined in the Subjects sheet or existing library.", question.SubjectName))
			}
		}
		for _, title := range question.QuizTitles {
			titleKey := string(TextKey(title))
			if titleKey != "" && !availableTitles[titleKey] {
				errs = append(errs, fmt.Sprintf("Quiz '%s' is not defined in the Quizzes sheet or existing library.", title))
			}
		}
		action, conflict := classify(questionRefs[key], scope)
		if conflict {
			errs = append(errs, "Question belongs to another organization.")
		}
		preview.Questions = append(preview.Questions, QuestionPreview{
			SourceRow:   question.SourceRow,
			Prompt:      question.Prompt,
			Explanation: question.Explanation,
			Topic:       question.Topic,
			Difficulty:  question.Difficulty,
			IsActive:    question.IsActive,
			SubjectName: question.SubjectName,
			QuizTitles:  question.QuizTitles,
			Options:     question.Options,
			Action:      action,
			Errors:      errs,
		})
	}

	return preview, nil
}

// classify decides the commit action for a natural key. Ownership by the
// target scope wins over matches in any other scope; a key held only
// elsewhere is a conflict and stays a create so the catalog state is never
// overwritten across tenants.
func classify(refs []content.Ref, scope content.Scope) (action string, conflict bool) {
	if anyInScope(refs, scope) {
		return ActionUpdate, false
	}
	if len(refs) > 0 {
		return ActionCreate, true
	}
	return ActionCreate, false
}

func anyInScope(refs []content.Ref, scope content.Scope) bool {
	for _, ref := range refs {
		if scope.Contains(ref.OrgID) {
			return true
		}
	}
	return false
}

// The key collectors gather every natural key the preview must resolve:
// the upload's own rows of that kind plus every cross-sheet reference to
// that kind. A reference to content that lives only in the catalog still
// has to reach the lookup or it would be reported as undefined.

func subjectKeys(parsed *ParsedWorkbook) []string {
	keys := newKeySet()
	for _, subject := range parsed.Subjects {
		if subject.Name != "" {
			keys.add(string(Slugify(subject.Name)))
		}
	}
	for _, question := range parsed.Questions {
		if question.SubjectName != "" {
			keys.add(string(Slugify(question.SubjectName)))
		}
	}
	return keys.slice()
}

func quizKeys(parsed *ParsedWorkbook) []string {
	keys := newKeySet()
	for _, quiz := range parsed.Quizzes {
		keys.add(string(TextKey(quiz.Title)))
	}
	for _, question := range parsed.Questions {
		for _, title := range question.QuizTitles {
			keys.add(string(TextKey(title)))
		}
	}
	return keys.slice()
}

func questionKeys(parsed *ParsedWorkbook) []string {
	keys := newKeySet()
	for _, question := range parsed.Questions {
		keys.add(string(TextKey(question.Prompt)))
	}
	for _, quiz := range parsed.Quizzes {
		for _, prompt := range quiz.QuestionPrompts {
			keys.add(string(TextKey(prompt)))
		}
	}
	return keys.slice()
}

// keySet deduplicates keys while keeping first-occurrence order.
type keySet struct {
	seen map[string]bool
	keys []string
}

func newKeySet() *keySet {
	return &keySet{seen: map[string]bool{}}
}

func (s *keySet) add(key string) {
	if key == "" || s.seen[key] {
		return
	}
	s.seen[key] = true
	s.keys = append(s.keys, key)
}

func (s *keySet) slice() []string {
	return s.keys
}

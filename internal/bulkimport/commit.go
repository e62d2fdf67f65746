package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shekhar1luitel/quizHub/internal/content"
)

// DomainError is a commit rejection the operator can act on. It maps to a
// 400 at the HTTP layer; anything else from Commit is a server fault.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func domainErrf(format string, args ...any) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// CommitSubject is an approved subject record sent back by the operator
// after preview.
type CommitSubject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CommitQuiz struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	IsActive        bool     `json:"is_active"`
	QuestionPrompts []string `json:"question_prompts"`
}

type CommitQuestion struct {
	Prompt      string                 `json:"prompt"`
	Explanation string                 `json:"explanation"`
	Topic       string                 `json:"topic"`
	Difficulty  string                 `json:"difficulty"`
	IsActive    bool                   `json:"is_active"`
	SubjectName string                 `json:"subject_name"`
	QuizTitles  []string               `json:"quiz_titles"`
	Options     []ParsedQuestionOption `json:"options"`
}

// CommitPayload is the operator-approved set of records to apply in one
// transaction.
type CommitPayload struct {
	Subjects  []CommitSubject  `json:"subjects"`
	Quizzes   []CommitQuiz     `json:"quizzes"`
	Questions []CommitQuestion `json:"questions"`
}

// CommitResult counts what the transaction did.
type CommitResult struct {
	SubjectsCreated  int `json:"subjects_created"`
	SubjectsUpdated  int `json:"subjects_updated"`
	QuizzesCreated   int `json:"quizzes_created"`
	QuizzesUpdated   int `json:"quizzes_updated"`
	QuestionsCreated int `json:"questions_created"`
	QuestionsUpdated int `json:"questions_updated"`
}

// validatePayload revalidates the payload defensively. The preview already
// surfaced these problems, but commit accepts whatever the client sends.
func validatePayload(payload *CommitPayload) error {
	if len(payload.Subjects) == 0 && len(payload.Questions) == 0 && len(payload.Quizzes) == 0 {
		return domainErrf("No records to import.")
	}
	if err := ensureUniqueSubjects(payload.Subjects); err != nil {
		return err
	}
	if err := ensureValidQuestions(payload.Questions); err != nil {
		return err
	}
	return ensureUniqueQuizzes(payload.Quizzes)
}

func ensureUniqueSubjects(subjects []CommitSubject) error {
	seen := map[string]bool{}
	for _, subject := range subjects {
		name := strings.TrimSpace(subject.Name)
		if name == "" {
			return domainErrf("Subject name cannot be empty.")
		}
		slug := string(Slugify(name))
		if seen[slug] {
			return domainErrf("Duplicate subject name '%s' in payload.", subject.Name)
		}
		seen[slug] = true
	}
	return nil
}

func ensureValidQuestions(questions []CommitQuestion) error {
	seen := map[string]bool{}
	for _, question := range questions {
		prompt := strings.TrimSpace(question.Prompt)
		if prompt == "" {
			return domainErrf("Question prompt cannot be empty.")
		}
		key := strings.ToLower(prompt)
		if seen[key] {
			return domainErrf("Duplicate question prompt '%s' in payload.", question.Prompt)
		}
		seen[key] = true
		if len(question.Options) < 2 {
			return domainErrf("Question '%s' requires at least two options.", question.Prompt)
		}
		if !hasCorrectOption(question.Options) {
			return domainErrf("Question '%s' requires a correct option.", question.Prompt)
		}
	}
	return nil
}

func ensureUniqueQuizzes(quizzes []CommitQuiz) error {
	seen := map[string]bool{}
	for _, quiz := range quizzes {
		title := strings.TrimSpace(quiz.Title)
		if title == "" {
			return domainErrf("Quiz title cannot be empty.")
		}
		key := strings.ToLower(title)
		if seen[key] {
			return domainErrf("Duplicate quiz title '%s' in payload.", quiz.Title)
		}
		seen[key] = true
	}
	return nil
}

// collectQuizPrompts maps quiz title key to the prompts of questions that
// name that quiz in their own quiz_titles column. These assignments merge
// with the quiz sheet's own prompt list at link time.
func collectQuizPrompts(questions []CommitQuestion) map[string][]string {
	mapping := map[string][]string{}
	for _, question := range questions {
		for _, title := range question.QuizTitles {
			trimmed := strings.TrimSpace(title)
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			mapping[key] = append(mapping[key], question.Prompt)
		}
	}
	return mapping
}

// dedupePreserveOrder trims items, drops blanks and case-insensitive
// duplicates, and keeps first-occurrence order.
func dedupePreserveOrder(items []string) []string {
	seen := map[string]bool{}
	var result []string
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		key := strings.ToLower(trimmed)
		if trimmed == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}
	return result
}

// ContentStore is the persistence surface the commit pipeline drives.
// *content.Store satisfies it whether built on a pool or an open
// transaction.
type ContentStore interface {
	SubjectsInScope(ctx context.Context, scope content.Scope) (map[string]content.Subject, error)
	QuizzesInScope(ctx context.Context, scope content.Scope) (map[string]content.Quiz, error)
	QuestionsInScope(ctx context.Context, scope content.Scope, promptKeys []string) (map[string]content.Question, error)
	InsertSubject(ctx context.Context, sub *content.Subject) error
	UpdateSubject(ctx context.Context, sub *content.Subject) error
	InsertQuestion(ctx context.Context, q *content.Question) error
	UpdateQuestion(ctx context.Context, q *content.Question) error
	ReplaceOptions(ctx context.Context, questionID int64, options []content.Option) error
	InsertQuiz(ctx context.Context, q *content.Quiz) error
	UpdateQuiz(ctx context.Context, q *content.Quiz) error
	ReplaceQuizQuestions(ctx context.Context, quizID int64, questionIDs []int64) error
}

// applyCommit runs the upsert pipeline against a store that is expected to
// wrap an open transaction. Order matters: subjects first so questions can
// resolve them, questions next so quiz links can resolve them, quizzes and
// their links last.
func applyCommit(ctx context.Context, store ContentStore, scope content.Scope, payload *CommitPayload) (*CommitResult, error) {
	existingSubjects, err := store.SubjectsInScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	existingQuizzes, err := store.QuizzesInScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}

	quizzesDefined := map[string]bool{}
	for _, quiz := range payload.Quizzes {
		if key := string(TextKey(quiz.Title)); key != "" {
			quizzesDefined[key] = true
		}
	}
	for _, question := range payload.Questions {
		for _, title := range question.QuizTitles {
			key := string(TextKey(title))
			if key == "" || quizzesDefined[key] {
				continue
			}
			if _, ok := existingQuizzes[key]; !ok {
				return nil, domainErrf("Question '%s' references quiz '%s' that is not defined.", question.Prompt, title)
			}
		}
	}

	// Every prompt a quiz link can name must be loadable: payload questions,
	// column assignments, and the quiz sheet's own prompt lists, which may
	// reference questions already persisted in scope.
	quizPromptAssignments := collectQuizPrompts(payload.Questions)
	neededPrompts := make([]string, 0, len(payload.Questions))
	for _, question := range payload.Questions {
		neededPrompts = append(neededPrompts, string(TextKey(question.Prompt)))
	}
	for _, prompts := range quizPromptAssignments {
		for _, prompt := range prompts {
			neededPrompts = append(neededPrompts, string(TextKey(prompt)))
		}
	}
	for _, quiz := range payload.Quizzes {
		for _, prompt := range quiz.QuestionPrompts {
			neededPrompts = append(neededPrompts, string(TextKey(prompt)))
		}
	}
	existingQuestions, err := store.QuestionsInScope(ctx, scope, neededPrompts)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	result := &CommitResult{}

	subjectLookup := existingSubjects
	for _, subject := range payload.Subjects {
		name := strings.TrimSpace(subject.Name)
		slug := string(Slugify(name))
		if existing, ok := subjectLookup[slug]; ok {
			existing.Name = name
			existing.Description = strings.TrimSpace(subject.Description)
			existing.Icon = strings.TrimSpace(subject.Icon)
			if err := store.UpdateSubject(ctx, &existing); err != nil {
				return nil, upsertErr("subject", name, err)
			}
			subjectLookup[slug] = existing
			result.SubjectsUpdated++
		} else {
			created := content.Subject{
				Name:        name,
				Slug:        slug,
				Description: strings.TrimSpace(subject.Description),
				Icon:        strings.TrimSpace(subject.Icon),
				OrgID:       scope.OrgID,
			}
			if err := store.InsertSubject(ctx, &created); err != nil {
				return nil, upsertErr("subject", name, err)
			}
			subjectLookup[slug] = created
			result.SubjectsCreated++
		}
	}

	questionLookup := existingQuestions
	for _, question := range payload.Questions {
		prompt := strings.TrimSpace(question.Prompt)
		promptKey := strings.ToLower(prompt)
		subjectSlug := string(Slugify(question.SubjectName))
		subject, ok := subjectLookup[subjectSlug]
		if !ok {
			return nil, domainErrf("Subject '%s' is not available.", question.SubjectName)
		}

		record, exists := questionLookup[promptKey]
		record.Prompt = prompt
		record.Explanation = strings.TrimSpace(question.Explanation)
		record.Topic = strings.TrimSpace(question.Topic)
		record.Difficulty = strings.TrimSpace(question.Difficulty)
		record.IsActive = question.IsActive
		record.SubjectID = subject.ID
		record.OrgID = scope.OrgID
		if exists {
			if err := store.UpdateQuestion(ctx, &record); err != nil {
				return nil, upsertErr("question", prompt, err)
			}
			result.QuestionsUpdated++
		} else {
			if err := store.InsertQuestion(ctx, &record); err != nil {
				return nil, upsertErr("question", prompt, err)
			}
			result.QuestionsCreated++
		}
		options := make([]content.Option, len(question.Options))
		for i, opt := range question.Options {
			options[i] = content.Option{Text: strings.TrimSpace(opt.Text), IsCorrect: opt.IsCorrect}
		}
		if err := store.ReplaceOptions(ctx, record.ID, options); err != nil {
			return nil, upsertErr("question", prompt, err)
		}
		questionLookup[promptKey] = record
	}

	for _, quiz := range payload.Quizzes {
		title := strings.TrimSpace(quiz.Title)
		titleKey := strings.ToLower(title)
		record, exists := existingQuizzes[titleKey]
		record.Title = title
		record.Description = strings.TrimSpace(quiz.Description)
		record.IsActive = quiz.IsActive
		record.OrgID = scope.OrgID
		if exists {
			if err := store.UpdateQuiz(ctx, &record); err != nil {
				return nil, upsertErr("quiz", title, err)
			}
			result.QuizzesUpdated++
		} else {
			if err := store.InsertQuiz(ctx, &record); err != nil {
				return nil, upsertErr("quiz", title, err)
			}
			result.QuizzesCreated++
		}
		existingQuizzes[titleKey] = record

		prompts := dedupePreserveOrder(append(append([]string(nil), quiz.QuestionPrompts...), quizPromptAssignments[titleKey]...))
		questionIDs := make([]int64, 0, len(prompts))
		for _, prompt := range prompts {
			question, ok := questionLookup[string(TextKey(prompt))]
			if !ok {
				return nil, domainErrf("Quiz '%s' references question '%s' that was not found.", quiz.Title, prompt)
			}
			questionIDs = append(questionIDs, question.ID)
		}
		if err := store.ReplaceQuizQuestions(ctx, record.ID, questionIDs); err != nil {
			return nil, upsertErr("quiz", title, err)
		}
	}

	return result, nil
}

// upsertErr converts a unique violation raced in by a concurrent import
// into a DomainError; everything else passes through wrapped.
func upsertErr(kind, name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domainErrf("A %s named '%s' already exists in this scope.", kind, name)
	}
	return fmt.Errorf("write %s %q: %w", kind, name, err)
}

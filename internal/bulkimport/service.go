package bulkimport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shekhar1luitel/quizHub/internal/content"
	"github.com/shekhar1luitel/quizHub/internal/logging"
)

// Service is the bulk interchange entry point: parse + preview, transactional
// commit, and the export/template builders, all against one pgx pool.
type Service struct {
	pool  *pgxpool.Pool
	store *content.Store
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool, store: content.NewStore(pool)}
}

// PreviewUpload parses workbook bytes and reconciles them against the
// catalog for the target scope. Read-only: uploading the same file twice
// yields the same preview.
func (s *Service) PreviewUpload(ctx context.Context, scope content.Scope, data []byte) (*Preview, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := logging.WithFields(ctx, "run_id", runID, "scope", scope.String())

	parsed, err := ParseWorkbook(data)
	if err != nil {
		log.Warn("workbook rejected", "error", err)
		return nil, err
	}
	preview, err := BuildPreview(ctx, s.store, scope, parsed)
	if err != nil {
		return nil, err
	}

	log.Info("import preview built",
		"subjects", len(preview.Subjects),
		"quizzes", len(preview.Quizzes),
		"questions", len(preview.Questions),
		"warnings", len(preview.Warnings),
		"duration_ms", time.Since(start).Milliseconds())
	return preview, nil
}

// Commit applies an approved payload in a single transaction. On any
// failure the transaction rolls back and nothing is applied.
func (s *Service) Commit(ctx context.Context, scope content.Scope, payload *CommitPayload) (*CommitResult, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := logging.WithFields(ctx, "run_id", runID, "scope", scope.String())

	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	result, err := applyCommit(ctx, content.NewStore(tx), scope, payload)
	if err != nil {
		log.Warn("import commit rolled back", "error", err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	log.Info("import committed",
		"subjects_created", result.SubjectsCreated,
		"subjects_updated", result.SubjectsUpdated,
		"quizzes_created", result.QuizzesCreated,
		"quizzes_updated", result.QuizzesUpdated,
		"questions_created", result.QuestionsCreated,
		"questions_updated", result.QuestionsUpdated,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// Export renders the scope's current catalog as a workbook that re-imports
// cleanly.
func (s *Service) Export(ctx context.Context, scope content.Scope) ([]byte, error) {
	subjects, err := s.store.ListSubjects(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	quizzes, err := s.store.ListQuizzes(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	questions, err := s.store.ListQuestions(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	quizIDs := make([]int64, len(quizzes))
	for i, quiz := range quizzes {
		quizIDs[i] = quiz.ID
	}
	prompts, err := s.store.QuizPrompts(ctx, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("load quiz prompts: %w", err)
	}

	questionIDs := make([]int64, len(questions))
	for i, question := range questions {
		questionIDs[i] = question.ID
	}
	options, err := s.store.OptionsFor(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	quizTitles, err := s.store.QuizTitlesFor(ctx, scope, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("load quiz assignments: %w", err)
	}

	exportSubjects := make([]ExportSubject, len(subjects))
	for i, subject := range subjects {
		exportSubjects[i] = ExportSubject{
			Name:        subject.Name,
			Description: subject.Description,
			Icon:        subject.Icon,
		}
	}
	exportQuizzes := make([]ExportQuiz, len(quizzes))
	for i, quiz := range quizzes {
		exportQuizzes[i] = ExportQuiz{
			Title:           quiz.Title,
			Description:     quiz.Description,
			IsActive:        quiz.IsActive,
			QuestionPrompts: prompts[quiz.ID],
		}
	}
	exportQuestions := make([]ExportQuestion, len(questions))
	for i, question := range questions {
		opts := options[question.ID]
		outOpts := make([]ExportQuestionOption, len(opts))
		for j, opt := range opts {
			outOpts[j] = ExportQuestionOption{Text: opt.Text, IsCorrect: opt.IsCorrect}
		}
		exportQuestions[i] = ExportQuestion{
			Prompt:      question.Prompt,
			Explanation: question.Explanation,
			Topic:       question.Topic,
			Difficulty:  question.Difficulty,
			IsActive:    question.IsActive,
			SubjectName: question.SubjectName,
			QuizTitles:  quizTitles[question.ID],
			Options:     outOpts,
		}
	}

	logging.WithFields(ctx, "scope", scope.String()).Info("catalog exported",
		"subjects", len(exportSubjects),
		"quizzes", len(exportQuizzes),
		"questions", len(exportQuestions))
	return BuildWorkbook(exportSubjects, exportQuizzes, exportQuestions)
}

// Template returns the starter workbook.
func (s *Service) Template() ([]byte, error) {
	return BuildTemplate()
}

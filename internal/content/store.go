package content

import (
	"context"
	"fmt"
)

// Store executes content queries against the supplied DBTX. Construct one
// per unit of work: over the pool for read-only lookups, over a transaction
// for commits.
type Store struct {
	db DBTX
}

// NewStore creates a Store bound to db.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// SubjectRefs finds persisted subjects in any tenant scope whose slug is in
// slugs. The result maps slug to every matching record; natural-key
// uniqueness holds only within a scope, so one slug may match several.
func (s *Store) SubjectRefs(ctx context.Context, slugs []string) (map[string][]Ref, error) {
	return s.refsByKey(ctx,
		`SELECT slug, id, organization_id FROM subjects WHERE slug = ANY($1)`, slugs)
}

// QuizRefs finds persisted quizzes in any tenant scope by lower-cased
// trimmed title.
func (s *Store) QuizRefs(ctx context.Context, titleKeys []string) (map[string][]Ref, error) {
	return s.refsByKey(ctx,
		`SELECT lower(btrim(title)), id, organization_id FROM quizzes WHERE lower(btrim(title)) = ANY($1)`, titleKeys)
}

// QuestionRefs finds persisted questions in any tenant scope by lower-cased
// trimmed prompt.
func (s *Store) QuestionRefs(ctx context.Context, promptKeys []string) (map[string][]Ref, error) {
	return s.refsByKey(ctx,
		`SELECT lower(btrim(prompt)), id, organization_id FROM questions WHERE lower(btrim(prompt)) = ANY($1)`, promptKeys)
}

func (s *Store) refsByKey(ctx context.Context, query string, keys []string) (map[string][]Ref, error) {
	refs := make(map[string][]Ref, len(keys))
	if len(keys) == 0 {
		return refs, nil
	}
	rows, err := s.db.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("query refs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var ref Ref
		if err := rows.Scan(&key, &ref.ID, &ref.OrgID); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		refs[key] = append(refs[key], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("refs rows: %w", err)
	}
	return refs, nil
}

// SubjectsInScope loads every subject in the scope keyed by slug.
func (s *Store) SubjectsInScope(ctx context.Context, scope Scope) (map[string]Subject, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, slug, COALESCE(description, ''), COALESCE(icon, ''), organization_id
		 FROM subjects WHERE organization_id IS NOT DISTINCT FROM $1`, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("query subjects in scope %s: %w", scope, err)
	}
	defer rows.Close()

	subjects := make(map[string]Subject)
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Slug, &sub.Description, &sub.Icon, &sub.OrgID); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects[sub.Slug] = sub
	}
	return subjects, rows.Err()
}

// QuizzesInScope loads every quiz in the scope keyed by lower-cased trimmed
// title.
func (s *Store) QuizzesInScope(ctx context.Context, scope Scope) (map[string]Quiz, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), is_active, organization_id
		 FROM quizzes WHERE organization_id IS NOT DISTINCT FROM $1`, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("query quizzes in scope %s: %w", scope, err)
	}
	defer rows.Close()

	quizzes := make(map[string]Quiz)
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.IsActive, &q.OrgID); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes[normalizeKey(q.Title)] = q
	}
	return quizzes, rows.Err()
}

// QuestionsInScope loads the scope's questions whose lower-cased trimmed
// prompt appears in promptKeys, keyed by that prompt key.
func (s *Store) QuestionsInScope(ctx context.Context, scope Scope, promptKeys []string) (map[string]Question, error) {
	questions := make(map[string]Question, len(promptKeys))
	if len(promptKeys) == 0 {
		return questions, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, prompt, COALESCE(explanation, ''), COALESCE(topic, ''), COALESCE(difficulty, ''),
		        is_active, subject_id, organization_id
		 FROM questions
		 WHERE organization_id IS NOT DISTINCT FROM $1 AND lower(btrim(prompt)) = ANY($2)`,
		scope.OrgID, promptKeys)
	if err != nil {
		return nil, fmt.Errorf("query questions in scope %s: %w", scope, err)
	}
	defer rows.Close()

	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Explanation, &q.Topic, &q.Difficulty,
			&q.IsActive, &q.SubjectID, &q.OrgID); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions[normalizeKey(q.Prompt)] = q
	}
	return questions, rows.Err()
}

// InsertSubject creates a subject and fills in its id.
func (s *Store) InsertSubject(ctx context.Context, sub *Subject) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO subjects (name, slug, description, icon, organization_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sub.Name, sub.Slug, nullable(sub.Description), nullable(sub.Icon), sub.OrgID,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert subject %q: %w", sub.Name, err)
	}
	return nil
}

// UpdateSubject rewrites a subject's mutable fields.
func (s *Store) UpdateSubject(ctx context.Context, sub *Subject) error {
	_, err := s.db.Exec(ctx,
		`UPDATE subjects SET name = $1, description = $2, icon = $3, organization_id = $4 WHERE id = $5`,
		sub.Name, nullable(sub.Description), nullable(sub.Icon), sub.OrgID, sub.ID)
	if err != nil {
		return fmt.Errorf("update subject %q: %w", sub.Name, err)
	}
	return nil
}

// InsertQuestion creates a question and fills in its id.
func (s *Store) InsertQuestion(ctx context.Context, q *Question) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO questions (prompt, explanation, topic, difficulty, is_active, subject_id, organization_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		q.Prompt, nullable(q.Explanation), nullable(q.Topic), nullable(q.Difficulty),
		q.IsActive, q.SubjectID, q.OrgID,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question %q: %w", q.Prompt, err)
	}
	return nil
}

// UpdateQuestion rewrites a question's mutable fields.
func (s *Store) UpdateQuestion(ctx context.Context, q *Question) error {
	_, err := s.db.Exec(ctx,
		`UPDATE questions
		 SET prompt = $1, explanation = $2, topic = $3, difficulty = $4,
		     is_active = $5, subject_id = $6, organization_id = $7
		 WHERE id = $8`,
		q.Prompt, nullable(q.Explanation), nullable(q.Topic), nullable(q.Difficulty),
		q.IsActive, q.SubjectID, q.OrgID, q.ID)
	if err != nil {
		return fmt.Errorf("update question %q: %w", q.Prompt, err)
	}
	return nil
}

// ReplaceOptions swaps a question's full option set. Options are always
// replaced wholesale, never diffed, so a partial stale set can't survive an
// update.
func (s *Store) ReplaceOptions(ctx context.Context, questionID int64, options []Option) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM options WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("clear options for question %d: %w", questionID, err)
	}
	for _, opt := range options {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO options (question_id, text, is_correct) VALUES ($1, $2, $3)`,
			questionID, opt.Text, opt.IsCorrect); err != nil {
			return fmt.Errorf("insert option for question %d: %w", questionID, err)
		}
	}
	return nil
}

// InsertQuiz creates a quiz and fills in its id.
func (s *Store) InsertQuiz(ctx context.Context, q *Quiz) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, is_active, organization_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		q.Title, nullable(q.Description), q.IsActive, q.OrgID,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert quiz %q: %w", q.Title, err)
	}
	return nil
}

// UpdateQuiz rewrites a quiz's mutable fields.
func (s *Store) UpdateQuiz(ctx context.Context, q *Quiz) error {
	_, err := s.db.Exec(ctx,
		`UPDATE quizzes SET description = $1, is_active = $2, organization_id = $3 WHERE id = $4`,
		nullable(q.Description), q.IsActive, q.OrgID, q.ID)
	if err != nil {
		return fmt.Errorf("update quiz %q: %w", q.Title, err)
	}
	return nil
}

// ReplaceQuizQuestions swaps a quiz's ordered question links for the given
// question ids, assigning a dense 1-based position sequence in input order.
func (s *Store) ReplaceQuizQuestions(ctx context.Context, quizID int64, questionIDs []int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("clear quiz %d question links: %w", quizID, err)
	}
	for i, qid := range questionIDs {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_id, position) VALUES ($1, $2, $3)`,
			quizID, qid, i+1); err != nil {
			return fmt.Errorf("link question %d to quiz %d: %w", qid, quizID, err)
		}
	}
	return nil
}

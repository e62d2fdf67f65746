package content

import (
	"context"
	"fmt"
)

// Export loaders read the denormalized view of a scope's content: subjects
// by name, quizzes with their ordered question prompts, and questions with
// their options, subject name, and quiz assignments.

// ListSubjects returns the scope's subjects ordered by name.
func (s *Store) ListSubjects(ctx context.Context, scope Scope) ([]Subject, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, slug, COALESCE(description, ''), COALESCE(icon, ''), organization_id
		 FROM subjects WHERE organization_id IS NOT DISTINCT FROM $1 ORDER BY name ASC`, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list subjects in scope %s: %w", scope, err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Slug, &sub.Description, &sub.Icon, &sub.OrgID); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// ListQuizzes returns the scope's quizzes ordered by title.
func (s *Store) ListQuizzes(ctx context.Context, scope Scope) ([]Quiz, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), is_active, organization_id
		 FROM quizzes WHERE organization_id IS NOT DISTINCT FROM $1 ORDER BY title ASC`, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes in scope %s: %w", scope, err)
	}
	defer rows.Close()

	var quizzes []Quiz
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.IsActive, &q.OrgID); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// QuizPrompts returns each quiz's question prompts in link-position order.
func (s *Store) QuizPrompts(ctx context.Context, quizIDs []int64) (map[int64][]string, error) {
	prompts := make(map[int64][]string, len(quizIDs))
	if len(quizIDs) == 0 {
		return prompts, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT qq.quiz_id, q.prompt
		 FROM quiz_questions qq
		 JOIN questions q ON q.id = qq.question_id
		 WHERE qq.quiz_id = ANY($1)
		 ORDER BY qq.quiz_id, qq.position`, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("load quiz prompts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quizID int64
		var prompt string
		if err := rows.Scan(&quizID, &prompt); err != nil {
			return nil, fmt.Errorf("scan quiz prompt: %w", err)
		}
		prompts[quizID] = append(prompts[quizID], prompt)
	}
	return prompts, rows.Err()
}

// ListQuestions returns the scope's questions ordered by prompt, with the
// subject name resolved from the subject id.
func (s *Store) ListQuestions(ctx context.Context, scope Scope) ([]Question, error) {
	rows, err := s.db.Query(ctx,
		`SELECT q.id, q.prompt, COALESCE(q.explanation, ''), COALESCE(q.topic, ''),
		        COALESCE(q.difficulty, ''), q.is_active, q.subject_id, s.name, q.organization_id
		 FROM questions q
		 JOIN subjects s ON s.id = q.subject_id
		 WHERE q.organization_id IS NOT DISTINCT FROM $1
		 ORDER BY q.prompt ASC`, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list questions in scope %s: %w", scope, err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Explanation, &q.Topic, &q.Difficulty,
			&q.IsActive, &q.SubjectID, &q.SubjectName, &q.OrgID); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// OptionsFor returns each question's options in insertion order.
func (s *Store) OptionsFor(ctx context.Context, questionIDs []int64) (map[int64][]Option, error) {
	options := make(map[int64][]Option, len(questionIDs))
	if len(questionIDs) == 0 {
		return options, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, question_id, text, is_correct FROM options
		 WHERE question_id = ANY($1) ORDER BY question_id, id`, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options[opt.QuestionID] = append(options[opt.QuestionID], opt)
	}
	return options, rows.Err()
}

// QuizTitlesFor returns, for each question, the titles of the scope's
// quizzes it is linked into, in link-position order.
func (s *Store) QuizTitlesFor(ctx context.Context, scope Scope, questionIDs []int64) (map[int64][]string, error) {
	titles := make(map[int64][]string, len(questionIDs))
	if len(questionIDs) == 0 {
		return titles, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT qq.question_id, qz.title
		 FROM quiz_questions qq
		 JOIN quizzes qz ON qz.id = qq.quiz_id
		 WHERE qq.question_id = ANY($1) AND qz.organization_id IS NOT DISTINCT FROM $2
		 ORDER BY qq.question_id, qq.position`, questionIDs, scope.OrgID)
	if err != nil {
		return nil, fmt.Errorf("load quiz titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID int64
		var title string
		if err := rows.Scan(&questionID, &title); err != nil {
			return nil, fmt.Errorf("scan quiz title: %w", err)
		}
		titles[questionID] = append(titles[questionID], title)
	}
	return titles, rows.Err()
}

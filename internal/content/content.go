// Package content is the persistent store for quiz content: subjects,
// quizzes, and questions with their options and ordered quiz links. All
// natural-key lookups are tenant scoped; callers supply the transaction
// boundary through DBTX.
package content

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Scope identifies one tenant: a specific organization or the global
// (no-organization) scope. Natural keys are unique per scope, never across
// the whole store.
type Scope struct {
	OrgID *int64
}

// GlobalScope is the no-organization scope.
func GlobalScope() Scope { return Scope{} }

// OrgScope scopes to a single organization.
func OrgScope(orgID int64) Scope { return Scope{OrgID: &orgID} }

// Contains reports whether a record with the given organization id belongs
// to this scope.
func (s Scope) Contains(orgID *int64) bool {
	if s.OrgID == nil {
		return orgID == nil
	}
	return orgID != nil && *orgID == *s.OrgID
}

func (s Scope) String() string {
	if s.OrgID == nil {
		return "global"
	}
	return "org:" + strconv.FormatInt(*s.OrgID, 10)
}

// Ref is a lightweight handle to a persisted record found by natural key,
// carrying enough to decide create-vs-update and cross-tenant conflicts.
type Ref struct {
	ID    int64
	OrgID *int64
}

// Subject is a content category. Slug is its natural key within a scope.
type Subject struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Icon        string
	OrgID       *int64
}

// Quiz groups questions in a fixed order. The lower-cased trimmed title is
// its natural key within a scope.
type Quiz struct {
	ID          int64
	Title       string
	Description string
	IsActive    bool
	OrgID       *int64
}

// Question belongs to a subject and may be linked into any number of
// quizzes. The lower-cased trimmed prompt is its natural key within a scope.
type Question struct {
	ID          int64
	Prompt      string
	Explanation string
	Topic       string
	Difficulty  string
	IsActive    bool
	SubjectID   int64
	SubjectName string // denormalized, populated by export loaders
	OrgID       *int64
}

// Option is one answer choice of a question.
type Option struct {
	ID         int64
	QuestionID int64
	Text       string
	IsCorrect  bool
}

package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/repository"
)

const (
	qLockCompany    = "SELECT id FROM companies WHERE id=? FOR UPDATE"
	qInsertComment  = "INSERT INTO comments (company_id, user_id, content, category, comment_date) VALUES (?,?,?,?,?)"
	qSelectComment  = "SELECT id, company_id, user_id, content, category, comment_date, created_at FROM comments WHERE id=?"
	qSetCategory    = "UPDATE companies SET category=?, updated_at=NOW() WHERE id=?"
)

func newCategorizationEngine(t *testing.T) (*CategorizationEngine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCategorizationEngine(db,
		repository.NewCommentRepo(db),
		repository.NewCompanyRepo(db)), mock
}

func TestAddCommentMovesCompanyCategory(t *testing.T) {
	engine, mock := newCategorizationEngine(t)
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qLockCompany)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(qInsertComment)).
		WithArgs(uint64(3), uint64(42), "called, wants a demo", model.CategoryHot, date).
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qSelectComment)).
		WithArgs(uint64(55)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "user_id", "content", "category", "comment_date", "created_at",
		}).AddRow(55, 3, 42, "called, wants a demo", model.CategoryHot, date, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(qSetCategory)).
		WithArgs(model.CategoryHot, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cm, err := engine.AddComment(context.Background(), 3, 42, "called, wants a demo", model.CategoryHot, date)
	require.NoError(t, err)
	assert.Equal(t, uint64(55), cm.ID)
	assert.Equal(t, model.CategoryHot, cm.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentMissingCompanyRollsBack(t *testing.T) {
	engine, mock := newCategorizationEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qLockCompany)).
		WithArgs(uint64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := engine.AddComment(context.Background(), 999, 42, "hello", model.CategoryFollowup, time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentCategoryUpdateFailureRollsBack(t *testing.T) {
	engine, mock := newCategorizationEngine(t)
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qLockCompany)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(qInsertComment)).
		WithArgs(uint64(3), uint64(42), "note", model.CategoryBlock, date).
		WillReturnResult(sqlmock.NewResult(56, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qSelectComment)).
		WithArgs(uint64(56)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "user_id", "content", "category", "comment_date", "created_at",
		}).AddRow(56, 3, 42, "note", model.CategoryBlock, date, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(qSetCategory)).
		WithArgs(model.CategoryBlock, uint64(3)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// The inserted comment rolls back with the failed category update.
	_, err := engine.AddComment(context.Background(), 3, 42, "note", model.CategoryBlock, date)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCommentValidation(t *testing.T) {
	engine, mock := newCategorizationEngine(t)

	_, err := engine.AddComment(context.Background(), 3, 42, "   ", model.CategoryHot, time.Now())
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = engine.AddComment(context.Background(), 3, 42, "content", "assigned", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = engine.AddComment(context.Background(), 3, 42, "content", "urgent", time.Now())
	assert.ErrorIs(t, err, ErrInvalidCategory)

	// No SQL ran for any of the rejected inputs.
	assert.NoError(t, mock.ExpectationsWereMet())
}

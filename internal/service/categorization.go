package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/repository"
)

// Validation errors returned by AddComment before any row is written.
var (
	ErrEmptyContent    = errors.New("comment content must not be empty")
	ErrInvalidCategory = errors.New("category must be one of followup, hot, block")
)

// CategorizationEngine keeps a company's category consistent with its
// most recent comment. Comment insert and category update commit
// together or not at all: a comment is never persisted orphaned from
// its category projection, and the category update is never visible
// without its triggering comment.
type CategorizationEngine struct {
	DB        *sql.DB
	Comments  *repository.CommentRepo
	Companies *repository.CompanyRepo
}

func NewCategorizationEngine(db *sql.DB, comments *repository.CommentRepo, companies *repository.CompanyRepo) *CategorizationEngine {
	if db == nil || comments == nil || companies == nil {
		panic("nil dependency passed to NewCategorizationEngine")
	}
	return &CategorizationEngine{DB: db, Comments: comments, Companies: companies}
}

// AddComment records a categorizing comment on a company and moves the
// company into the comment's category, in one transaction. The company
// row is locked first, so concurrent comments on the same company
// serialize and the category always reflects the last committed one.
// Returns repository.ErrNotFound when the company does not exist.
func (e *CategorizationEngine) AddComment(ctx context.Context, companyID, userID uint64, content, category string, commentDate time.Time) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if !model.ValidCommentCategory(category) {
		return nil, ErrInvalidCategory
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := e.Companies.LockByIDTx(ctx, tx, companyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	cm := &model.Comment{
		CompanyID:   companyID,
		UserID:      userID,
		Content:     content,
		Category:    category,
		CommentDate: commentDate,
	}
	if err := e.Comments.CreateTx(ctx, tx, cm); err != nil {
		return nil, err
	}
	if err := e.Companies.SetCategoryTx(ctx, tx, companyID, category); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return cm, nil
}

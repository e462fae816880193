package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// CommentRepo provides persistence for the append-only `comments`
// table. Comments are never updated or deleted; the categorization
// engine inserts them and projects their category onto the parent
// company inside one transaction.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id, company_id, user_id, content, category, comment_date, created_at"

// CreateTx inserts a comment within the scope of an existing
// transaction and populates the generated ID and server timestamps on
// the provided record. The caller must commit or roll back.
func (r *CommentRepo) CreateTx(ctx context.Context, tx *sql.Tx, cm *model.Comment) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO comments (company_id, user_id, content, category, comment_date) VALUES (?,?,?,?,?)",
		cm.CompanyID, cm.UserID, cm.Content, cm.Category, cm.CommentDate.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=?", cm.ID).Scan(
		&cm.ID, &cm.CompanyID, &cm.UserID, &cm.Content, &cm.Category, &cm.CommentDate, &cm.CreatedAt)
}

func (r *CommentRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]model.Comment, 0)
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.CompanyID, &cm.UserID, &cm.Content,
			&cm.Category, &cm.CommentDate, &cm.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// ByCompany returns all comments on a company, newest first.
func (r *CommentRepo) ByCompany(ctx context.Context, companyID uint64) ([]model.Comment, error) {
	return r.list(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE company_id=? ORDER BY created_at DESC",
		companyID)
}

// ByUser returns all comments authored by a user, newest first.
func (r *CommentRepo) ByUser(ctx context.Context, userID uint64) ([]model.Comment, error) {
	return r.list(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE user_id=? ORDER BY created_at DESC",
		userID)
}

// TodayByUser returns the user's comments whose comment_date falls
// within the UTC day containing now, newest first.
func (r *CommentRepo) TodayByUser(ctx context.Context, userID uint64, now time.Time) ([]model.Comment, error) {
	day := now.UTC().Truncate(24 * time.Hour)
	return r.list(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE user_id=? AND comment_date >= ? AND comment_date < ? ORDER BY comment_date DESC",
		userID, day, day.Add(24*time.Hour))
}

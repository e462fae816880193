package model

import "time"

// Comment mirrors the `comments` table. Comments are append-only
// annotations: they are never updated or deleted, so the history of a
// company's categorization is fully reconstructable from its comments.
// CommentDate is supplied by the caller (the working day the note
// refers to) and is distinct from the server-assigned CreatedAt.
type Comment struct {
	ID          uint64    `json:"id"`
	CompanyID   uint64    `json:"company_id"`
	UserID      uint64    `json:"user_id"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	CommentDate time.Time `json:"comment_date"`
	CreatedAt   time.Time `json:"created_at"`
}

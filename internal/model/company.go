package model

import "time"

// Company status values as stored in companies.status.
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Company categories as stored in companies.category. A freshly
// assigned company starts in CategoryAssigned; every comment created
// against it moves it to the comment's category (followup, hot or
// block). The category therefore always mirrors the latest committed
// comment and drives the filtered dashboard views.
const (
	CategoryAssigned = "assigned"
	CategoryFollowup = "followup"
	CategoryHot      = "hot"
	CategoryBlock    = "block"
)

// ValidCommentCategory reports whether the category may be used on a
// comment. CategoryAssigned is reserved for the assignment engine and
// can never be set through a comment.
func ValidCommentCategory(category string) bool {
	switch category {
	case CategoryFollowup, CategoryHot, CategoryBlock:
		return true
	}
	return false
}

// Company mirrors the `companies` table. AssignedToUserID is nil while
// the company sits in the unassigned pool; the assignment engine flips
// it to the requesting user exactly once. AssignedToUserID and
// Category are the only two fields mutated after creation, by the
// assignment and categorization engines respectively, never both in
// the same transaction.
type Company struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry"`
	Email            *string   `json:"email"`
	Phone            *string   `json:"phone"`
	Address          *string   `json:"address"`
	Website          *string   `json:"website"`
	CompanySize      *string   `json:"company_size"`
	Notes            *string   `json:"notes"`
	Status           string    `json:"status"`
	Category         string    `json:"category"`
	AssignedToUserID *uint64   `json:"assigned_to_user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

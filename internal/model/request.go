package model

import "time"

// Lifecycle states shared by data requests and facebook data
// requests. Pending is the only non-terminal state: once a request is
// approved or rejected its status never changes again.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ValidDecision reports whether the status is a legal approval
// decision (the only two values accepted by the status endpoints).
func ValidDecision(status string) bool {
	return status == RequestStatusApproved || status == RequestStatusRejected
}

// DataRequest mirrors the `data_requests` table: a user's ask for a
// batch of newly assigned companies. Industry is recorded for
// reporting but does not filter the assignment pool.
// CompaniesAssigned is written exactly once, inside the same
// transaction that claims the companies, so it always reflects the
// real number claimed at approval time.
type DataRequest struct {
	ID                uint64    `json:"id"`
	UserID            uint64    `json:"user_id"`
	RequestType       string    `json:"request_type"`
	Industry          *string   `json:"industry"`
	Justification     string    `json:"justification"`
	Status            string    `json:"status"`
	ApprovedBy        *uint64   `json:"approved_by"`
	CompaniesAssigned int       `json:"companies_assigned"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FacebookDataRequest mirrors the `facebook_data_requests` table. It
// shares the DataRequest lifecycle but its approval side effect hands
// out rows from the shared facebook_data pool through a join table
// instead of mutating an ownership column.
type FacebookDataRequest struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	Justification string    `json:"justification"`
	Status        string    `json:"status"`
	ApprovedBy    *uint64   `json:"approved_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

package repository

import (
	"context"
	"database/sql"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// DataRequestRepo provides persistence for the `data_requests` table.
// Status transitions run inside the assignment engine's transaction:
// the row is locked first (GetByIDTx) so concurrent approvals of the
// same request serialize, then decided exactly once.
type DataRequestRepo struct{ DB *sql.DB }

func NewDataRequestRepo(db *sql.DB) *DataRequestRepo { return &DataRequestRepo{DB: db} }

const dataRequestColumns = "id, user_id, request_type, industry, justification, status, approved_by, companies_assigned, created_at, updated_at"

func scanDataRequest(s interface {
	Scan(dest ...interface{}) error
}) (model.DataRequest, error) {
	var dr model.DataRequest
	var industry sql.NullString
	var approvedBy sql.NullInt64
	var assigned sql.NullInt64
	err := s.Scan(&dr.ID, &dr.UserID, &dr.RequestType, &industry, &dr.Justification,
		&dr.Status, &approvedBy, &assigned, &dr.CreatedAt, &dr.UpdatedAt)
	if err != nil {
		return dr, err
	}
	dr.Industry = nullStr(industry)
	if approvedBy.Valid {
		id := uint64(approvedBy.Int64)
		dr.ApprovedBy = &id
	}
	if assigned.Valid {
		dr.CompaniesAssigned = int(assigned.Int64)
	}
	return dr, nil
}

// Create inserts a pending request and returns the stored row.
func (r *DataRequestRepo) Create(ctx context.Context, userID uint64, requestType string, industry *string, justification string) (*model.DataRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO data_requests (user_id, request_type, industry, justification) VALUES (?,?,?,?)",
		userID, requestType, industry, justification)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, uint64(id))
}

// ByID fetches one request. Returns sql.ErrNoRows when absent.
func (r *DataRequestRepo) ByID(ctx context.Context, id uint64) (*model.DataRequest, error) {
	dr, err := scanDataRequest(r.DB.QueryRowContext(ctx,
		"SELECT "+dataRequestColumns+" FROM data_requests WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

// GetByIDTx fetches a request inside a transaction and locks its row
// until commit or rollback, serializing concurrent status updates.
func (r *DataRequestRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.DataRequest, error) {
	dr, err := scanDataRequest(tx.QueryRowContext(ctx,
		"SELECT "+dataRequestColumns+" FROM data_requests WHERE id=? FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

// MarkDecidedTx flips the request to its terminal status and records
// the approver, inside the caller's transaction.
func (r *DataRequestRepo) MarkDecidedTx(ctx context.Context, tx *sql.Tx, id uint64, status string, approverID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE data_requests SET status=?, approved_by=?, updated_at=NOW() WHERE id=?",
		status, approverID, id)
	return err
}

// SetCompaniesAssignedTx records how many companies the approval
// actually claimed. Written only inside the claiming transaction so
// the count always reflects reality, never a request-time estimate.
func (r *DataRequestRepo) SetCompaniesAssignedTx(ctx context.Context, tx *sql.Tx, id uint64, count int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE data_requests SET companies_assigned=? WHERE id=?", count, id)
	return err
}

func (r *DataRequestRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.DataRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]model.DataRequest, 0)
	for rows.Next() {
		dr, err := scanDataRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, dr)
	}
	return requests, rows.Err()
}

// ByUser returns a user's request history, newest first.
func (r *DataRequestRepo) ByUser(ctx context.Context, userID uint64) ([]model.DataRequest, error) {
	return r.list(ctx,
		"SELECT "+dataRequestColumns+" FROM data_requests WHERE user_id=? ORDER BY created_at DESC",
		userID)
}

// Pending returns all pending requests, newest first.
func (r *DataRequestRepo) Pending(ctx context.Context) ([]model.DataRequest, error) {
	return r.list(ctx,
		"SELECT "+dataRequestColumns+" FROM data_requests WHERE status='pending' ORDER BY created_at DESC")
}

// Package service hosts the transactional engines sitting between the
// HTTP handlers and the repositories. Handlers perform authorization
// and input parsing; the engines own the transactions.
package service

import (
	"context"
	"database/sql"

	"github.com/crmdesk/company-dashboard/internal/model"
	"github.com/crmdesk/company-dashboard/internal/repository"
)

// DefaultBatchSize is the maximum number of records a single approval
// hands to the requesting user.
const DefaultBatchSize = 10

// AssignmentEngine converts approval decisions on data requests into
// atomic, bounded claims against the unassigned company pool (or the
// shared facebook_data pool for facebook requests). Every operation is
// a single transaction: if any step fails, the whole decision —
// including the status flip — rolls back and the request stays
// pending.
type AssignmentEngine struct {
	DB        *sql.DB
	Requests  *repository.DataRequestRepo
	Companies *repository.CompanyRepo
	Facebook  *repository.FacebookRepo
	BatchSize int
}

// NewAssignmentEngine constructs an AssignmentEngine. A batchSize of
// zero or less falls back to DefaultBatchSize.
func NewAssignmentEngine(db *sql.DB, requests *repository.DataRequestRepo, companies *repository.CompanyRepo, facebook *repository.FacebookRepo, batchSize int) *AssignmentEngine {
	if db == nil || requests == nil || companies == nil || facebook == nil {
		panic("nil dependency passed to NewAssignmentEngine")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &AssignmentEngine{DB: db, Requests: requests, Companies: companies, Facebook: facebook, BatchSize: batchSize}
}

// ApproveDataRequest approves a pending request and claims up to
// BatchSize unassigned companies for the requesting user. The claim
// runs under row locks (FOR UPDATE SKIP LOCKED) so two concurrent
// approvals never hand the same company to two users. An exhausted
// pool still approves the request, with companies_assigned = 0.
// Returns repository.ErrNotFound when the request does not exist and
// repository.ErrRequestDecided when it is no longer pending.
func (e *AssignmentEngine) ApproveDataRequest(ctx context.Context, requestID, approverID uint64) (*model.DataRequest, error) {
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

	req, err := e.Requests.GetByIDTx(ctx, tx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, repository.ErrRequestDecided
	}
	if err := e.Requests.MarkDecidedTx(ctx, tx, requestID, model.RequestStatusApproved, approverID); err != nil {
		return nil, err
	}
	claimed, err := e.Companies.ClaimUnassignedTx(ctx, tx, req.UserID, e.BatchSize)
	if err != nil {
		return nil, err
	}
	if err := e.Requests.SetCompaniesAssignedTx(ctx, tx, requestID, len(claimed)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return e.Requests.ByID(ctx, requestID)
}

// RejectDataRequest rejects a pending request. No company rows are
// touched and companies_assigned keeps its default of zero.
func (e *AssignmentEngine) RejectDataRequest(ctx context.Context, requestID, approverID uint64) (*model.DataRequest, error) {
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

	req, err := e.Requests.GetByIDTx(ctx, tx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, repository.ErrRequestDecided
	}
	if err := e.Requests.MarkDecidedTx(ctx, tx, requestID, model.RequestStatusRejected, approverID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return e.Requests.ByID(ctx, requestID)
}

// ApproveFacebookDataRequest approves a pending facebook request and
// hands the user a random sample of up to BatchSize records from the
// shared facebook_data pool. The pool is non-exclusive, so instead of
// locking, the join-table insert relies on its uniqueness constraint:
// pairs the user already holds are silently skipped.
func (e *AssignmentEngine) ApproveFacebookDataRequest(ctx context.Context, requestID, approverID uint64) (*model.FacebookDataRequest, error) {
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

	req, err := e.Facebook.RequestByIDTx(ctx, tx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, repository.ErrRequestDecided
	}
	if err := e.Facebook.MarkRequestDecidedTx(ctx, tx, requestID, model.RequestStatusApproved, approverID); err != nil {
		return nil, err
	}
	sample, err := e.Facebook.SampleTx(ctx, tx, e.BatchSize)
	if err != nil {
		return nil, err
	}
	if err := e.Facebook.AssignBulkTx(ctx, tx, req.UserID, sample); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return e.Facebook.RequestByID(ctx, requestID)
}

// RejectFacebookDataRequest rejects a pending facebook request without
// touching the facebook_data pool.
func (e *AssignmentEngine) RejectFacebookDataRequest(ctx context.Context, requestID, approverID uint64) (*model.FacebookDataRequest, error) {
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

	req, err := e.Facebook.RequestByIDTx(ctx, tx, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, repository.ErrRequestDecided
	}
	if err := e.Facebook.MarkRequestDecidedTx(ctx, tx, requestID, model.RequestStatusRejected, approverID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return e.Facebook.RequestByID(ctx, requestID)
}

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
	qDataRequestForUpdate = "SELECT id, user_id, request_type, industry, justification, status, approved_by, companies_assigned, created_at, updated_at FROM data_requests WHERE id=? FOR UPDATE"
	qDataRequestByID      = "SELECT id, user_id, request_type, industry, justification, status, approved_by, companies_assigned, created_at, updated_at FROM data_requests WHERE id=? LIMIT 1"
	qMarkDecided          = "UPDATE data_requests SET status=?, approved_by=?, updated_at=NOW() WHERE id=?"
	qClaimSelect          = "SELECT id FROM companies WHERE assigned_to_user_id IS NULL ORDER BY id LIMIT ? FOR UPDATE SKIP LOCKED"
	qSetAssigned          = "UPDATE data_requests SET companies_assigned=? WHERE id=?"

	qFacebookForUpdate = "SELECT id, user_id, justification, status, approved_by, created_at, updated_at FROM facebook_data_requests WHERE id=? FOR UPDATE"
	qFacebookByID      = "SELECT id, user_id, justification, status, approved_by, created_at, updated_at FROM facebook_data_requests WHERE id=? LIMIT 1"
	qFacebookDecided   = "UPDATE facebook_data_requests SET status=?, approved_by=?, updated_at=NOW() WHERE id=?"
	qFacebookSample    = "SELECT id FROM facebook_data ORDER BY RAND() LIMIT ?"
)

func newTestEngine(t *testing.T) (*AssignmentEngine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	engine := NewAssignmentEngine(db,
		repository.NewDataRequestRepo(db),
		repository.NewCompanyRepo(db),
		repository.NewFacebookRepo(db),
		3)
	return engine, mock
}

func dataRequestRow(id, userID uint64, status string, assigned int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "request_type", "industry", "justification",
		"status", "approved_by", "companies_assigned", "created_at", "updated_at",
	}).AddRow(id, userID, "company_data", nil, "need leads", status, nil, assigned, now, now)
}

func facebookRequestRow(id, userID uint64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "justification", "status", "approved_by", "created_at", "updated_at",
	}).AddRow(id, userID, "need pages", status, nil, now, now)
}

func TestApproveDataRequestClaimsBatch(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusPending, 0))
	mock.ExpectExec(regexp.QuoteMeta(qMarkDecided)).
		WithArgs(model.RequestStatusApproved, uint64(9), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qClaimSelect)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101).AddRow(102).AddRow(103))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies SET assigned_to_user_id=?, updated_at=NOW() WHERE id IN (?,?,?)")).
		WithArgs(uint64(42), uint64(101), uint64(102), uint64(103)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(qSetAssigned)).
		WithArgs(3, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestByID)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusApproved, 3))

	dr, err := engine.ApproveDataRequest(context.Background(), 7, 9)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, dr.Status)
	assert.Equal(t, 3, dr.CompaniesAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDataRequestClaimLeavesCategoryAlone(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(8)).
		WillReturnRows(dataRequestRow(8, 42, model.RequestStatusPending, 0))
	mock.ExpectExec(regexp.QuoteMeta(qMarkDecided)).
		WithArgs(model.RequestStatusApproved, uint64(9), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qClaimSelect)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201))
	// Anchored: the claim sets ownership and updated_at only. A company
	// commented hot or followup while still in the pool keeps that
	// category across approval.
	mock.ExpectExec(`^UPDATE companies SET assigned_to_user_id=\?, updated_at=NOW\(\) WHERE id IN \(\?\)$`).
		WithArgs(uint64(42), uint64(201)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(qSetAssigned)).
		WithArgs(1, uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestByID)).
		WithArgs(uint64(8)).
		WillReturnRows(dataRequestRow(8, 42, model.RequestStatusApproved, 1))

	dr, err := engine.ApproveDataRequest(context.Background(), 8, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, dr.CompaniesAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDataRequestEmptyPool(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusPending, 0))
	mock.ExpectExec(regexp.QuoteMeta(qMarkDecided)).
		WithArgs(model.RequestStatusApproved, uint64(9), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Exhausted pool: the claim finds nothing, no company UPDATE runs.
	mock.ExpectQuery(regexp.QuoteMeta(qClaimSelect)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(qSetAssigned)).
		WithArgs(0, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestByID)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusApproved, 0))

	dr, err := engine.ApproveDataRequest(context.Background(), 7, 9)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, dr.Status)
	assert.Zero(t, dr.CompaniesAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDataRequestClaimFailureRollsBack(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusPending, 0))
	mock.ExpectExec(regexp.QuoteMeta(qMarkDecided)).
		WithArgs(model.RequestStatusApproved, uint64(9), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qClaimSelect)).
		WithArgs(3).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := engine.ApproveDataRequest(context.Background(), 7, 9)
	require.Error(t, err)
	// The status flip rolled back with everything else; no commit, no
	// reload, so the request stays pending.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDataRequestAlreadyDecided(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusApproved, 3))
	mock.ExpectRollback()

	_, err := engine.ApproveDataRequest(context.Background(), 7, 9)
	assert.ErrorIs(t, err, repository.ErrRequestDecided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveDataRequestNotFound(t *testing.T) {
	engine, mock := newTestEngine(t)

	// An empty row set surfaces as sql.ErrNoRows from QueryRow.Scan.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "request_type", "industry", "justification",
			"status", "approved_by", "companies_assigned", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	_, err := engine.ApproveDataRequest(context.Background(), 404, 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectDataRequestTouchesNoCompanies(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestForUpdate)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusPending, 0))
	mock.ExpectExec(regexp.QuoteMeta(qMarkDecided)).
		WithArgs(model.RequestStatusRejected, uint64(9), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(qDataRequestByID)).
		WithArgs(uint64(7)).
		WillReturnRows(dataRequestRow(7, 42, model.RequestStatusRejected, 0))

	dr, err := engine.RejectDataRequest(context.Background(), 7, 9)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, dr.Status)
	assert.Zero(t, dr.CompaniesAssigned)
	// ExpectationsWereMet also proves no company query ran.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveFacebookRequestSamplesPool(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qFacebookForUpdate)).
		WithArgs(uint64(5)).
		WillReturnRows(facebookRequestRow(5, 42, model.RequestStatusPending))
	mock.ExpectExec(regexp.QuoteMeta(qFacebookDecided)).
		WithArgs(model.RequestStatusApproved, uint64(9), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(qFacebookSample)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO assigned_facebook_data (facebook_data_id, user_id) VALUES (?,?),(?,?)")).
		WithArgs(uint64(11), uint64(42), uint64(12), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(qFacebookByID)).
		WithArgs(uint64(5)).
		WillReturnRows(facebookRequestRow(5, 42, model.RequestStatusApproved))

	fr, err := engine.ApproveFacebookDataRequest(context.Background(), 5, 9)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, fr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectFacebookRequestAlreadyDecided(t *testing.T) {
	engine, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(qFacebookForUpdate)).
		WithArgs(uint64(5)).
		WillReturnRows(facebookRequestRow(5, 42, model.RequestStatusRejected))
	mock.ExpectRollback()

	_, err := engine.RejectFacebookDataRequest(context.Background(), 5, 9)
	assert.ErrorIs(t, err, repository.ErrRequestDecided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

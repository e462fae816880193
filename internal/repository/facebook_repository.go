package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// FacebookRepo provides persistence for facebook data requests, the
// shared facebook_data pool and the assignment join table. The pool is
// non-exclusive — the same record may be handed to several users — so
// handing out records relies on the UNIQUE(facebook_data_id, user_id)
// constraint instead of row locking: duplicate pairs are silently
// dropped by INSERT IGNORE.
type FacebookRepo struct{ DB *sql.DB }

func NewFacebookRepo(db *sql.DB) *FacebookRepo { return &FacebookRepo{DB: db} }

const facebookRequestColumns = "id, user_id, justification, status, approved_by, created_at, updated_at"

func scanFacebookRequest(s interface {
	Scan(dest ...interface{}) error
}) (model.FacebookDataRequest, error) {
	var fr model.FacebookDataRequest
	var approvedBy sql.NullInt64
	err := s.Scan(&fr.ID, &fr.UserID, &fr.Justification, &fr.Status,
		&approvedBy, &fr.CreatedAt, &fr.UpdatedAt)
	if err != nil {
		return fr, err
	}
	if approvedBy.Valid {
		id := uint64(approvedBy.Int64)
		fr.ApprovedBy = &id
	}
	return fr, nil
}

// CreateRequest inserts a pending facebook data request.
func (r *FacebookRepo) CreateRequest(ctx context.Context, userID uint64, justification string) (*model.FacebookDataRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO facebook_data_requests (user_id, justification) VALUES (?,?)",
		userID, justification)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.RequestByID(ctx, uint64(id))
}

// RequestByID fetches one request. Returns sql.ErrNoRows when absent.
func (r *FacebookRepo) RequestByID(ctx context.Context, id uint64) (*model.FacebookDataRequest, error) {
	fr, err := scanFacebookRequest(r.DB.QueryRowContext(ctx,
		"SELECT "+facebookRequestColumns+" FROM facebook_data_requests WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// RequestByIDTx fetches a request inside a transaction, locking its
// row to serialize concurrent status updates.
func (r *FacebookRepo) RequestByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.FacebookDataRequest, error) {
	fr, err := scanFacebookRequest(tx.QueryRowContext(ctx,
		"SELECT "+facebookRequestColumns+" FROM facebook_data_requests WHERE id=? FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// MarkRequestDecidedTx flips the request to its terminal status inside
// the caller's transaction.
func (r *FacebookRepo) MarkRequestDecidedTx(ctx context.Context, tx *sql.Tx, id uint64, status string, approverID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE facebook_data_requests SET status=?, approved_by=?, updated_at=NOW() WHERE id=?",
		status, approverID, id)
	return err
}

func (r *FacebookRepo) listRequests(ctx context.Context, query string, args ...interface{}) ([]model.FacebookDataRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]model.FacebookDataRequest, 0)
	for rows.Next() {
		fr, err := scanFacebookRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

// RequestsByUser returns a user's facebook request history, newest first.
func (r *FacebookRepo) RequestsByUser(ctx context.Context, userID uint64) ([]model.FacebookDataRequest, error) {
	return r.listRequests(ctx,
		"SELECT "+facebookRequestColumns+" FROM facebook_data_requests WHERE user_id=? ORDER BY created_at DESC",
		userID)
}

// PendingRequests returns all pending facebook requests, newest first.
func (r *FacebookRepo) PendingRequests(ctx context.Context) ([]model.FacebookDataRequest, error) {
	return r.listRequests(ctx,
		"SELECT "+facebookRequestColumns+" FROM facebook_data_requests WHERE status='pending' ORDER BY created_at DESC")
}

// SampleTx returns the IDs of up to limit records sampled at random
// from the facebook_data pool, inside the caller's transaction. The
// pool is sampled with replacement across users: no locking, the same
// record may appear in many users' samples.
func (r *FacebookRepo) SampleTx(ctx context.Context, tx *sql.Tx, limit int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM facebook_data ORDER BY RAND() LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0, limit)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AssignBulkTx records (facebook_data_id, user_id) pairs in the join
// table inside the caller's transaction. Pairs that already exist are
// silently ignored rather than treated as errors.
func (r *FacebookRepo) AssignBulkTx(ctx context.Context, tx *sql.Tx, userID uint64, dataIDs []uint64) error {
	if len(dataIDs) == 0 {
		return nil
	}
	query := "INSERT IGNORE INTO assigned_facebook_data (facebook_data_id, user_id) VALUES "
	args := make([]interface{}, 0, len(dataIDs)*2)
	values := make([]string, len(dataIDs))
	for i, id := range dataIDs {
		values[i] = "(?,?)"
		args = append(args, id, userID)
	}
	_, err := tx.ExecContext(ctx, query+strings.Join(values, ","), args...)
	return err
}

// AssignedData returns the facebook records handed to the given user,
// most recently assigned first.
func (r *FacebookRepo) AssignedData(ctx context.Context, userID uint64) ([]model.AssignedFacebookData, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT fd.id, fd.page_name, fd.page_url, fd.category, fd.followers, fd.contact_email, fd.phone, fd.notes, fd.created_at, afd.assigned_at
		 FROM assigned_facebook_data afd
		 JOIN facebook_data fd ON fd.id = afd.facebook_data_id
		 WHERE afd.user_id=?
		 ORDER BY afd.assigned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.AssignedFacebookData, 0)
	for rows.Next() {
		var rec model.AssignedFacebookData
		var category, contactEmail, phone, notes sql.NullString
		var followers sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.PageName, &rec.PageURL, &category, &followers,
			&contactEmail, &phone, &notes, &rec.CreatedAt, &rec.AssignedAt); err != nil {
			return nil, err
		}
		rec.Category = nullStr(category)
		rec.ContactEmail = nullStr(contactEmail)
		rec.Phone = nullStr(phone)
		rec.Notes = nullStr(notes)
		if followers.Valid {
			n := int(followers.Int64)
			rec.Followers = &n
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateData inserts a record into the facebook_data pool. Used by the
// seeder and by manual pool top-ups.
func (r *FacebookRepo) CreateData(ctx context.Context, fd *model.FacebookData) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO facebook_data (page_name, page_url, category, followers, contact_email, phone, notes) VALUES (?,?,?,?,?,?,?)",
		fd.PageName, fd.PageURL, fd.Category, fd.Followers, fd.ContactEmail, fd.Phone, fd.Notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// CompanyRepo provides persistence for the `companies` table,
// including the transactional claim primitive used by the assignment
// engine. The pool of unassigned companies (assigned_to_user_id IS
// NULL) is the one shared resource with real contention, so every
// mutation of ownership happens under row locks inside a transaction.
type CompanyRepo struct{ DB *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{DB: db} }

const companyColumns = "id, name, industry, email, phone, address, website, company_size, notes, status, category, assigned_to_user_id, created_at, updated_at"

func scanCompany(s interface {
	Scan(dest ...interface{}) error
}) (model.Company, error) {
	var c model.Company
	var email, phone, address, website, size, notes sql.NullString
	var assignedTo sql.NullInt64
	err := s.Scan(&c.ID, &c.Name, &c.Industry, &email, &phone, &address, &website,
		&size, &notes, &c.Status, &c.Category, &assignedTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Email = nullStr(email)
	c.Phone = nullStr(phone)
	c.Address = nullStr(address)
	c.Website = nullStr(website)
	c.CompanySize = nullStr(size)
	c.Notes = nullStr(notes)
	if assignedTo.Valid {
		id := uint64(assignedTo.Int64)
		c.AssignedToUserID = &id
	}
	return c, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func (r *CompanyRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Company, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	companies := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// All returns every company ordered by last update, newest first.
func (r *CompanyRepo) All(ctx context.Context) ([]model.Company, error) {
	return r.list(ctx, "SELECT "+companyColumns+" FROM companies ORDER BY updated_at DESC")
}

// ByUser returns the companies currently assigned to the given user.
func (r *CompanyRepo) ByUser(ctx context.Context, userID uint64) ([]model.Company, error) {
	return r.list(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE assigned_to_user_id=? ORDER BY updated_at DESC",
		userID)
}

// ByCategory returns companies in the given category. When userID is
// non-nil the list is further restricted to companies assigned to that
// user (the "mine" dashboard filter).
func (r *CompanyRepo) ByCategory(ctx context.Context, category string, userID *uint64) ([]model.Company, error) {
	if userID != nil {
		return r.list(ctx,
			"SELECT "+companyColumns+" FROM companies WHERE category=? AND assigned_to_user_id=? ORDER BY updated_at DESC",
			category, *userID)
	}
	return r.list(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE category=? ORDER BY updated_at DESC",
		category)
}

// ByID fetches one company. Returns sql.ErrNoRows when absent.
func (r *CompanyRepo) ByID(ctx context.Context, id uint64) (*model.Company, error) {
	c, err := scanCompany(r.DB.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a company and returns the stored row. Status defaults
// to active and category to assigned when left empty.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	if c.Status == "" {
		c.Status = model.CompanyStatusActive
	}
	if c.Category == "" {
		c.Category = model.CategoryAssigned
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO companies (name, industry, email, phone, address, website, company_size, notes, status, category, assigned_to_user_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		c.Name, c.Industry, c.Email, c.Phone, c.Address, c.Website, c.CompanySize,
		c.Notes, c.Status, c.Category, c.AssignedToUserID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, uint64(id))
}

// CompanyUpdates carries optional edits to a company's contact fields.
// Nil fields are left untouched. Ownership and category are never
// edited through this path; they belong to the engines.
type CompanyUpdates struct {
	Name        *string
	Industry    *string
	Email       *string
	Phone       *string
	Address     *string
	Website     *string
	CompanySize *string
	Notes       *string
	Status      *string
}

// Update applies the non-nil fields of upd and returns the stored row.
// Returns ErrNotFound when the company does not exist.
func (r *CompanyRepo) Update(ctx context.Context, id uint64, upd CompanyUpdates) (*model.Company, error) {
	sets := make([]string, 0, 9)
	args := make([]interface{}, 0, 10)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	add("name", upd.Name)
	add("industry", upd.Industry)
	add("email", upd.Email)
	add("phone", upd.Phone)
	add("address", upd.Address)
	add("website", upd.Website)
	add("company_size", upd.CompanySize)
	add("notes", upd.Notes)
	add("status", upd.Status)
	if len(sets) > 0 {
		sets = append(sets, "updated_at=NOW()")
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE companies SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return nil, err
		}
	}
	c, err := r.ByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// Delete removes a company.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM companies WHERE id=?", id)
	return err
}

// ClaimUnassignedTx atomically claims up to limit companies from the
// unassigned pool for the given user and returns the claimed IDs, all
// within the caller's transaction. The selection locks the chosen rows
// (FOR UPDATE SKIP LOCKED) so two concurrent approvals can never claim
// the same company: a row locked by another transaction is skipped
// rather than waited on. Ordering by id keeps each claim
// deterministic. An exhausted pool yields an empty slice, not an
// error. Only ownership changes here; category stays whatever the
// latest comment set it to.
func (r *CompanyRepo) ClaimUnassignedTx(ctx context.Context, tx *sql.Tx, userID uint64, limit int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM companies WHERE assigned_to_user_id IS NULL ORDER BY id LIMIT ? FOR UPDATE SKIP LOCKED",
		limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, limit)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(ids) == 0 {
		return ids, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE companies SET assigned_to_user_id=?, updated_at=NOW() WHERE id IN ("+strings.Join(placeholders, ",")+")",
		args...)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// LockByIDTx verifies the company exists and locks its row for the
// remainder of the transaction. Returns sql.ErrNoRows when absent.
func (r *CompanyRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	return tx.QueryRowContext(ctx,
		"SELECT id FROM companies WHERE id=? FOR UPDATE", id).Scan(&got)
}

// SetCategoryTx updates the company's category inside the caller's
// transaction. The row must already be locked via LockByIDTx.
func (r *CompanyRepo) SetCategoryTx(ctx context.Context, tx *sql.Tx, id uint64, category string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE companies SET category=?, updated_at=NOW() WHERE id=?", category, id)
	return err
}

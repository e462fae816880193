package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// UserRepo provides persistence for the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, email, password_hash, full_name, employee_id, role, is_active, login_time, created_at, updated_at"

// NewUser carries the caller-supplied fields for user creation. The
// password is hashed before this struct reaches the repository.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	EmployeeID   string
	Role         string
}

// Create inserts a user and returns the stored row. Unique-constraint
// violations are turned into a DuplicateError naming the offending
// field (username, email or employee_id).
func (r *UserRepo) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	nu.Username = strings.ToLower(strings.TrimSpace(nu.Username))
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name, employee_id, role) VALUES (?,?,?,?,?,?)",
		nu.Username, nu.Email, nu.PasswordHash, nu.FullName, nu.EmployeeID, nu.Role)
	if err != nil {
		if dup := duplicateField(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// duplicateField maps a MySQL 1062 duplicate-key error onto the user
// column it violated. Returns nil for any other error.
func duplicateField(err error) *DuplicateError {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return nil
	}
	for _, field := range []string{"username", "email", "employee_id"} {
		if strings.Contains(msg, field) {
			return &DuplicateError{Field: field}
		}
	}
	return &DuplicateError{Field: "unknown"}
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	var loginTime sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.EmployeeID,
		&u.Role, &u.IsActive, &loginTime, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if loginTime.Valid {
		t := loginTime.Time
		u.LoginTime = &t
	}
	return &u, nil
}

// All returns every user ordered by creation time, newest first.
func (r *UserRepo) All(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var loginTime sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
			&u.EmployeeID, &u.Role, &u.IsActive, &loginTime, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if loginTime.Valid {
			t := loginTime.Time
			u.LoginTime = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserUpdates carries optional admin edits to a user. Nil fields are
// left untouched.
type UserUpdates struct {
	Email    *string
	FullName *string
	Role     *string
	IsActive *bool
}

// Update applies the non-nil fields of upd to the user and returns the
// stored row. Returns ErrNotFound when the user does not exist.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdates) (*model.User, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, *upd.FullName)
	}
	if upd.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, *upd.Role)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active=?")
		args = append(args, *upd.IsActive)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=NOW()")
		args = append(args, id)
		_, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
		if err != nil {
			if dup := duplicateField(err); dup != nil {
				return nil, dup
			}
			return nil, err
		}
	}
	u, err := r.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// Delete removes a user. Missing rows are not an error: deletion is
// idempotent from the admin panel's point of view.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// UpdateLoginTime stamps the user's last dashboard visit.
func (r *UserRepo) UpdateLoginTime(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET login_time=? WHERE id=?", at.UTC(), id)
	return err
}

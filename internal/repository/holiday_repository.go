package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/crmdesk/company-dashboard/internal/model"
)

// HolidayRepo provides persistence for the `holidays` table. Holidays
// carry no contended state, so all operations are plain single-row
// statements.
type HolidayRepo struct{ DB *sql.DB }

func NewHolidayRepo(db *sql.DB) *HolidayRepo { return &HolidayRepo{DB: db} }

const holidayColumns = "id, name, date, description, duration, created_at"

func scanHoliday(s interface {
	Scan(dest ...interface{}) error
}) (model.Holiday, error) {
	var h model.Holiday
	var description sql.NullString
	err := s.Scan(&h.ID, &h.Name, &h.Date, &description, &h.Duration, &h.CreatedAt)
	if err != nil {
		return h, err
	}
	h.Description = nullStr(description)
	return h, nil
}

// All returns every holiday ordered by date ascending.
func (r *HolidayRepo) All(ctx context.Context) ([]model.Holiday, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+holidayColumns+" FROM holidays ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	holidays := make([]model.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// ByID fetches one holiday. Returns sql.ErrNoRows when absent.
func (r *HolidayRepo) ByID(ctx context.Context, id uint64) (*model.Holiday, error) {
	h, err := scanHoliday(r.DB.QueryRowContext(ctx,
		"SELECT "+holidayColumns+" FROM holidays WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a holiday and returns the stored row.
func (r *HolidayRepo) Create(ctx context.Context, name string, date time.Time, description *string, duration string) (*model.Holiday, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO holidays (name, date, description, duration) VALUES (?,?,?,?)",
		name, date.UTC(), description, duration)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, uint64(id))
}

// HolidayUpdates carries optional edits to a holiday. Nil fields are
// left untouched.
type HolidayUpdates struct {
	Name        *string
	Date        *time.Time
	Description *string
	Duration    *string
}

// Update applies the non-nil fields of upd and returns the stored row.
// Returns ErrNotFound when the holiday does not exist.
func (r *HolidayRepo) Update(ctx context.Context, id uint64, upd HolidayUpdates) (*model.Holiday, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Date != nil {
		sets = append(sets, "date=?")
		args = append(args, upd.Date.UTC())
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Duration != nil {
		sets = append(sets, "duration=?")
		args = append(args, *upd.Duration)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE holidays SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return nil, err
		}
	}
	h, err := r.ByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return h, err
}

// Delete removes a holiday.
func (r *HolidayRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM holidays WHERE id=?", id)
	return err
}

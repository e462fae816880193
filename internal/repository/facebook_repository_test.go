package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignedDataCarriesAssignmentTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assigned := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT fd.id, fd.page_name, fd.page_url, fd.category, fd.followers, fd.contact_email, fd.phone, fd.notes, fd.created_at, afd.assigned_at
		 FROM assigned_facebook_data afd
		 JOIN facebook_data fd ON fd.id = afd.facebook_data_id
		 WHERE afd.user_id=?
		 ORDER BY afd.assigned_at DESC`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "page_name", "page_url", "category", "followers",
			"contact_email", "phone", "notes", "created_at", "assigned_at",
		}).AddRow(5, "Tech Gadgets Hub", "https://facebook.com/techgadgetshub",
			"Technology", 15000, nil, nil, nil, created, assigned))

	records, err := NewFacebookRepo(db).AssignedData(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(5), records[0].ID)
	assert.Equal(t, "Tech Gadgets Hub", records[0].PageName)
	require.NotNil(t, records[0].Followers)
	assert.Equal(t, 15000, *records[0].Followers)
	assert.True(t, records[0].AssignedAt.Equal(assigned))
	assert.NoError(t, mock.ExpectationsWereMet())
}

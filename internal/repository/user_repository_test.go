package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateFieldMapsMySQLErrors(t *testing.T) {
	cases := []struct {
		msg   string
		field string
	}{
		{"Error 1062 (23000): Duplicate entry 'jdoe' for key 'users.uq_users_username'", "username"},
		{"Error 1062 (23000): Duplicate entry 'jdoe@x.com' for key 'users.uq_users_email'", "email"},
		{"Error 1062 (23000): Duplicate entry 'EMP0042' for key 'users.uq_users_employee_id'", "employee_id"},
	}
	for _, tc := range cases {
		dup := duplicateField(errors.New(tc.msg))
		require.NotNil(t, dup, tc.msg)
		assert.Equal(t, tc.field, dup.Field)
		assert.Contains(t, dup.Error(), tc.field)
	}
}

func TestDuplicateFieldIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, duplicateField(errors.New("Error 1146 (42S02): Table 'x.users' doesn't exist")))
	assert.Nil(t, duplicateField(errors.New("connection refused")))
}

func TestDuplicateFieldUnknownColumn(t *testing.T) {
	dup := duplicateField(errors.New("Error 1062 (23000): Duplicate entry 'x' for key 'users.uq_other'"))
	require.NotNil(t, dup)
	assert.Equal(t, "unknown", dup.Field)
}

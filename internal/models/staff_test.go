// internal/models/staff_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffPasswordHashing(t *testing.T) {
	user := &StaffUser{Email: "reviewer@example.gov"}
	require.NoError(t, user.SetPassword("correct horse battery staple"))

	assert.NotEqual(t, "correct horse battery staple", user.PasswordHash)
	assert.True(t, user.CheckPassword("correct horse battery staple"))
	assert.False(t, user.CheckPassword("wrong password"))
	assert.False(t, user.CheckPassword(""))
}

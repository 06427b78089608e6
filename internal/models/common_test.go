// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationStatusSubmitted, ApplicationStatusApproved, true},
		{ApplicationStatusSubmitted, ApplicationStatusRejected, true},
		{ApplicationStatusSubmitted, ApplicationStatusPending, false},
		{ApplicationStatusSubmitted, ApplicationStatusSubmitted, false},
		{ApplicationStatusPending, ApplicationStatusSubmitted, true},
		{ApplicationStatusPending, ApplicationStatusApproved, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusApproved, ApplicationStatusSubmitted, false},
		{ApplicationStatusApproved, ApplicationStatusRejected, false},
		{ApplicationStatusRejected, ApplicationStatusSubmitted, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equalf(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, ApplicationStatusApproved.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.False(t, ApplicationStatusSubmitted.IsTerminal())
	assert.False(t, ApplicationStatusPending.IsTerminal())
}

func TestValidApplicationStatus(t *testing.T) {
	assert.True(t, ValidApplicationStatus("submitted"))
	assert.True(t, ValidApplicationStatus("pending"))
	assert.True(t, ValidApplicationStatus("approved"))
	assert.True(t, ValidApplicationStatus("rejected"))
	assert.False(t, ValidApplicationStatus("completed"))
	assert.False(t, ValidApplicationStatus(""))
}

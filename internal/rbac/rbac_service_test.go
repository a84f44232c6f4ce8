package rbac_test

import (
	"testing"

	"staff-portal/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"Employee", "requests", "create", true},
		{"Employee", "requests", "cancel", true},
		{"Employee", "approvals", "decide", false},
		{"Employee", "requests", "read_all", false},
		{"Head", "requests", "create", true}, // inherited from Employee
		{"Head", "approvals", "decide", true},
		{"Head", "cancellations", "read", true},
		{"Head", "reports", "export", false},
		{"HR", "approvals", "decide", true}, // inherited from Head
		{"HR", "requests", "read_all", true},
		{"HR", "employees", "manage", true},
		{"HR", "reports", "export", true},
		{"Intern", "requests", "create", false},
	}

	for _, tc := range cases {
		allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}

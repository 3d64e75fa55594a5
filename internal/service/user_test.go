package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	_, err := h.svc.Users.List(ctx, m.borrower, repository.UserFilter{}, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := h.svc.Users.List(ctx, m.admin, repository.UserFilter{Role: model.RoleBorrower}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "cust1", res.Items[0].Username)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	u, err := h.svc.Users.Update(ctx, m.borrower, m.borrower.UserID, UserUpdate{
		City: ptr("Pune"), MonthlyIncome: ptr(65000.0), Password: ptr("brand-new-pass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pune", u.City)
	assert.Equal(t, 65000.0, u.MonthlyIncome)
	assert.Equal(t, "John", u.FirstName)
	assert.NoError(t, auth.CheckPassword(u.PasswordHash, "brand-new-pass"))

	tests := []struct {
		name    string
		p       auth.Principal
		id      int64
		upd     UserUpdate
		wantErr error
	}{
		{"other user", m.lender, m.borrower.UserID, UserUpdate{City: ptr("X")}, ErrForbidden},
		{"self role change", m.borrower, m.borrower.UserID, UserUpdate{Role: ptr("ADMIN")}, ErrForbidden},
		{"short password", m.borrower, m.borrower.UserID, UserUpdate{Password: ptr("123")}, ErrInvalidInput},
		{"credit score out of range", m.borrower, m.borrower.UserID, UserUpdate{CreditScore: ptr(200)}, ErrInvalidInput},
		{"admin deactivates self", m.admin, m.admin.UserID, UserUpdate{IsActive: ptr(false)}, ErrInvalidInput},
		{"unknown role", m.admin, m.borrower.UserID, UserUpdate{Role: ptr("ROOT")}, ErrInvalidInput},
		{"missing user", m.admin, 999, UserUpdate{City: ptr("X")}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Users.Update(ctx, tt.p, tt.id, tt.upd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	u, err = h.svc.Users.Update(ctx, m.admin, m.borrower.UserID, UserUpdate{IsActive: ptr(false), Role: ptr("lender")})
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, model.RoleLender, u.Role)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	assert.ErrorIs(t, h.svc.Users.Delete(ctx, m.lender, m.borrower.UserID), ErrForbidden)
	assert.ErrorIs(t, h.svc.Users.Delete(ctx, m.admin, m.admin.UserID), ErrInvalidInput)
	require.NoError(t, h.svc.Users.Delete(ctx, m.admin, m.borrower.UserID))
	assert.ErrorIs(t, h.svc.Users.Delete(ctx, m.admin, m.borrower.UserID), ErrNotFound)
}

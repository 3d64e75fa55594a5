package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.svc.Auth.Register(ctx, RegisterInput{
		Username: "newcust", Email: "new@example.com", Password: "longenough", MonthlyIncome: 40000, CreditScore: 700,
	})
	require.NoError(t, err)
	assert.Equal(t, "Registration successful", res.Message)
	assert.Equal(t, model.RoleBorrower, res.User.Role)
	assert.Equal(t, "/borrower/dashboard", res.Redirect)
	assert.NotEmpty(t, res.Token)

	p, err := h.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)

	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
	}{
		{"duplicate username", RegisterInput{Username: "NEWCUST", Password: "longenough"}, ErrConflict},
		{"short password", RegisterInput{Username: "abc", Password: "short"}, ErrInvalidInput},
		{"short username", RegisterInput{Username: "ab", Password: "longenough"}, ErrInvalidInput},
		{"admin cannot self-register", RegisterInput{Username: "boss", Password: "longenough", Role: "admin"}, ErrForbidden},
		{"unknown role", RegisterInput{Username: "guest", Password: "longenough", Role: "guest"}, ErrInvalidInput},
		{"credit score out of range", RegisterInput{Username: "cs", Password: "longenough", CreditScore: 900}, ErrInvalidInput},
		{"negative income", RegisterInput{Username: "neg", Password: "longenough", MonthlyIncome: -1}, ErrInvalidInput},
		{"bad email", RegisterInput{Username: "mail", Password: "longenough", Email: "not-an-email"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Auth.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_RegisterLender(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Auth.Register(context.Background(), RegisterInput{Username: "bank", Password: "longenough", Role: "lender"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleLender, res.User.Role)
	assert.Equal(t, "/lender/dashboard", res.Redirect)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, model.User{Username: "cust1", Role: model.RoleBorrower})
	disabled := h.user(t, model.User{Username: "gone", Role: model.RoleBorrower})
	u, err := h.store.Users.FindByID(ctx, disabled.UserID)
	require.NoError(t, err)
	u.IsActive = false
	_, err = h.store.Users.Update(ctx, u)
	require.NoError(t, err)

	res, err := h.svc.Auth.Login(ctx, "cust1", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
	assert.Equal(t, "/borrower/dashboard", res.Redirect)

	_, err = h.svc.Auth.Login(ctx, "cust1", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.EqualError(t, err, "Invalid credentials")

	_, err = h.svc.Auth.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.svc.Auth.Login(ctx, "gone", testPassword)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_RefreshAndMe(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.user(t, model.User{Username: "lender1", Role: model.RoleLender})

	me, err := h.svc.Auth.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "lender1", me.Username)

	res, err := h.svc.Auth.Refresh(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "/lender/dashboard", res.Redirect)

	p.UserID = 999
	_, err = h.svc.Auth.Me(ctx, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

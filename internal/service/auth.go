package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const (
	minPasswordLength = 8
	minUsernameLength = 3

	msgRegistered = "Registration successful"
	msgLoggedIn   = "Login successful"
	msgRefreshed  = "Session refreshed"
)

// RegisterInput is a self-service sign-up.
type RegisterInput struct {
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Role             string     `json:"role"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Phone            string     `json:"phone"`
	Company          string     `json:"company"`
	LendingLicense   string     `json:"lendingLicense"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Pincode          string     `json:"pincode"`
	MonthlyIncome    float64    `json:"monthlyIncome"`
	CreditScore      int        `json:"creditScore"`
	EmploymentStatus string     `json:"employmentStatus"`
}

// AuthResult is returned by every successful sign-in flow.
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Message   string      `json:"message"`
	Redirect  string      `json:"redirect"`
}

// AuthService registers users and issues session tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	// Refresh reissues a token for a still-active user.
	Refresh(ctx context.Context, p auth.Principal) (*AuthResult, error)
	Me(ctx context.Context, p auth.Principal) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	cost   int
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, bcryptCost int, now func() time.Time) AuthService {
	return &authService{users: users, tokens: tokens, cost: bcryptCost, now: now}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if len(in.Username) < minUsernameLength {
		return nil, invalid("username", "username must be at least %d characters", minUsernameLength)
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password", "password must be at least %d characters", minPasswordLength)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return nil, invalid("email", "email address is invalid")
		}
	}

	role := model.RoleBorrower
	if in.Role != "" {
		r, ok := model.ParseRole(in.Role)
		if !ok {
			return nil, invalid("role", "unknown role %q", in.Role)
		}
		role = r
	}
	if role == model.RoleAdmin {
		return nil, forbidden("administrators cannot self-register")
	}
	if err := validateProfile(in.MonthlyIncome, in.CreditScore); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u, err := s.users.Create(ctx, &model.User{
		Username:         in.Username,
		Email:            strings.TrimSpace(in.Email),
		PasswordHash:     hash,
		Role:             role,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Company:          in.Company,
		LendingLicense:   in.LendingLicense,
		DateOfBirth:      in.DateOfBirth,
		Address:          in.Address,
		City:             in.City,
		State:            in.State,
		Pincode:          in.Pincode,
		MonthlyIncome:    in.MonthlyIncome,
		CreditScore:      in.CreditScore,
		EmploymentStatus: in.EmploymentStatus,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict("username %q is already taken", in.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(u, msgRegistered)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.session(u, msgLoggedIn)
}

func (s *authService) Refresh(ctx context.Context, p auth.Principal) (*AuthResult, error) {
	u, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.session(u, msgRefreshed)
}

func (s *authService) Me(ctx context.Context, p auth.Principal) (*model.User, error) {
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

func (s *authService) session(u *model.User, msg string) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:      u,
		Token:     token,
		ExpiresAt: exp,
		Message:   msg,
		Redirect:  auth.DashboardPath(u.Role),
	}, nil
}

func validateProfile(income float64, credit int) error {
	if income < 0 {
		return invalid("monthlyIncome", "monthly income cannot be negative")
	}
	if credit != 0 && (credit < 300 || credit > 850) {
		return invalid("creditScore", "credit score must be between 300 and 850")
	}
	return nil
}

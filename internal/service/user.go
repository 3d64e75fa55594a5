package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// UserUpdate is a partial profile change. Nil fields are left untouched.
// Role and IsActive are reserved for administrators.
type UserUpdate struct {
	Email            *string    `json:"email"`
	Password         *string    `json:"password"`
	FirstName        *string    `json:"firstName"`
	LastName         *string    `json:"lastName"`
	Phone            *string    `json:"phone"`
	Company          *string    `json:"company"`
	LendingLicense   *string    `json:"lendingLicense"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	Address          *string    `json:"address"`
	City             *string    `json:"city"`
	State            *string    `json:"state"`
	Pincode          *string    `json:"pincode"`
	MonthlyIncome    *float64   `json:"monthlyIncome"`
	CreditScore      *int       `json:"creditScore"`
	EmploymentStatus *string    `json:"employmentStatus"`
	Role             *string    `json:"role"`
	IsActive         *bool      `json:"isActive"`
}

// UserService manages accounts.
type UserService interface {
	List(ctx context.Context, p auth.Principal, f repository.UserFilter, limit, offset int) (*ListResult[model.User], error)
	Get(ctx context.Context, p auth.Principal, id int64) (*model.User, error)
	Update(ctx context.Context, p auth.Principal, id int64, upd UserUpdate) (*model.User, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

type userService struct {
	users repository.UserRepository
	cost  int
	now   func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, bcryptCost int, now func() time.Time) UserService {
	return &userService{users: users, cost: bcryptCost, now: now}
}

func canAccessUser(p auth.Principal, id int64) error {
	if p.Is(model.RoleAdmin) || p.UserID == id {
		return nil
	}
	return forbidden("you can only access your own account")
}

func (s *userService) List(ctx context.Context, p auth.Principal, f repository.UserFilter, limit, offset int) (*ListResult[model.User], error) {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return nil, err
	}
	res, err := s.users.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *userService) Get(ctx context.Context, p auth.Principal, id int64) (*model.User, error) {
	if err := canAccessUser(p, id); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, p auth.Principal, id int64, upd UserUpdate) (*model.User, error) {
	u, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if (upd.Role != nil || upd.IsActive != nil) && !p.Is(model.RoleAdmin) {
		return nil, forbidden("only administrators can change role or status")
	}

	if upd.Email != nil {
		if *upd.Email != "" {
			if _, err := mail.ParseAddress(*upd.Email); err != nil {
				return nil, invalid("email", "email address is invalid")
			}
		}
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return nil, invalid("password", "password must be at least %d characters", minPasswordLength)
		}
		hash, err := auth.HashPassword(*upd.Password, s.cost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if upd.Role != nil {
		r, ok := model.ParseRole(*upd.Role)
		if !ok {
			return nil, invalid("role", "unknown role %q", *upd.Role)
		}
		u.Role = r
	}
	if upd.IsActive != nil {
		if !*upd.IsActive && id == p.UserID {
			return nil, invalid("isActive", "you cannot deactivate your own account")
		}
		u.IsActive = *upd.IsActive
	}
	setIf(&u.FirstName, upd.FirstName)
	setIf(&u.LastName, upd.LastName)
	setIf(&u.Phone, upd.Phone)
	setIf(&u.Company, upd.Company)
	setIf(&u.LendingLicense, upd.LendingLicense)
	setIf(&u.Address, upd.Address)
	setIf(&u.City, upd.City)
	setIf(&u.State, upd.State)
	setIf(&u.Pincode, upd.Pincode)
	setIf(&u.MonthlyIncome, upd.MonthlyIncome)
	setIf(&u.CreditScore, upd.CreditScore)
	setIf(&u.EmploymentStatus, upd.EmploymentStatus)
	if upd.DateOfBirth != nil {
		u.DateOfBirth = upd.DateOfBirth
	}
	if err := validateProfile(u.MonthlyIncome, u.CreditScore); err != nil {
		return nil, err
	}

	u.UpdatedAt = s.now().UTC()
	out, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", notFound("user", err))
	}
	return out, nil
}

func (s *userService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return err
	}
	if id == p.UserID {
		return invalid("id", "you cannot delete your own account")
	}
	return notFound("user", s.users.Delete(ctx, id))
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

package model

import (
	"strings"
	"time"
)

// User is any platform account: borrower, lender staff or administrator.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Phone            string     `json:"phone,omitempty"`
	Company          string     `json:"company,omitempty"`
	LendingLicense   string     `json:"lendingLicense,omitempty"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Pincode          string     `json:"pincode,omitempty"`
	MonthlyIncome    float64    `json:"monthlyIncome,omitempty"`
	CreditScore      int        `json:"creditScore,omitempty"`
	EmploymentStatus string     `json:"employmentStatus,omitempty"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

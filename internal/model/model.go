// Package model contains the marketplace domain records.
// They carry json tags for the REST contract and nothing persistence-specific.
package model

import "strings"

// Role is one of the three fixed platform roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleLender   Role = "LENDER"
	RoleBorrower Role = "BORROWER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLender, RoleBorrower:
		return true
	}
	return false
}

// ParseRole normalizes case and surrounding whitespace.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Employment statuses recognized by the scoring routines. Other values are
// stored verbatim and score as "other".
const (
	EmploymentEmployed     = "EMPLOYED"
	EmploymentSelfEmployed = "SELF_EMPLOYED"
	EmploymentStudent      = "STUDENT"
	EmploymentUnemployed   = "UNEMPLOYED"
	EmploymentRetired      = "RETIRED"
	EmploymentPartTime     = "PART_TIME"
)

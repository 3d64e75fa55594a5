// Package repository declares the persistence contracts. Implementations live
// in subpackages: postgres for production and memory for the in-process
// mock data source.
package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

// PageQuery holds limit/offset pagination parameters. A non-positive Limit
// returns every row.
type PageQuery struct {
	Limit  int
	Offset int
}

// All is a PageQuery without bounds.
var All = PageQuery{}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Set groups one implementation of every repository.
type Set struct {
	Users         UserRepository
	Lenders       LenderRepository
	Rules         RuleRepository
	Applications  ApplicationRepository
	Notifications NotificationRepository
	Documents     DocumentRepository
	Settings      SettingsRepository
}

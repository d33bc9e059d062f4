// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"github.com/pkg/errors"
)

// Domain-specific errors returned by repository implementations.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrAgentNotFound           = errors.New("agent not found")
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrInventoryRecordNotFound = errors.New("inventory record not found")
	ErrFollowUpNotFound        = errors.New("follow-up record not found")

	ErrDuplicateUsername    = errors.New("username already exists")
	ErrDuplicateCompanyName = errors.New("agent company name already exists")
	ErrDuplicateCustomer    = errors.New("customer name already exists")
	ErrDuplicateProduct     = errors.New("product model and package already exist")

	// ErrDuplicateOperation is returned when an inventory record with the same operation id exists.
	ErrDuplicateOperation = errors.New("inventory operation already recorded")

	// ErrInsufficientStock is returned when an outbound mutation would make stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTransient marks failures that may succeed when the whole operation is retried.
	ErrTransient = errors.New("transient storage failure")
)

type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func (e *transientError) Is(target error) bool {
	return target == ErrTransient
}

// MarkTransient tags err as retryable while keeping it inspectable with errors.Is/As.
func MarkTransient(err error) error {
	if err == nil || IsTransient(err) {
		return err
	}

	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

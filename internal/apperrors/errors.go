package apperrors

import (
	"errors"
	"fmt"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the operation lost a concurrent update race.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInternal indicates an unexpected failure the caller cannot repair.
var ErrInternal = errors.New("internal error")

// ErrInvalidStateTransition indicates a journal entry lifecycle operation was
// attempted from a status that does not permit it.
var ErrInvalidStateTransition = errors.New("invalid journal entry state transition")

// ErrAlreadyVoided indicates a void was attempted on an entry that is already voided.
var ErrAlreadyVoided = errors.New("journal entry already voided")

// ErrAccountResolution indicates no account could be resolved for a reference.
var ErrAccountResolution = errors.New("account resolution failed")

// ValidationError carries the accumulated validation result for a journal
// entry that failed validation. It unwraps to ErrValidation.
type ValidationError struct {
	Result domain.ValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("validation failed: %v", e.Result.Errors)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError wraps an accumulated result into an error.
func NewValidationError(result domain.ValidationResult) *ValidationError {
	return &ValidationError{Result: result}
}

// LifecycleError reports a rejected journal entry state transition. It is
// distinct from validation: the entry content may be fine while its status
// forbids the operation. It unwraps to the sentinel it was built with,
// ErrInvalidStateTransition or ErrAlreadyVoided.
type LifecycleError struct {
	EntryID string
	Status  domain.EntryStatus
	Op      string
	err     error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("cannot %s entry %s in status %s: %v", e.Op, e.EntryID, e.Status, e.err)
}

func (e *LifecycleError) Unwrap() error {
	return e.err
}

// NewLifecycleError builds a LifecycleError around a lifecycle sentinel.
func NewLifecycleError(op, entryID string, status domain.EntryStatus, sentinel error) *LifecycleError {
	return &LifecycleError{EntryID: entryID, Status: status, Op: op, err: sentinel}
}

// ResolutionError reports that an account reference could not be resolved at
// any tier, which only happens when the tenant has no accounts at all. It
// unwraps to ErrAccountResolution.
type ResolutionError struct {
	Reference string
	TenantID  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no account resolvable for reference %q in tenant %s", e.Reference, e.TenantID)
}

func (e *ResolutionError) Unwrap() error {
	return ErrAccountResolution
}

// NewResolutionError builds a ResolutionError for a reference.
func NewResolutionError(reference, tenantID string) *ResolutionError {
	return &ResolutionError{Reference: reference, TenantID: tenantID}
}

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// conversation engine to distinguish between different failure
// scenarios. For example, ErrBookUnavailable indicates that the book
// was claimed by another user between lookup and confirmation, while
// ErrLoanMismatch signals that a return was attempted against a book
// the user does not currently hold.
package repository

import "errors"

// ErrBookNotFound is returned when no book matches a (title, office)
// lookup. The engine translates this into a retry-or-cancel prompt.
var ErrBookNotFound = errors.New("book not found")

// ErrBookUnavailable is returned when a loan cannot be created because
// the book's status is not "available" inside the claiming
// transaction. The engine translates this into a retryable prompt
// without discarding the user's collected selections.
var ErrBookUnavailable = errors.New("book unavailable")

// ErrNoActiveLoan is returned when an operation requires an active
// loan and the user does not hold one.
var ErrNoActiveLoan = errors.New("no active loan")

// ErrLoanMismatch is returned when the user attempts to act on a loan
// for a book that does not match their active loan. No state is
// mutated in this case.
var ErrLoanMismatch = errors.New("loan does not match active booking")

// ErrActiveLoanExists is returned when a loan creation is attempted
// for a user who already holds an active loan. The at-most-one-loan
// invariant is enforced inside the claiming transaction, not trusted
// to the engine's earlier check.
var ErrActiveLoanExists = errors.New("user already has an active loan")

// ErrUserNotFound is returned when a user id has never been registered.
var ErrUserNotFound = errors.New("user not found")

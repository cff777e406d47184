package bot

import (
    "context"
    "time"

    "github.com/iliyamo/library-reservation/internal/model"
)

// The engine talks to storage through narrow interfaces implemented by
// the repository package. Tests substitute in-memory fakes.

// Users is the registered-reader store.
type Users interface {
    Get(ctx context.Context, id uint64) (model.User, error)
    Register(ctx context.Context, id uint64, firstName, lastName string) error
    SetOffice(ctx context.Context, id uint64, office string) error
}

// Catalog is the read side of the book registry.
type Catalog interface {
    FindByTitle(ctx context.Context, title, office string) (model.Book, error)
    ListAvailable(ctx context.Context, office string) ([]model.Book, error)
}

// Ledger is the reservation ledger. Create and Complete are atomic
// units; Create re-checks availability inside its own transaction.
type Ledger interface {
    Create(ctx context.Context, userID uint64, title, office string, duration model.Duration, now time.Time) (model.Loan, error)
    Complete(ctx context.Context, userID uint64, title, office string, now time.Time) error
    GetActive(ctx context.Context, userID uint64) (model.Loan, error)
}

// Waitlist is the FIFO queue of users waiting for a booked book.
type Waitlist interface {
    Enqueue(ctx context.Context, userID uint64, title, office string, now time.Time) (bool, error)
    PeekOldestUnnotified(ctx context.Context, title, office string) (uint64, bool, error)
    MarkNotified(ctx context.Context, userID uint64, title, office string) error
    Remove(ctx context.Context, userID uint64, title, office string) error
}

// ReminderLog is the slice of the scheduler's state the engine touches:
// completing a loan clears its reminder history.
type ReminderLog interface {
    Purge(ctx context.Context, userID uint64, title, office string) error
}

// EventPublisher receives loan lifecycle events for out-of-band
// consumers (audit log, analytics). Publishing is fire-and-forget:
// implementations log failures, callers ignore them. A nil publisher
// disables events.
type EventPublisher interface {
    LoanCreated(ctx context.Context, loan model.Loan, firstName, lastName string)
    LoanReturned(ctx context.Context, loan model.Loan, firstName, lastName string)
}

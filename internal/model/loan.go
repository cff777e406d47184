package model

import "time"

// Loan statuses as stored in the loans.status column.
const (
    LoanStatusActive    = "active"
    LoanStatusCompleted = "completed"
)

// Loan records a user's time-bounded booking of a book as stored in
// the `loans` table. A loan is created atomically with the book and
// user status flips to "booked" and completed atomically with the
// inverse flips. At most one active loan exists per user and per book.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who holds the loan.
//  BookTitle – title of the loaned book.
//  Office    – office the book belongs to.
//  StartTime – when the loan began.
//  Duration  – duration tier ("hour", "day", "week", "month").
//  EndTime   – computed expiry (StartTime + tier offset).
//  Status    – "active" or "completed".
//  CreatedAt – creation timestamp.
type Loan struct {
    ID        uint64    // loans.id
    UserID    uint64    // loans.user_id
    BookTitle string    // loans.book_title
    Office    string    // loans.office
    StartTime time.Time // loans.start_time
    Duration  Duration  // loans.duration
    EndTime   time.Time // loans.end_time
    Status    string    // loans.status
    CreatedAt time.Time // loans.created_at
}

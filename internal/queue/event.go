// Package queue defines the loan lifecycle messages exchanged over the
// message broker, plus the publisher and the audit-log consumer.
package queue

const loanQueueName = "loan.events"

// Event kinds carried in LoanEvent.Kind.
const (
    KindLoanCreated  = "loan.created"
    KindLoanReturned = "loan.returned"
)

// LoanEvent is published whenever a loan is created or completed. It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type LoanEvent struct {
    Kind       string `json:"kind"`
    LoanID     uint64 `json:"loan_id"`
    UserID     uint64 `json:"user_id"`
    FirstName  string `json:"first_name"`
    LastName   string `json:"last_name"`
    BookTitle  string `json:"book_title"`
    Office     string `json:"office"`
    Duration   string `json:"duration"`
    StartsAt   string `json:"starts_at"`
    EndsAt     string `json:"ends_at"`
    OccurredAt string `json:"occurred_at"`
}

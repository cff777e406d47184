package model

import "time"

// User statuses as stored in the users.status column. A user is
// UserStatusBooked while they hold an active loan and may not start
// another one.
const (
    UserStatusAvailable = "available"
    UserStatusBooked    = "booked"
)

// User represents a registered reader as stored in the `users` table.
// Users are created on first contact with the bot and never deleted.
// The loan-related fields mirror the user's single active loan and are
// cleared when the loan completes.
//
// Fields:
//  ID           – stable numeric identity supplied by the chat transport.
//  FirstName    – first token of the registered name.
//  LastName     – remaining tokens of the registered name.
//  Office       – assigned location (nullable until chosen).
//  CurrentBook  – title of the actively loaned book (nullable).
//  LoanStart    – start of the active loan (nullable).
//  LoanDuration – duration tier of the active loan (nullable).
//  LoanEnd      – computed expiry of the active loan (nullable).
//  Status       – "available" or "booked".
//  CreatedAt    – timestamp of first contact.
type User struct {
    ID           uint64     // users.user_id
    FirstName    string     // users.first_name
    LastName     string     // users.last_name
    Office       *string    // users.office (nullable)
    CurrentBook  *string    // users.current_book (nullable)
    LoanStart    *time.Time // users.loan_start (nullable)
    LoanDuration *string    // users.loan_duration (nullable)
    LoanEnd      *time.Time // users.loan_end (nullable)
    Status       string     // users.status
    CreatedAt    time.Time  // users.created_at
}

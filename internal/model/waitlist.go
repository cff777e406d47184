package model

import "time"

// WaitlistEntry represents a pending request to be told when a booked
// book becomes available, as stored in the `waitlist` table. Entries
// are unique per (user, title, office); enqueueing an existing entry
// is a no-op. Candidate selection on release is strictly FIFO by
// QueuedAt among entries not yet notified, and a notified entry is
// never selected again.
//
// Fields:
//  UserID    – user waiting for the book.
//  BookTitle – title of the wanted book.
//  Office    – office the book belongs to.
//  QueuedAt  – enqueue timestamp; FIFO ordering key.
//  Notified  – set once a release notification was delivered.
type WaitlistEntry struct {
    UserID    uint64    // waitlist.user_id
    BookTitle string    // waitlist.book_title
    Office    string    // waitlist.office
    QueuedAt  time.Time // waitlist.queued_at
    Notified  bool      // waitlist.notified
}

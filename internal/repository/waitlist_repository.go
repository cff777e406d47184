package repository

import (
    "context"
    "database/sql"
    "time"
)

// WaitlistRepo provides data access to the `waitlist` table: a FIFO,
// keyed per (book title, office), of users waiting for a booked book.
// Ordering for candidate selection is strictly queued_at ascending
// among entries whose notified flag is still clear; marking an entry
// notified removes it from selection permanently.
type WaitlistRepo struct{ db *sql.DB }

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// Enqueue inserts a waitlist entry for the user. A duplicate request
// for the same (user, title, office) is a no-op and returns false, not
// an error. The queued timestamp is stored with sub-second precision
// because it is the FIFO ordering key.
func (r *WaitlistRepo) Enqueue(ctx context.Context, userID uint64, title, office string, now time.Time) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT IGNORE INTO waitlist (user_id, book_title, office, queued_at, notified)
         VALUES (?,?,?,?,0)`,
        userID, title, office, now.UTC())
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// PeekOldestUnnotified returns the user id at the head of the queue
// for the given book, skipping entries that were already notified.
// The second return value is false when the queue has no candidate.
func (r *WaitlistRepo) PeekOldestUnnotified(ctx context.Context, title, office string) (uint64, bool, error) {
    var userID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM waitlist
         WHERE book_title = ? AND office = ? AND notified = 0
         ORDER BY queued_at ASC LIMIT 1`,
        title, office).Scan(&userID)
    if err == sql.ErrNoRows {
        return 0, false, nil
    }
    if err != nil {
        return 0, false, err
    }
    return userID, true, nil
}

// MarkNotified sets the notified flag on the user's entry. Callers set
// it only after a successful delivery so a failed notification leaves
// the entry eligible for the next release of the same book.
func (r *WaitlistRepo) MarkNotified(ctx context.Context, userID uint64, title, office string) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE waitlist SET notified = 1 WHERE user_id = ? AND book_title = ? AND office = ?`,
        userID, title, office)
    return err
}

// Remove deletes the user's entry. It is called both on a successful
// claim and on explicit cancellation; removing a missing entry is not
// an error.
func (r *WaitlistRepo) Remove(ctx context.Context, userID uint64, title, office string) error {
    _, err := r.db.ExecContext(ctx,
        `DELETE FROM waitlist WHERE user_id = ? AND book_title = ? AND office = ?`,
        userID, title, office)
    return err
}

package repository

import (
    "context"
    "database/sql"
    "time"
)

// ReminderLogRepo persists the reminder scheduler's idempotency state:
// for each (user, book, office, reminder kind) the timestamp of the
// last delivered reminder. Keeping this in the store rather than in
// process memory means a scheduler restart cannot re-fire checkpoints
// that already fired, and the overdue cooldown survives restarts too.
type ReminderLogRepo struct{ db *sql.DB }

// NewReminderLogRepo returns a new ReminderLogRepo bound to the given
// database.
func NewReminderLogRepo(db *sql.DB) *ReminderLogRepo { return &ReminderLogRepo{db: db} }

// LastSent returns when a reminder of the given kind was last
// delivered for this loan. The second return value is false when no
// reminder of that kind has ever been sent.
func (r *ReminderLogRepo) LastSent(ctx context.Context, userID uint64, title, office, kind string) (time.Time, bool, error) {
    var t time.Time
    err := r.db.QueryRowContext(ctx,
        `SELECT last_sent_at FROM reminder_log
         WHERE user_id = ? AND book_title = ? AND office = ? AND kind = ?`,
        userID, title, office, kind).Scan(&t)
    if err == sql.ErrNoRows {
        return time.Time{}, false, nil
    }
    if err != nil {
        return time.Time{}, false, err
    }
    return t, true, nil
}

// RecordSent upserts the last-sent timestamp for (user, book, office,
// kind). It is called only after a successful delivery.
func (r *ReminderLogRepo) RecordSent(ctx context.Context, userID uint64, title, office, kind string, at time.Time) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO reminder_log (user_id, book_title, office, kind, last_sent_at)
         VALUES (?,?,?,?,?)
         ON DUPLICATE KEY UPDATE last_sent_at = VALUES(last_sent_at)`,
        userID, title, office, kind, at.UTC())
    return err
}

// Purge removes all reminder state for a loan. Called when the loan
// completes so a future loan of the same book starts with a clean
// reminder history.
func (r *ReminderLogRepo) Purge(ctx context.Context, userID uint64, title, office string) error {
    _, err := r.db.ExecContext(ctx,
        `DELETE FROM reminder_log WHERE user_id = ? AND book_title = ? AND office = ?`,
        userID, title, office)
    return err
}

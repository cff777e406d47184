package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/library-reservation/internal/model"
)

// LoanRepo is the reservation ledger. It owns every status transition
// of books, users and loans, and performs each lifecycle operation as
// a single transaction so the three records can never disagree. All
// timestamps are UTC.
type LoanRepo struct {
    db *sql.DB
}

// NewLoanRepo returns a new LoanRepo bound to the given database.
func NewLoanRepo(db *sql.DB) *LoanRepo { return &LoanRepo{db: db} }

const loanColumns = `id, user_id, book_title, office, start_time, duration, end_time, status, created_at`

func scanLoan(sc interface{ Scan(...any) error }) (model.Loan, error) {
    var l model.Loan
    var dur string
    err := sc.Scan(&l.ID, &l.UserID, &l.BookTitle, &l.Office, &l.StartTime, &dur, &l.EndTime, &l.Status, &l.CreatedAt)
    if err != nil {
        return model.Loan{}, err
    }
    l.Duration = model.Duration(dur)
    return l, nil
}

// Create claims a book for a user for the given duration tier. The
// whole claim runs in one transaction: the book row is re-read with a
// row lock and its status re-checked before the flip, which closes the
// race between two users confirming the same book. Exactly one of two
// concurrent calls succeeds; the loser gets ErrBookUnavailable.
//
// On success the book and user flip to "booked", an active loan row is
// inserted with the computed expiry, and any waitlist entry the user
// had for this book is removed (they no longer need the notification).
func (r *LoanRepo) Create(ctx context.Context, userID uint64, title, office string, duration model.Duration, now time.Time) (model.Loan, error) {
    now = now.UTC().Truncate(time.Second)
    end := now.Add(duration.Offset()) // panics on unknown tier; cannot come from user input

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.Loan{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Lock the book row and re-check status inside the transaction.
    var bookID uint64
    var canonical, status string
    err = tx.QueryRowContext(ctx,
        `SELECT id, title, status FROM books WHERE LOWER(title) = LOWER(?) AND office = ? FOR UPDATE`,
        title, office).Scan(&bookID, &canonical, &status)
    if err == sql.ErrNoRows {
        return model.Loan{}, ErrBookNotFound
    }
    if err != nil {
        return model.Loan{}, err
    }
    if status != model.BookStatusAvailable {
        return model.Loan{}, ErrBookUnavailable
    }

    // Lock the user row; a user with an active loan cannot start another.
    var userStatus string
    err = tx.QueryRowContext(ctx,
        `SELECT status FROM users WHERE user_id = ? FOR UPDATE`, userID).Scan(&userStatus)
    if err == sql.ErrNoRows {
        return model.Loan{}, ErrUserNotFound
    }
    if err != nil {
        return model.Loan{}, err
    }
    if userStatus != model.UserStatusAvailable {
        return model.Loan{}, ErrActiveLoanExists
    }

    if _, err = tx.ExecContext(ctx,
        `UPDATE books SET status = ? WHERE id = ?`, model.BookStatusBooked, bookID); err != nil {
        return model.Loan{}, err
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO loans (user_id, book_title, office, start_time, duration, end_time, status)
         VALUES (?,?,?,?,?,?,?)`,
        userID, canonical, office, now, string(duration), end, model.LoanStatusActive)
    if err != nil {
        return model.Loan{}, err
    }
    loanID, err := res.LastInsertId()
    if err != nil {
        return model.Loan{}, err
    }

    if _, err = tx.ExecContext(ctx,
        `UPDATE users SET current_book = ?, loan_start = ?, loan_duration = ?, loan_end = ?, status = ?
         WHERE user_id = ?`,
        canonical, now, string(duration), end, model.UserStatusBooked, userID); err != nil {
        return model.Loan{}, err
    }

    // The claimer leaves the waitlist for this book, if they were on it.
    if _, err = tx.ExecContext(ctx,
        `DELETE FROM waitlist WHERE user_id = ? AND book_title = ? AND office = ?`,
        userID, canonical, office); err != nil {
        return model.Loan{}, err
    }

    if err = tx.Commit(); err != nil {
        return model.Loan{}, err
    }
    committed = true

    return model.Loan{
        ID:        uint64(loanID),
        UserID:    userID,
        BookTitle: canonical,
        Office:    office,
        StartTime: now,
        Duration:  duration,
        EndTime:   end,
        Status:    model.LoanStatusActive,
    }, nil
}

// Complete finishes the user's active loan for the given book and
// performs the inverse flips in one transaction. It returns
// ErrNoActiveLoan when the user holds nothing and ErrLoanMismatch when
// the active loan references a different title; neither case mutates
// any state. Waitlist notification is a follow-up the caller performs
// after this returns, not part of the transaction.
func (r *LoanRepo) Complete(ctx context.Context, userID uint64, title, office string, now time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var loanID uint64
    var loanTitle, loanOffice string
    err = tx.QueryRowContext(ctx,
        `SELECT id, book_title, office FROM loans WHERE user_id = ? AND status = ? LIMIT 1 FOR UPDATE`,
        userID, model.LoanStatusActive).Scan(&loanID, &loanTitle, &loanOffice)
    if err == sql.ErrNoRows {
        return ErrNoActiveLoan
    }
    if err != nil {
        return err
    }
    if !strings.EqualFold(loanTitle, title) || loanOffice != office {
        return ErrLoanMismatch
    }

    if _, err = tx.ExecContext(ctx,
        `UPDATE books SET status = ? WHERE LOWER(title) = LOWER(?) AND office = ?`,
        model.BookStatusAvailable, loanTitle, loanOffice); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx,
        `UPDATE users SET current_book = NULL, loan_start = NULL, loan_duration = NULL,
                loan_end = NULL, status = ? WHERE user_id = ?`,
        model.UserStatusAvailable, userID); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx,
        `UPDATE loans SET status = ? WHERE id = ?`, model.LoanStatusCompleted, loanID); err != nil {
        return err
    }

    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetActive returns the user's active loan or ErrNoActiveLoan.
func (r *LoanRepo) GetActive(ctx context.Context, userID uint64) (model.Loan, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+loanColumns+` FROM loans WHERE user_id = ? AND status = ? LIMIT 1`,
        userID, model.LoanStatusActive)
    l, err := scanLoan(row)
    if err == sql.ErrNoRows {
        return model.Loan{}, ErrNoActiveLoan
    }
    return l, err
}

// ListActive returns every active loan. It is the input of the
// reminder sweep; ordering is by end time so the soonest-due loans are
// processed first.
func (r *LoanRepo) ListActive(ctx context.Context) ([]model.Loan, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+loanColumns+` FROM loans WHERE status = ? ORDER BY end_time`,
        model.LoanStatusActive)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    loans := make([]model.Loan, 0)
    for rows.Next() {
        l, err := scanLoan(rows)
        if err != nil {
            return nil, err
        }
        loans = append(loans, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return loans, nil
}

package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/library-reservation/internal/model"
)

// UserRepo provides data access to the `users` table. Users are
// registered on first contact and updated in place; the loan-related
// columns are owned by LoanRepo transactions and never written here.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Register inserts a user or, when the id already exists, refreshes
// the registered name. Re-registering never touches office or loan
// state, so a user repeating the intro flow keeps their bookings.
func (r *UserRepo) Register(ctx context.Context, id uint64, firstName, lastName string) error {
    firstName = strings.TrimSpace(firstName)
    lastName = strings.TrimSpace(lastName)
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO users (user_id, first_name, last_name, status) VALUES (?,?,?,?)
         ON DUPLICATE KEY UPDATE first_name = VALUES(first_name), last_name = VALUES(last_name)`,
        id, firstName, lastName, model.UserStatusAvailable)
    return err
}

// SetOffice assigns the user's location partition.
func (r *UserRepo) SetOffice(ctx context.Context, id uint64, office string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE users SET office = ? WHERE user_id = ?`, office, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // Zero rows can also mean the office was already set to the
        // same value; verify existence before reporting not found.
        var exists int
        if err := r.db.QueryRowContext(ctx,
            `SELECT 1 FROM users WHERE user_id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
            return ErrUserNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// Get fetches a user by id. It returns ErrUserNotFound for ids that
// have never been registered.
func (r *UserRepo) Get(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    var office, currentBook, loanDuration sql.NullString
    var loanStart, loanEnd sql.NullTime
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id, first_name, last_name, office, current_book,
                loan_start, loan_duration, loan_end, status, created_at
         FROM users WHERE user_id = ? LIMIT 1`, id).
        Scan(&u.ID, &u.FirstName, &u.LastName, &office, &currentBook,
            &loanStart, &loanDuration, &loanEnd, &u.Status, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return model.User{}, ErrUserNotFound
    }
    if err != nil {
        return model.User{}, err
    }
    if office.Valid {
        v := office.String
        u.Office = &v
    }
    if currentBook.Valid {
        v := currentBook.String
        u.CurrentBook = &v
    }
    if loanDuration.Valid {
        v := loanDuration.String
        u.LoanDuration = &v
    }
    if loanStart.Valid {
        t := loanStart.Time
        u.LoanStart = &t
    }
    if loanEnd.Valid {
        t := loanEnd.Time
        u.LoanEnd = &t
    }
    return u, nil
}

package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/library-reservation/internal/model"
)

// BookRepo provides read access to the library catalog. Status
// transitions are not exposed here: a book's status is mutated only
// inside LoanRepo transactions so that the status flip and the loan
// record always change together.
type BookRepo struct {
    db *sql.DB
}

// NewBookRepo returns a new BookRepo bound to the given database.
func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

const bookColumns = `id, title, author, office, shelf, floor, status, created_at`

func scanBook(row *sql.Row) (model.Book, error) {
    var b model.Book
    var shelf, floor sql.NullString
    err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Office, &shelf, &floor, &b.Status, &b.CreatedAt)
    if err != nil {
        return model.Book{}, err
    }
    if shelf.Valid {
        s := shelf.String
        b.Shelf = &s
    }
    if floor.Valid {
        f := floor.String
        b.Floor = &f
    }
    return b, nil
}

// FindByTitle looks up a book by case-insensitive exact title within an
// office. It returns ErrBookNotFound when no such book exists,
// regardless of the book's current status.
func (r *BookRepo) FindByTitle(ctx context.Context, title, office string) (model.Book, error) {
    title = strings.TrimSpace(title)
    row := r.db.QueryRowContext(ctx,
        `SELECT `+bookColumns+` FROM books WHERE LOWER(title) = LOWER(?) AND office = ? LIMIT 1`,
        title, office)
    b, err := scanBook(row)
    if err == sql.ErrNoRows {
        return model.Book{}, ErrBookNotFound
    }
    return b, err
}

// ListAvailable returns all available books in the given office ordered
// by title. An empty slice means the office currently has nothing on
// the shelf.
func (r *BookRepo) ListAvailable(ctx context.Context, office string) ([]model.Book, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+bookColumns+` FROM books WHERE office = ? AND status = ? ORDER BY title`,
        office, model.BookStatusAvailable)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    books := make([]model.Book, 0)
    for rows.Next() {
        var b model.Book
        var shelf, floor sql.NullString
        if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Office, &shelf, &floor, &b.Status, &b.CreatedAt); err != nil {
            return nil, err
        }
        if shelf.Valid {
            s := shelf.String
            b.Shelf = &s
        }
        if floor.Valid {
            f := floor.String
            b.Floor = &f
        }
        books = append(books, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return books, nil
}

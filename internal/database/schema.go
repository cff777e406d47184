package database

import (
    "context"
    "database/sql"
    "fmt"
)

// schema holds the DDL for all tables owned by the reservation engine.
// Statements are idempotent so EnsureSchema can run on every startup.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        user_id       BIGINT UNSIGNED PRIMARY KEY,
        first_name    VARCHAR(128) NOT NULL,
        last_name     VARCHAR(128) NOT NULL DEFAULT '',
        office        VARCHAR(128) NULL,
        current_book  VARCHAR(255) NULL,
        loan_start    DATETIME NULL,
        loan_duration VARCHAR(16) NULL,
        loan_end      DATETIME NULL,
        status        VARCHAR(16) NOT NULL DEFAULT 'available',
        created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    ) CHARACTER SET utf8mb4`,
    `CREATE TABLE IF NOT EXISTS books (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        title      VARCHAR(255) NOT NULL,
        author     VARCHAR(255) NOT NULL,
        office     VARCHAR(128) NOT NULL,
        shelf      VARCHAR(64) NULL,
        floor      VARCHAR(64) NULL,
        status     VARCHAR(16) NOT NULL DEFAULT 'available',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_books_title_office (title, office)
    ) CHARACTER SET utf8mb4`,
    `CREATE TABLE IF NOT EXISTS loans (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id    BIGINT UNSIGNED NOT NULL,
        book_title VARCHAR(255) NOT NULL,
        office     VARCHAR(128) NOT NULL,
        start_time DATETIME NOT NULL,
        duration   VARCHAR(16) NOT NULL,
        end_time   DATETIME NOT NULL,
        status     VARCHAR(16) NOT NULL DEFAULT 'active',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_loans_status (status),
        KEY idx_loans_user_status (user_id, status)
    ) CHARACTER SET utf8mb4`,
    `CREATE TABLE IF NOT EXISTS waitlist (
        user_id    BIGINT UNSIGNED NOT NULL,
        book_title VARCHAR(255) NOT NULL,
        office     VARCHAR(128) NOT NULL,
        queued_at  DATETIME(6) NOT NULL,
        notified   TINYINT(1) NOT NULL DEFAULT 0,
        PRIMARY KEY (user_id, book_title, office),
        KEY idx_waitlist_book (book_title, office, notified, queued_at)
    ) CHARACTER SET utf8mb4`,
    `CREATE TABLE IF NOT EXISTS reminder_log (
        user_id      BIGINT UNSIGNED NOT NULL,
        book_title   VARCHAR(255) NOT NULL,
        office       VARCHAR(128) NOT NULL,
        kind         VARCHAR(32) NOT NULL,
        last_sent_at DATETIME NOT NULL,
        PRIMARY KEY (user_id, book_title, office, kind)
    ) CHARACTER SET utf8mb4`,
}

// seedBooks is the initial catalog, inserted only when the books table
// is empty. Shelf and floor locators are filled in for the offices
// that have them.
var seedBooks = []struct {
    title, author, office string
    shelf, floor          string
}{
    {"книга а", "автор А", "Stone Towers", "A-3", "2"},
    {"книга в", "автор В", "Stone Towers", "A-3", "2"},
    {"книга с", "автор С", "Stone Towers", "B-1", "2"},
    {"книга d", "автор D", "Manhatten", "", ""},
    {"книга е", "автор E", "Manhatten", "", ""},
    {"книга x", "автор Х", "Известия", "C-2", "1"},
    {"книга z", "автор Z", "Известия", "C-2", "1"},
    {"книга y", "автор У", "Известия", "C-4", "1"},
}

// EnsureSchema creates all tables when missing and seeds the catalog
// on first run. It is safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("create table: %w", err)
        }
    }
    var count int
    if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
        return fmt.Errorf("count books: %w", err)
    }
    if count > 0 {
        return nil
    }
    for _, b := range seedBooks {
        var shelf, floor any
        if b.shelf != "" {
            shelf = b.shelf
        }
        if b.floor != "" {
            floor = b.floor
        }
        if _, err := db.ExecContext(ctx,
            `INSERT INTO books (title, author, office, shelf, floor) VALUES (?,?,?,?,?)`,
            b.title, b.author, b.office, shelf, floor); err != nil {
            return fmt.Errorf("seed books: %w", err)
        }
    }
    return nil
}

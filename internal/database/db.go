package database

import (
    "context"
    "database/sql"
    "fmt"
    "log"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}

// OpenWithRetry calls Open up to attempts times with a linear backoff
// between tries. It is used at startup so the bot can out-wait a
// database that is still coming up, instead of crash-looping.
func OpenWithRetry(user, pass, host, port, name string, attempts int, backoff time.Duration) (*sql.DB, error) {
    var lastErr error
    for i := 1; i <= attempts; i++ {
        db, err := Open(user, pass, host, port, name)
        if err == nil {
            return db, nil
        }
        lastErr = err
        log.Printf("database: connect attempt %d/%d failed: %v", i, attempts, err)
        if i < attempts {
            time.Sleep(backoff)
        }
    }
    return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}

package model

import "time"

// Book statuses as stored in the books.status column. A book is
// BookStatusBooked exactly when one active loan references it.
const (
    BookStatusAvailable = "available"
    BookStatusBooked    = "booked"
)

// Book represents a physical item in the library catalog as stored in
// the `books` table. Books are unique per (title, office) with a
// case-insensitive title match; the Shelf and Floor locator fields are
// optional hints surfaced to the user before confirmation.
//
// Fields:
//  ID        – primary key identifier of the book.
//  Title     – book title; lookup key together with Office.
//  Author    – author metadata shown in listings.
//  Office    – location partition the book belongs to.
//  Shelf     – optional shelf locator (nullable).
//  Floor     – optional floor locator (nullable).
//  Status    – "available" or "booked".
//  CreatedAt – timestamp of catalog insertion.
type Book struct {
    ID        uint64    // books.id
    Title     string    // books.title
    Author    string    // books.author
    Office    string    // books.office
    Shelf     *string   // books.shelf (nullable)
    Floor     *string   // books.floor (nullable)
    Status    string    // books.status
    CreatedAt time.Time // books.created_at
}

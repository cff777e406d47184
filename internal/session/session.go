// Package session holds per-user dialogue state between updates. A
// session is ephemeral scratch space: losing one mid-flow is recovered
// by restarting the flow, never a data-loss fault, so stores are
// allowed to drop entries on TTL expiry. Durable entities live in the
// repositories, not here.
package session

import (
    "context"
    "time"

    "github.com/iliyamo/library-reservation/internal/model"
)

// State tags the user's position in the conversation flow.
type State string

const (
    // StateIdle means no flow is in progress; the next Start choice
    // begins one.
    StateIdle State = "IDLE"
    // StateAwaitingName waits for the user's first and last name as
    // free text.
    StateAwaitingName State = "AWAITING_NAME"
    // StateAwaitingOffice waits for an office choice.
    StateAwaitingOffice State = "AWAITING_OFFICE"
    // StateAwaitingAction waits for the book-or-list choice.
    StateAwaitingAction State = "AWAITING_ACTION"
    // StateAwaitingTitle waits for a book title as free text.
    StateAwaitingTitle State = "AWAITING_TITLE"
    // StateAwaitingWaitlistChoice waits for the join-waitlist choice
    // offered when the wanted book is booked.
    StateAwaitingWaitlistChoice State = "AWAITING_WAITLIST_CHOICE"
    // StateAwaitingConfirm waits for the yes/no booking confirmation.
    StateAwaitingConfirm State = "AWAITING_CONFIRM"
    // StateAwaitingDuration waits for a duration tier choice.
    StateAwaitingDuration State = "AWAITING_DURATION"
    // StateAwaitingReturnPhoto waits for the proof-of-return photo.
    StateAwaitingReturnPhoto State = "AWAITING_RETURN_PHOTO"
)

// Session is the scratch record accumulated across one user's flow.
// Entity references are carried here as structured fields instead of
// being round-tripped through choice payloads. The struct is JSON
// serialized by the Redis store, hence the tags.
type Session struct {
    State      State          `json:"state"`
    FirstName  string         `json:"first_name,omitempty"`
    LastName   string         `json:"last_name,omitempty"`
    Office     string         `json:"office,omitempty"`
    BookTitle  string         `json:"book_title,omitempty"`
    BookAuthor string         `json:"book_author,omitempty"`
    Duration   model.Duration `json:"duration,omitempty"`
}

// Store keeps sessions keyed by user id. Implementations bound entry
// lifetime by a TTL refreshed on every Put; Get on a missing or
// expired key returns ok=false and a zero session in StateIdle.
type Store interface {
    Get(ctx context.Context, userID uint64) (Session, bool, error)
    Put(ctx context.Context, userID uint64, s Session) error
    Delete(ctx context.Context, userID uint64) error
}

// New returns the zero session every flow starts from.
func New() Session { return Session{State: StateIdle} }

// ttlFloor is the minimum session lifetime a store will accept;
// anything shorter would expire sessions between two normal replies.
const ttlFloor = time.Minute

func clampTTL(ttl time.Duration) time.Duration {
    if ttl < ttlFloor {
        return ttlFloor
    }
    return ttl
}

package bot

// EventKind discriminates the three inbound payload kinds the chat
// transport can deliver for a user.
type EventKind string

const (
    // EventText is free-form text typed by the user.
    EventText EventKind = "text"
    // EventChoice is a tap on one of the discrete choices previously
    // offered to the user.
    EventChoice EventKind = "choice"
    // EventPhoto is a photo upload; the engine only ever uses it as
    // the opaque proof-of-return event.
    EventPhoto EventKind = "photo"
)

// ChoiceKind enumerates every discrete choice the engine can offer.
// Choices never smuggle entity data beyond the office name: the book a
// choice refers to is kept in the user's session record, so a stale or
// forged choice payload cannot act on a different book.
type ChoiceKind string

const (
    // ChoiceStart begins (or restarts) the flow from the top.
    ChoiceStart ChoiceKind = "start"
    // ChoiceOffice selects the user's office; Value carries the
    // office name and is validated against the configured office set.
    ChoiceOffice ChoiceKind = "office"
    // ChoiceActionBook asks to book a book by title.
    ChoiceActionBook ChoiceKind = "action_book"
    // ChoiceActionList asks for the list of available books.
    ChoiceActionList ChoiceKind = "action_list"
    // ChoiceConfirmYes confirms booking the candidate book.
    ChoiceConfirmYes ChoiceKind = "confirm_yes"
    // ChoiceConfirmNo declines the candidate book.
    ChoiceConfirmNo ChoiceKind = "confirm_no"
    // ChoiceAnother restarts title entry for a different book.
    ChoiceAnother ChoiceKind = "another"
    // ChoiceCancel abandons the booking flow.
    ChoiceCancel ChoiceKind = "cancel"
    // ChoiceDuration selects a loan duration tier; Value carries the
    // tier name.
    ChoiceDuration ChoiceKind = "duration"
    // ChoiceWaitlistJoin enrolls the user in the waitlist for the
    // candidate (booked) book.
    ChoiceWaitlistJoin ChoiceKind = "waitlist_join"
    // ChoiceWaitlistDecline declines waitlist enrollment.
    ChoiceWaitlistDecline ChoiceKind = "waitlist_decline"
    // ChoiceReturn starts the return flow for the user's active loan.
    ChoiceReturn ChoiceKind = "return"
)

// Event is one inbound update for one user. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Event struct {
    Kind    EventKind
    Text    string     // EventText
    Choice  ChoiceKind // EventChoice
    Value   string     // EventChoice: payload for office/duration choices
    PhotoID string     // EventPhoto: transport file reference
}

// TextEvent builds a free-text event.
func TextEvent(text string) Event { return Event{Kind: EventText, Text: text} }

// ChoiceEvent builds a discrete-choice event.
func ChoiceEvent(kind ChoiceKind, value string) Event {
    return Event{Kind: EventChoice, Choice: kind, Value: value}
}

// PhotoEvent builds a photo event.
func PhotoEvent(photoID string) Event { return Event{Kind: EventPhoto, PhotoID: photoID} }

package bot

import "context"

// Choice is one tappable option attached to an outbound message. Kind
// and Value round-trip through the transport and come back as a
// ChoiceEvent when the user taps the option.
type Choice struct {
    Label string     `json:"label"`
    Kind  ChoiceKind `json:"kind"`
    Value string     `json:"value,omitempty"`
}

// Messenger is the outbound half of the chat transport. The engine and
// the reminder sweeper are its only callers. Implementations report
// delivery failure through the returned error and must not retry on
// their own: retry policy (or the absence of one) belongs to the
// caller. Every call is made under a bounded deadline supplied by the
// caller's context.
type Messenger interface {
    // SendText delivers a message to one user, optionally with choices.
    SendText(ctx context.Context, userID uint64, text string, choices ...Choice) error
    // SendGroupText delivers a message to the library group chat.
    SendGroupText(ctx context.Context, text string) error
    // SendGroupPhoto forwards a photo to the group chat with a caption.
    SendGroupPhoto(ctx context.Context, photoID, caption string) error
}

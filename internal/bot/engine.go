// Package bot implements the conversational reservation engine: a
// per-user state machine that drives registration, booking, waitlist
// enrollment and returns, calling the registry and ledger through
// narrow interfaces and delivering replies through a Messenger.
package bot

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/library-reservation/internal/model"
    "github.com/iliyamo/library-reservation/internal/repository"
    "github.com/iliyamo/library-reservation/internal/session"
)

// Engine processes one inbound event at a time for any user. It holds
// no per-user state of its own: everything between two events lives in
// the session store, so concurrent events for different users never
// contend on the engine.
type Engine struct {
    users    Users
    catalog  Catalog
    ledger   Ledger
    waitlist Waitlist
    reminder ReminderLog
    events   EventPublisher // nil disables loan events
    sessions session.Store
    msgr     Messenger
    offices  []string
    timeout  time.Duration
    now      func() time.Time
}

// EngineConfig groups the engine's dependencies. Events may be nil;
// everything else is required.
type EngineConfig struct {
    Users           Users
    Catalog         Catalog
    Ledger          Ledger
    Waitlist        Waitlist
    ReminderLog     ReminderLog
    Events          EventPublisher
    Sessions        session.Store
    Messenger       Messenger
    Offices         []string
    DeliveryTimeout time.Duration
    Now             func() time.Time
}

// NewEngine constructs an Engine. It panics when a required dependency
// is missing because that is a wiring bug, not a runtime condition.
func NewEngine(cfg EngineConfig) *Engine {
    if cfg.Users == nil || cfg.Catalog == nil || cfg.Ledger == nil ||
        cfg.Waitlist == nil || cfg.ReminderLog == nil ||
        cfg.Sessions == nil || cfg.Messenger == nil {
        panic("nil dependency passed to NewEngine")
    }
    if len(cfg.Offices) == 0 {
        panic("NewEngine: no offices configured")
    }
    if cfg.DeliveryTimeout <= 0 {
        cfg.DeliveryTimeout = 10 * time.Second
    }
    if cfg.Now == nil {
        cfg.Now = func() time.Time { return time.Now().UTC() }
    }
    return &Engine{
        users:    cfg.Users,
        catalog:  cfg.Catalog,
        ledger:   cfg.Ledger,
        waitlist: cfg.Waitlist,
        reminder: cfg.ReminderLog,
        events:   cfg.Events,
        sessions: cfg.Sessions,
        msgr:     cfg.Messenger,
        offices:  cfg.Offices,
        timeout:  cfg.DeliveryTimeout,
        now:      cfg.Now,
    }
}

// Handle processes exactly one inbound event for one user. Errors from
// user input never escape: they become re-prompts in the same state.
// The returned error reports infrastructure faults (store, unexpected
// repo errors) after the user has already been told to try again.
func (e *Engine) Handle(ctx context.Context, userID uint64, ev Event) error {
    sess, _, err := e.sessions.Get(ctx, userID)
    if err != nil {
        // A lost session is recoverable by restarting the flow; treat
        // the store error as an empty session but report it.
        log.Printf("engine: session load for user %d failed: %v", userID, err)
        sess = session.New()
    }
    switch ev.Kind {
    case EventText:
        return e.handleText(ctx, userID, sess, strings.TrimSpace(ev.Text))
    case EventChoice:
        return e.handleChoice(ctx, userID, sess, ev)
    case EventPhoto:
        return e.handlePhoto(ctx, userID, sess, ev)
    }
    e.say(ctx, userID, "I didn't understand that. Press Start to begin.", startChoice())
    return nil
}

// --- text events ---------------------------------------------------

func (e *Engine) handleText(ctx context.Context, userID uint64, sess session.Session, text string) error {
    switch sess.State {
    case session.StateAwaitingName:
        return e.handleName(ctx, userID, sess, text)
    case session.StateAwaitingTitle, session.StateAwaitingAction:
        // Typing a title directly from the action menu works; the
        // menu's choices are shortcuts, not the only path.
        return e.handleTitle(ctx, userID, sess, text)
    case session.StateAwaitingOffice,
        session.StateAwaitingConfirm,
        session.StateAwaitingWaitlistChoice,
        session.StateAwaitingDuration:
        // Choice-only states: reject text, hold position.
        e.say(ctx, userID, "Please use the buttons to choose; typed messages aren't handled here.")
        return nil
    case session.StateAwaitingReturnPhoto:
        e.say(ctx, userID, "Please send a photo of the book back in the library, not a text message.")
        return nil
    }
    e.say(ctx, userID, "Hi! I'm the Stone library bot. Press Start to begin.", startChoice())
    return nil
}

func (e *Engine) handleName(ctx context.Context, userID uint64, sess session.Session, text string) error {
    parts := strings.Fields(text)
    if len(parts) < 2 {
        e.say(ctx, userID, "Please send your first and last name separated by a space.")
        return nil
    }
    first := parts[0]
    last := strings.Join(parts[1:], " ")
    if err := e.users.Register(ctx, userID, first, last); err != nil {
        return e.tempError(ctx, userID, sess, fmt.Errorf("register user %d: %w", userID, err))
    }
    sess.FirstName = first
    sess.LastName = last
    sess.State = session.StateAwaitingOffice
    e.save(ctx, userID, sess)
    e.say(ctx, userID,
        fmt.Sprintf("%s, please pick the office you work in so I can show you the books on hand.", first),
        e.officeChoices()...)
    return nil
}

func (e *Engine) handleTitle(ctx context.Context, userID uint64, sess session.Session, text string) error {
    if sess.Office == "" {
        // The office field is required for lookup; the session must
        // have been lost. Restart cleanly rather than guessing.
        _ = e.sessions.Delete(ctx, userID)
        e.say(ctx, userID, "Something got lost along the way. Press Start and we'll pick it up again.", startChoice())
        return nil
    }
    if text == "" {
        e.say(ctx, userID, "Please send the title of the book.")
        return nil
    }
    book, err := e.catalog.FindByTitle(ctx, text, sess.Office)
    switch {
    case errors.Is(err, repository.ErrBookNotFound):
        sess.State = session.StateAwaitingAction
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            "We don't have that book in this library. Would you like to try another title, or not book anything?",
            Choice{Label: "Another title", Kind: ChoiceAnother},
            Choice{Label: "Not booking", Kind: ChoiceCancel})
        return nil
    case err != nil:
        return e.tempError(ctx, userID, sess, fmt.Errorf("find book %q: %w", text, err))
    }

    sess.BookTitle = book.Title
    sess.BookAuthor = book.Author
    if book.Status != model.BookStatusAvailable {
        sess.State = session.StateAwaitingWaitlistChoice
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            fmt.Sprintf("'%s' is currently booked by someone else. Want me to put you on the waitlist and ping you when it's back?", book.Title),
            Choice{Label: "Join waitlist", Kind: ChoiceWaitlistJoin},
            Choice{Label: "No, thanks", Kind: ChoiceWaitlistDecline})
        return nil
    }

    sess.State = session.StateAwaitingConfirm
    e.save(ctx, userID, sess)
    prompt := fmt.Sprintf("%s, book '%s' by %s?", sess.FirstName, book.Title, book.Author)
    if hint := locatorHint(book); hint != "" {
        prompt += " You'll find it on " + hint + "."
    }
    e.say(ctx, userID, prompt,
        Choice{Label: "Yes", Kind: ChoiceConfirmYes},
        Choice{Label: "No", Kind: ChoiceConfirmNo})
    return nil
}

// --- choice events -------------------------------------------------

func (e *Engine) handleChoice(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    // Start and Return are reachable from any state: Start resets the
    // flow, Return acts on the durable active loan, not the session.
    switch ev.Choice {
    case ChoiceStart:
        return e.handleStart(ctx, userID)
    case ChoiceReturn:
        return e.handleReturn(ctx, userID, sess)
    }

    switch sess.State {
    case session.StateAwaitingOffice:
        return e.handleOffice(ctx, userID, sess, ev)
    case session.StateAwaitingAction, session.StateAwaitingTitle:
        return e.handleAction(ctx, userID, sess, ev)
    case session.StateAwaitingConfirm:
        return e.handleConfirm(ctx, userID, sess, ev)
    case session.StateAwaitingWaitlistChoice:
        return e.handleWaitlistChoice(ctx, userID, sess, ev)
    case session.StateAwaitingDuration:
        return e.handleDuration(ctx, userID, sess, ev)
    }
    e.say(ctx, userID, "Nothing is waiting for that choice. Press Start to begin.", startChoice())
    return nil
}

func (e *Engine) handleStart(ctx context.Context, userID uint64) error {
    user, err := e.users.Get(ctx, userID)
    if errors.Is(err, repository.ErrUserNotFound) {
        sess := session.Session{State: session.StateAwaitingName}
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            "Welcome to the Stone library! Here you can browse the books on hand and reserve the one you like. First, let's get acquainted: please send your first and last name.")
        return nil
    }
    if err != nil {
        return e.tempError(ctx, userID, session.New(), fmt.Errorf("load user %d: %w", userID, err))
    }

    // A user with an active loan must return it before booking again.
    if loan, err := e.ledger.GetActive(ctx, userID); err == nil {
        e.say(ctx, userID,
            fmt.Sprintf("%s, you already have '%s' booked for %s. Return it before booking another one.",
                user.FirstName, loan.BookTitle, loan.Duration.Label()),
            returnChoice(loan.BookTitle))
        return nil
    } else if !errors.Is(err, repository.ErrNoActiveLoan) {
        return e.tempError(ctx, userID, session.New(), fmt.Errorf("active loan for %d: %w", userID, err))
    }

    sess := session.Session{FirstName: user.FirstName, LastName: user.LastName}
    if user.Office == nil || *user.Office == "" {
        sess.State = session.StateAwaitingOffice
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            fmt.Sprintf("%s, please pick the office you work in so I can show you the books on hand.", user.FirstName),
            e.officeChoices()...)
        return nil
    }
    sess.Office = *user.Office
    sess.State = session.StateAwaitingAction
    e.save(ctx, userID, sess)
    e.sayActionMenu(ctx, userID)
    return nil
}

func (e *Engine) handleOffice(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    if ev.Choice != ChoiceOffice || !e.validOffice(ev.Value) {
        e.say(ctx, userID, "That office isn't on my list, please pick one of the buttons.", e.officeChoices()...)
        return nil
    }
    if err := e.users.SetOffice(ctx, userID, ev.Value); err != nil {
        return e.tempError(ctx, userID, sess, fmt.Errorf("set office for %d: %w", userID, err))
    }
    sess.Office = ev.Value
    sess.State = session.StateAwaitingAction
    e.save(ctx, userID, sess)
    e.sayActionMenu(ctx, userID)
    return nil
}

func (e *Engine) handleAction(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    switch ev.Choice {
    case ChoiceActionBook, ChoiceAnother:
        sess.State = session.StateAwaitingTitle
        e.save(ctx, userID, sess)
        e.say(ctx, userID, "Please send the title of the book.")
        return nil
    case ChoiceActionList:
        books, err := e.catalog.ListAvailable(ctx, sess.Office)
        if err != nil {
            return e.tempError(ctx, userID, sess, fmt.Errorf("list books in %q: %w", sess.Office, err))
        }
        sess.State = session.StateAwaitingTitle
        e.save(ctx, userID, sess)
        e.say(ctx, userID, formatBookList(books)+
            "\n\nOnce you've picked one, just send me its title.")
        return nil
    case ChoiceCancel:
        _ = e.sessions.Delete(ctx, userID)
        e.say(ctx, userID, "Shame there was nothing for you this time — come back later! Press Book whenever you want one.", bookAgainChoice())
        return nil
    }
    e.say(ctx, userID, "Please use the buttons to choose.")
    return nil
}

func (e *Engine) handleConfirm(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    switch ev.Choice {
    case ChoiceConfirmYes:
        if sess.BookTitle == "" {
            // Claim taps can outlive the session that carried the book.
            _ = e.sessions.Delete(ctx, userID)
            e.say(ctx, userID, "I lost track of which book that was. Press Start and pick it again.", startChoice())
            return nil
        }
        sess.State = session.StateAwaitingDuration
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            fmt.Sprintf("%s, pick how long you'd like to keep '%s'.", sess.FirstName, sess.BookTitle),
            durationChoices()...)
        return nil
    case ChoiceConfirmNo:
        // An explicit decline also gives up the user's place in the
        // waitlist for this book; a no-op for non-waiters.
        e.leaveWaitlist(ctx, userID, sess)
        sess.State = session.StateAwaitingAction
        e.save(ctx, userID, sess)
        e.say(ctx, userID, "Would you like to book a different one, or nothing at all?",
            Choice{Label: "Another title", Kind: ChoiceAnother},
            Choice{Label: "Not booking", Kind: ChoiceCancel})
        return nil
    case ChoiceAnother, ChoiceCancel:
        return e.handleAction(ctx, userID, sess, ev)
    }
    e.say(ctx, userID, "Please use the buttons to choose.")
    return nil
}

func (e *Engine) handleWaitlistChoice(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    switch ev.Choice {
    case ChoiceWaitlistJoin:
        if sess.BookTitle == "" {
            _ = e.sessions.Delete(ctx, userID)
            e.say(ctx, userID, "I lost track of which book that was. Press Start and pick it again.", startChoice())
            return nil
        }
        added, err := e.waitlist.Enqueue(ctx, userID, sess.BookTitle, sess.Office, e.now())
        if err != nil {
            return e.tempError(ctx, userID, sess, fmt.Errorf("enqueue waitlist: %w", err))
        }
        title := sess.BookTitle
        _ = e.sessions.Delete(ctx, userID)
        if !added {
            e.say(ctx, userID, fmt.Sprintf("You're already on the waitlist for '%s' — I'll ping you as soon as it's back.", title), bookAgainChoice())
            return nil
        }
        e.say(ctx, userID, fmt.Sprintf("Done! I'll ping you as soon as '%s' is returned.", title), bookAgainChoice())
        return nil
    case ChoiceWaitlistDecline:
        e.leaveWaitlist(ctx, userID, sess)
        sess.State = session.StateAwaitingAction
        e.save(ctx, userID, sess)
        e.say(ctx, userID, "Would you like to book a different one, or nothing at all?",
            Choice{Label: "Another title", Kind: ChoiceAnother},
            Choice{Label: "Not booking", Kind: ChoiceCancel})
        return nil
    }
    e.say(ctx, userID, "Please use the buttons to choose.")
    return nil
}

func (e *Engine) handleDuration(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    dur := model.Duration(ev.Value)
    if ev.Choice != ChoiceDuration || !dur.Valid() {
        e.say(ctx, userID, "Please pick one of the offered durations.", durationChoices()...)
        return nil
    }
    sess.Duration = dur

    loan, err := e.ledger.Create(ctx, userID, sess.BookTitle, sess.Office, dur, e.now())
    switch {
    case errors.Is(err, repository.ErrBookUnavailable):
        // Lost the race. Keep every selection; the user can retry the
        // same duration or walk away to the waitlist via Start.
        e.save(ctx, userID, sess)
        e.say(ctx, userID,
            fmt.Sprintf("Someone claimed '%s' just ahead of you. You can try again in case they cancel, or press Start to join the waitlist.", sess.BookTitle),
            append(durationChoices(), startChoice())...)
        return nil
    case errors.Is(err, repository.ErrActiveLoanExists):
        _ = e.sessions.Delete(ctx, userID)
        e.say(ctx, userID, "You already have an active booking. Return that book first.", returnChoice(sess.BookTitle))
        return nil
    case errors.Is(err, repository.ErrBookNotFound):
        _ = e.sessions.Delete(ctx, userID)
        e.say(ctx, userID, "That book vanished from the catalog. Press Start to pick another.", startChoice())
        return nil
    case err != nil:
        return e.tempError(ctx, userID, sess, fmt.Errorf("create loan: %w", err))
    }

    _ = e.sessions.Delete(ctx, userID)
    e.say(ctx, userID,
        fmt.Sprintf("%s, '%s' is yours for %s — until %s. I'll remind you when it's time to bring it back!",
            sess.FirstName, loan.BookTitle, dur.Label(), loan.EndTime.Format("Mon, 02 Jan 15:04")),
        returnChoice(loan.BookTitle), bookAgainChoice())

    // Group broadcast and loan event are fire-and-forget: their
    // failure never rolls back the reservation.
    e.broadcast(ctx, fmt.Sprintf("%s %s booked '%s' for %s.",
        sess.FirstName, sess.LastName, loan.BookTitle, dur.Label()))
    if e.events != nil {
        e.events.LoanCreated(ctx, loan, sess.FirstName, sess.LastName)
    }
    return nil
}

// --- return flow ---------------------------------------------------

func (e *Engine) handleReturn(ctx context.Context, userID uint64, sess session.Session) error {
    loan, err := e.ledger.GetActive(ctx, userID)
    if errors.Is(err, repository.ErrNoActiveLoan) {
        e.say(ctx, userID, "You don't have an active booking right now.", startChoice())
        return nil
    }
    if err != nil {
        return e.tempError(ctx, userID, sess, fmt.Errorf("active loan for %d: %w", userID, err))
    }
    sess.BookTitle = loan.BookTitle
    sess.Office = loan.Office
    sess.State = session.StateAwaitingReturnPhoto
    e.save(ctx, userID, sess)
    e.say(ctx, userID, fmt.Sprintf("Please send a photo of '%s' back in the library.", loan.BookTitle))
    return nil
}

func (e *Engine) handlePhoto(ctx context.Context, userID uint64, sess session.Session, ev Event) error {
    if sess.State != session.StateAwaitingReturnPhoto {
        e.say(ctx, userID, "Nice photo! But I wasn't expecting one — press Start if you'd like to book or return a book.", startChoice())
        return nil
    }

    loan, err := e.ledger.GetActive(ctx, userID)
    if errors.Is(err, repository.ErrNoActiveLoan) {
        _ = e.sessions.Delete(ctx, userID)
        e.say(ctx, userID, "You don't have an active booking anymore — nothing to return.", startChoice())
        return nil
    }
    if err != nil {
        return e.tempError(ctx, userID, sess, fmt.Errorf("active loan for %d: %w", userID, err))
    }

    err = e.ledger.Complete(ctx, userID, sess.BookTitle, sess.Office, e.now())
    switch {
    case errors.Is(err, repository.ErrNoActiveLoan), errors.Is(err, repository.ErrLoanMismatch):
        // The session's book no longer matches the active loan; tell
        // the user and leave everything untouched.
        e.say(ctx, userID, fmt.Sprintf("'%s' doesn't match your active booking of '%s'.", sess.BookTitle, loan.BookTitle))
        return nil
    case err != nil:
        return e.tempError(ctx, userID, sess, fmt.Errorf("complete loan: %w", err))
    }

    first, last := sess.FirstName, sess.LastName
    if first == "" {
        if user, uerr := e.users.Get(ctx, userID); uerr == nil {
            first, last = user.FirstName, user.LastName
        }
    }

    if err := e.reminder.Purge(ctx, userID, loan.BookTitle, loan.Office); err != nil {
        log.Printf("engine: purge reminders for user %d: %v", userID, err)
    }

    _ = e.sessions.Delete(ctx, userID)
    e.say(ctx, userID, "Thanks for bringing it back! Hope it was a good read.", bookAgainChoice())

    e.broadcastPhoto(ctx, ev.PhotoID, fmt.Sprintf("%s %s returned '%s'.", first, last, loan.BookTitle))
    if e.events != nil {
        loan.Status = model.LoanStatusCompleted
        e.events.LoanReturned(ctx, loan, first, last)
    }

    // Release-triggered waitlist notification: best-effort follow-up,
    // deliberately outside the completion transaction.
    e.notifyNextWaiter(ctx, loan.BookTitle, loan.Office)
    return nil
}

// notifyNextWaiter tells the oldest unnotified waiter that the book is
// back. The entry is marked notified only after the message was
// delivered, so a failed delivery leaves the waiter first in line for
// the next release.
func (e *Engine) notifyNextWaiter(ctx context.Context, title, office string) {
    waiterID, ok, err := e.waitlist.PeekOldestUnnotified(ctx, title, office)
    if err != nil {
        log.Printf("engine: waitlist peek for %q/%q: %v", title, office, err)
        return
    }
    if !ok {
        return
    }

    // Pre-select the book in the waiter's session so their Yes tap
    // lands in the confirmation flow with the reference intact. A
    // waiter already mid-dialogue keeps their position; they get the
    // ping and can come back to the book through a fresh flow.
    cur, inFlow, err := e.sessions.Get(ctx, waiterID)
    if err != nil {
        log.Printf("engine: waitlist session load for user %d: %v", waiterID, err)
    }
    if !inFlow || cur.State == session.StateIdle {
        waiterSess := session.Session{
            State:     session.StateAwaitingConfirm,
            BookTitle: title,
            Office:    office,
        }
        if user, err := e.users.Get(ctx, waiterID); err == nil {
            waiterSess.FirstName = user.FirstName
            waiterSess.LastName = user.LastName
        }
        if err := e.sessions.Put(ctx, waiterID, waiterSess); err != nil {
            log.Printf("engine: waitlist session for user %d: %v", waiterID, err)
        }
    }

    dctx, cancel := context.WithTimeout(ctx, e.timeout)
    err = e.msgr.SendText(dctx, waiterID,
        fmt.Sprintf("Good news — '%s' is back in the library! Want to book it? First come, first served.", title),
        Choice{Label: "Book it", Kind: ChoiceConfirmYes},
        Choice{Label: "Not anymore", Kind: ChoiceConfirmNo})
    cancel()
    if err != nil {
        log.Printf("engine: waitlist notify user %d for %q: %v", waiterID, title, err)
        return
    }
    if err := e.waitlist.MarkNotified(ctx, waiterID, title, office); err != nil {
        log.Printf("engine: waitlist mark notified user %d for %q: %v", waiterID, title, err)
    }
}

// --- helpers -------------------------------------------------------

// say delivers a reply under the delivery timeout. Failures are
// logged, never surfaced into the session that triggered them.
func (e *Engine) say(ctx context.Context, userID uint64, text string, choices ...Choice) {
    dctx, cancel := context.WithTimeout(ctx, e.timeout)
    defer cancel()
    if err := e.msgr.SendText(dctx, userID, text, choices...); err != nil {
        log.Printf("engine: send to user %d failed: %v", userID, err)
    }
}

func (e *Engine) broadcast(ctx context.Context, text string) {
    dctx, cancel := context.WithTimeout(ctx, e.timeout)
    defer cancel()
    if err := e.msgr.SendGroupText(dctx, text); err != nil {
        log.Printf("engine: group broadcast failed: %v", err)
    }
}

func (e *Engine) broadcastPhoto(ctx context.Context, photoID, caption string) {
    dctx, cancel := context.WithTimeout(ctx, e.timeout)
    defer cancel()
    if err := e.msgr.SendGroupPhoto(dctx, photoID, caption); err != nil {
        log.Printf("engine: group photo broadcast failed: %v", err)
    }
}

// leaveWaitlist drops the user's waitlist entry for the session's
// candidate book. Declining is the only way a notified entry ever
// leaves the queue, so a failure here is worth the log line.
func (e *Engine) leaveWaitlist(ctx context.Context, userID uint64, sess session.Session) {
    if sess.BookTitle == "" {
        return
    }
    if err := e.waitlist.Remove(ctx, userID, sess.BookTitle, sess.Office); err != nil {
        log.Printf("engine: waitlist remove for user %d: %v", userID, err)
    }
}

// save persists the session; a store failure is logged and tolerated
// because any session is recoverable by restarting the flow.
func (e *Engine) save(ctx context.Context, userID uint64, sess session.Session) {
    if err := e.sessions.Put(ctx, userID, sess); err != nil {
        log.Printf("engine: session save for user %d failed: %v", userID, err)
    }
}

// tempError keeps the session where it is, tells the user to retry and
// reports the underlying fault to the caller for logging.
func (e *Engine) tempError(ctx context.Context, userID uint64, sess session.Session, err error) error {
    e.save(ctx, userID, sess)
    e.say(ctx, userID, "A temporary error occurred, please try again in a moment.")
    return err
}

func (e *Engine) sayActionMenu(ctx context.Context, userID uint64) {
    e.say(ctx, userID,
        "Do you already know which book you want, or would you like to see the list of books on hand first?",
        Choice{Label: "Book a title", Kind: ChoiceActionBook},
        Choice{Label: "See the list", Kind: ChoiceActionList})
}

func (e *Engine) validOffice(name string) bool {
    for _, o := range e.offices {
        if o == name {
            return true
        }
    }
    return false
}

func (e *Engine) officeChoices() []Choice {
    cs := make([]Choice, 0, len(e.offices))
    for _, o := range e.offices {
        cs = append(cs, Choice{Label: o, Kind: ChoiceOffice, Value: o})
    }
    return cs
}

func durationChoices() []Choice {
    return []Choice{
        {Label: "1 hour", Kind: ChoiceDuration, Value: string(model.DurationHour)},
        {Label: "1 day", Kind: ChoiceDuration, Value: string(model.DurationDay)},
        {Label: "1 week", Kind: ChoiceDuration, Value: string(model.DurationWeek)},
        {Label: "1 month", Kind: ChoiceDuration, Value: string(model.DurationMonth)},
    }
}

func startChoice() Choice { return Choice{Label: "Start", Kind: ChoiceStart} }

func bookAgainChoice() Choice { return Choice{Label: "Book a book", Kind: ChoiceStart} }

func returnChoice(title string) Choice {
    return Choice{Label: fmt.Sprintf("'%s' is returned", title), Kind: ChoiceReturn}
}

func locatorHint(b model.Book) string {
    switch {
    case b.Shelf != nil && b.Floor != nil:
        return fmt.Sprintf("shelf %s, floor %s", *b.Shelf, *b.Floor)
    case b.Shelf != nil:
        return "shelf " + *b.Shelf
    case b.Floor != nil:
        return "floor " + *b.Floor
    }
    return ""
}

func formatBookList(books []model.Book) string {
    if len(books) == 0 {
        return "There are no books available in this office right now."
    }
    var sb strings.Builder
    sb.WriteString("Books available in this office:\n")
    for i, b := range books {
        fmt.Fprintf(&sb, "\n%d. %s — %s", i+1, b.Title, b.Author)
    }
    return sb.String()
}

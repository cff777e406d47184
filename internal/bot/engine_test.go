package bot

import (
    "context"
    "fmt"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/library-reservation/internal/model"
    "github.com/iliyamo/library-reservation/internal/repository"
    "github.com/iliyamo/library-reservation/internal/session"
)

// fakeBackend implements Users, Catalog, Ledger, Waitlist and
// ReminderLog on in-memory maps with the same sentinel errors the
// repositories return.
type fakeBackend struct {
    mu         sync.Mutex
    users      map[uint64]model.User
    books      []*model.Book
    active     map[uint64]model.Loan
    waiters    []waiterEntry
    purged     []string
    nextLoanID uint64
    createErr  error // when set, Create fails once with this error
}

type waiterEntry struct {
    userID   uint64
    title    string
    office   string
    queuedAt time.Time
    notified bool
}

func newFakeBackend(books ...*model.Book) *fakeBackend {
    return &fakeBackend{
        users:  make(map[uint64]model.User),
        books:  books,
        active: make(map[uint64]model.Loan),
    }
}

func (f *fakeBackend) Get(_ context.Context, id uint64) (model.User, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    u, ok := f.users[id]
    if !ok {
        return model.User{}, repository.ErrUserNotFound
    }
    return u, nil
}

func (f *fakeBackend) Register(_ context.Context, id uint64, first, last string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    u := f.users[id]
    u.ID, u.FirstName, u.LastName = id, first, last
    if u.Status == "" {
        u.Status = model.UserStatusAvailable
    }
    f.users[id] = u
    return nil
}

func (f *fakeBackend) SetOffice(_ context.Context, id uint64, office string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    u, ok := f.users[id]
    if !ok {
        return repository.ErrUserNotFound
    }
    u.Office = &office
    f.users[id] = u
    return nil
}

func (f *fakeBackend) FindByTitle(_ context.Context, title, office string) (model.Book, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, b := range f.books {
        if strings.EqualFold(b.Title, title) && b.Office == office {
            return *b, nil
        }
    }
    return model.Book{}, repository.ErrBookNotFound
}

func (f *fakeBackend) ListAvailable(_ context.Context, office string) ([]model.Book, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    var out []model.Book
    for _, b := range f.books {
        if b.Office == office && b.Status == model.BookStatusAvailable {
            out = append(out, *b)
        }
    }
    return out, nil
}

func (f *fakeBackend) Create(_ context.Context, userID uint64, title, office string, duration model.Duration, now time.Time) (model.Loan, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.createErr != nil {
        err := f.createErr
        f.createErr = nil
        return model.Loan{}, err
    }
    if _, held := f.active[userID]; held {
        return model.Loan{}, repository.ErrActiveLoanExists
    }
    var book *model.Book
    for _, b := range f.books {
        if strings.EqualFold(b.Title, title) && b.Office == office {
            book = b
            break
        }
    }
    if book == nil {
        return model.Loan{}, repository.ErrBookNotFound
    }
    if book.Status != model.BookStatusAvailable {
        return model.Loan{}, repository.ErrBookUnavailable
    }
    book.Status = model.BookStatusBooked
    f.nextLoanID++
    loan := model.Loan{
        ID:        f.nextLoanID,
        UserID:    userID,
        BookTitle: book.Title,
        Office:    office,
        StartTime: now,
        Duration:  duration,
        EndTime:   now.Add(duration.Offset()),
        Status:    model.LoanStatusActive,
    }
    f.active[userID] = loan
    f.removeWaiterLocked(userID, book.Title, office)
    return loan, nil
}

func (f *fakeBackend) Complete(_ context.Context, userID uint64, title, office string, _ time.Time) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    loan, ok := f.active[userID]
    if !ok {
        return repository.ErrNoActiveLoan
    }
    if !strings.EqualFold(loan.BookTitle, title) || loan.Office != office {
        return repository.ErrLoanMismatch
    }
    for _, b := range f.books {
        if strings.EqualFold(b.Title, loan.BookTitle) && b.Office == loan.Office {
            b.Status = model.BookStatusAvailable
        }
    }
    delete(f.active, userID)
    return nil
}

func (f *fakeBackend) GetActive(_ context.Context, userID uint64) (model.Loan, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    loan, ok := f.active[userID]
    if !ok {
        return model.Loan{}, repository.ErrNoActiveLoan
    }
    return loan, nil
}

func (f *fakeBackend) Enqueue(_ context.Context, userID uint64, title, office string, now time.Time) (bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, w := range f.waiters {
        if w.userID == userID && strings.EqualFold(w.title, title) && w.office == office {
            return false, nil
        }
    }
    f.waiters = append(f.waiters, waiterEntry{userID: userID, title: title, office: office, queuedAt: now})
    return true, nil
}

func (f *fakeBackend) PeekOldestUnnotified(_ context.Context, title, office string) (uint64, bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    best := -1
    for i, w := range f.waiters {
        if w.notified || !strings.EqualFold(w.title, title) || w.office != office {
            continue
        }
        if best == -1 || w.queuedAt.Before(f.waiters[best].queuedAt) {
            best = i
        }
    }
    if best == -1 {
        return 0, false, nil
    }
    return f.waiters[best].userID, true, nil
}

func (f *fakeBackend) MarkNotified(_ context.Context, userID uint64, title, office string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    for i, w := range f.waiters {
        if w.userID == userID && strings.EqualFold(w.title, title) && w.office == office {
            f.waiters[i].notified = true
        }
    }
    return nil
}

func (f *fakeBackend) Remove(_ context.Context, userID uint64, title, office string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.removeWaiterLocked(userID, title, office)
    return nil
}

func (f *fakeBackend) removeWaiterLocked(userID uint64, title, office string) {
    kept := f.waiters[:0]
    for _, w := range f.waiters {
        if w.userID == userID && strings.EqualFold(w.title, title) && w.office == office {
            continue
        }
        kept = append(kept, w)
    }
    f.waiters = kept
}

func (f *fakeBackend) Purge(_ context.Context, userID uint64, title, office string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.purged = append(f.purged, fmt.Sprintf("%d/%s/%s", userID, title, office))
    return nil
}

// recordingMessenger captures every delivery; failFor simulates a
// transport rejecting messages to specific users.
type recordingMessenger struct {
    mu      sync.Mutex
    sent    []sentMessage
    group   []string
    photos  []string
    failFor map[uint64]bool
}

type sentMessage struct {
    userID  uint64
    text    string
    choices []Choice
}

func (m *recordingMessenger) SendText(_ context.Context, userID uint64, text string, choices ...Choice) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.failFor[userID] {
        return fmt.Errorf("delivery to %d refused", userID)
    }
    m.sent = append(m.sent, sentMessage{userID: userID, text: text, choices: choices})
    return nil
}

func (m *recordingMessenger) SendGroupText(_ context.Context, text string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.group = append(m.group, text)
    return nil
}

func (m *recordingMessenger) SendGroupPhoto(_ context.Context, photoID, caption string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.photos = append(m.photos, photoID+"|"+caption)
    return nil
}

func (m *recordingMessenger) lastTo(userID uint64) sentMessage {
    m.mu.Lock()
    defer m.mu.Unlock()
    for i := len(m.sent) - 1; i >= 0; i-- {
        if m.sent[i].userID == userID {
            return m.sent[i]
        }
    }
    return sentMessage{}
}

func ptr(s string) *string { return &s }

func testBooks() []*model.Book {
    return []*model.Book{
        {ID: 1, Title: "книга а", Author: "Автор А", Office: "Stone Towers", Shelf: ptr("A-1"), Floor: ptr("2"), Status: model.BookStatusAvailable},
        {ID: 2, Title: "книга б", Author: "Автор Б", Office: "Stone Towers", Status: model.BookStatusAvailable},
        {ID: 3, Title: "книга в", Author: "Автор В", Office: "Manhatten", Status: model.BookStatusAvailable},
    }
}

type engineFixture struct {
    engine   *Engine
    backend  *fakeBackend
    msgr     *recordingMessenger
    sessions *session.MemoryStore
    now      time.Time
}

func newFixture(t *testing.T) *engineFixture {
    t.Helper()
    f := &engineFixture{
        backend:  newFakeBackend(testBooks()...),
        msgr:     &recordingMessenger{failFor: make(map[uint64]bool)},
        sessions: session.NewMemoryStore(time.Hour),
        now:      time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
    }
    f.engine = NewEngine(EngineConfig{
        Users:           f.backend,
        Catalog:         f.backend,
        Ledger:          f.backend,
        Waitlist:        f.backend,
        ReminderLog:     f.backend,
        Sessions:        f.sessions,
        Messenger:       f.msgr,
        Offices:         []string{"Stone Towers", "Manhatten", "Известия"},
        DeliveryTimeout: time.Second,
        Now:             func() time.Time { return f.now },
    })
    return f
}

func (f *engineFixture) handle(t *testing.T, userID uint64, ev Event) {
    t.Helper()
    require.NoError(t, f.engine.Handle(context.Background(), userID, ev))
}

// registerAndBook drives a fresh user through the whole happy path up
// to an active loan.
func (f *engineFixture) registerAndBook(t *testing.T, userID uint64, name, office, title string, dur model.Duration) {
    t.Helper()
    ctx := context.Background()
    f.handle(t, userID, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, userID, TextEvent(name))
    f.handle(t, userID, ChoiceEvent(ChoiceOffice, office))
    f.handle(t, userID, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, userID, TextEvent(title))
    f.handle(t, userID, ChoiceEvent(ChoiceConfirmYes, ""))
    f.handle(t, userID, ChoiceEvent(ChoiceDuration, string(dur)))
    _, err := f.backend.GetActive(ctx, userID)
    require.NoError(t, err, "expected an active loan after the booking flow")
}

func TestBookingHappyPath(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    const ana uint64 = 100

    f.handle(t, ana, ChoiceEvent(ChoiceStart, ""))
    assert.Contains(t, f.msgr.lastTo(ana).text, "first and last name")

    f.handle(t, ana, TextEvent("Ana Petrova"))
    assert.Contains(t, f.msgr.lastTo(ana).text, "Ana")

    f.handle(t, ana, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, ana, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, ana, TextEvent("Книга А")) // case-insensitive lookup

    confirm := f.msgr.lastTo(ana)
    assert.Contains(t, confirm.text, "книга а")
    assert.Contains(t, confirm.text, "shelf A-1, floor 2")

    f.handle(t, ana, ChoiceEvent(ChoiceConfirmYes, ""))
    f.handle(t, ana, ChoiceEvent(ChoiceDuration, string(model.DurationWeek)))

    loan, err := f.backend.GetActive(ctx, ana)
    require.NoError(t, err)
    assert.Equal(t, "книга а", loan.BookTitle)
    assert.Equal(t, model.DurationWeek, loan.Duration)
    assert.Equal(t, f.now.Add(7*24*time.Hour), loan.EndTime)

    book, err := f.backend.FindByTitle(ctx, "книга а", "Stone Towers")
    require.NoError(t, err)
    assert.Equal(t, model.BookStatusBooked, book.Status)

    require.NotEmpty(t, f.msgr.group)
    assert.Contains(t, f.msgr.group[0], "Ana Petrova booked 'книга а'")

    _, ok, err := f.sessions.Get(ctx, ana)
    require.NoError(t, err)
    assert.False(t, ok, "session should be cleared after booking")
}

func TestListThenBookByTypedTitle(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 101

    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, uid, TextEvent("Ivan Orlov"))
    f.handle(t, uid, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, uid, ChoiceEvent(ChoiceActionList, ""))

    listing := f.msgr.lastTo(uid).text
    assert.Contains(t, listing, "книга а")
    assert.Contains(t, listing, "книга б")
    assert.NotContains(t, listing, "книга в", "other office's books must not appear")

    f.handle(t, uid, TextEvent("книга б"))
    assert.Contains(t, f.msgr.lastTo(uid).text, "книга б")
}

func TestUnknownTitleOffersAnotherOrCancel(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 102

    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, uid, TextEvent("Ana Petrova"))
    f.handle(t, uid, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, uid, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, uid, TextEvent("война и мир"))

    msg := f.msgr.lastTo(uid)
    assert.Contains(t, msg.text, "don't have that book")
    require.Len(t, msg.choices, 2)

    // Another title re-opens title entry.
    f.handle(t, uid, ChoiceEvent(ChoiceAnother, ""))
    f.handle(t, uid, TextEvent("книга а"))
    assert.Contains(t, f.msgr.lastTo(uid).text, "книга а")
}

func TestSecondLoanBlockedUntilReturn(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 103
    f.registerAndBook(t, uid, "Ana Petrova", "Stone Towers", "книга а", model.DurationDay)

    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    msg := f.msgr.lastTo(uid)
    assert.Contains(t, msg.text, "already have")
    require.NotEmpty(t, msg.choices)
    assert.Equal(t, ChoiceReturn, msg.choices[0].Kind)
}

func TestWaitlistJoinAndDuplicate(t *testing.T) {
    f := newFixture(t)
    f.registerAndBook(t, 200, "Boris Volkov", "Stone Towers", "книга а", model.DurationWeek)

    const ana uint64 = 201
    f.handle(t, ana, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, ana, TextEvent("Ana Petrova"))
    f.handle(t, ana, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, ana, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, ana, TextEvent("книга а"))

    msg := f.msgr.lastTo(ana)
    assert.Contains(t, msg.text, "waitlist")

    f.handle(t, ana, ChoiceEvent(ChoiceWaitlistJoin, ""))
    assert.Contains(t, f.msgr.lastTo(ana).text, "ping you")
    require.Len(t, f.backend.waiters, 1)

    // Joining again is a no-op, not an error.
    f.handle(t, ana, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, ana, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, ana, TextEvent("книга а"))
    f.handle(t, ana, ChoiceEvent(ChoiceWaitlistJoin, ""))
    assert.Contains(t, f.msgr.lastTo(ana).text, "already on the waitlist")
    assert.Len(t, f.backend.waiters, 1)
}

func TestReturnNotifiesOldestWaiterOnce(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    f.registerAndBook(t, 300, "Boris Volkov", "Stone Towers", "книга а", model.DurationHour)

    // Two waiters, queued in order.
    _, err := f.backend.Enqueue(ctx, 301, "книга а", "Stone Towers", f.now)
    require.NoError(t, err)
    f.now = f.now.Add(time.Minute)
    _, err = f.backend.Enqueue(ctx, 302, "книга а", "Stone Towers", f.now)
    require.NoError(t, err)
    require.NoError(t, f.backend.Register(ctx, 301, "Ana", "Petrova"))
    require.NoError(t, f.backend.Register(ctx, 302, "Igor", "Smirnov"))

    f.handle(t, 300, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, 300, PhotoEvent("photo-42"))

    _, err = f.backend.GetActive(ctx, 300)
    assert.ErrorIs(t, err, repository.ErrNoActiveLoan)

    // Oldest waiter pinged, flagged, second untouched.
    ping := f.msgr.lastTo(301)
    assert.Contains(t, ping.text, "книга а")
    assert.True(t, f.backend.waiters[0].notified)
    assert.False(t, f.backend.waiters[1].notified)
    assert.Empty(t, f.msgr.lastTo(302).text)

    // The waiter's session is pre-seeded for a one-tap claim.
    sess, ok, err := f.sessions.Get(ctx, 301)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, session.StateAwaitingConfirm, sess.State)
    assert.Equal(t, "книга а", sess.BookTitle)

    f.handle(t, 301, ChoiceEvent(ChoiceConfirmYes, ""))
    f.handle(t, 301, ChoiceEvent(ChoiceDuration, string(model.DurationDay)))
    loan, err := f.backend.GetActive(ctx, 301)
    require.NoError(t, err)
    assert.Equal(t, "книга а", loan.BookTitle)

    // Claiming removed the waiter's own entry.
    for _, w := range f.backend.waiters {
        assert.NotEqual(t, uint64(301), w.userID)
    }
}

func TestNotifiedWaiterDecliningLeavesWaitlist(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    f.registerAndBook(t, 320, "Boris Volkov", "Stone Towers", "книга а", model.DurationHour)
    _, err := f.backend.Enqueue(ctx, 321, "книга а", "Stone Towers", f.now)
    require.NoError(t, err)
    require.NoError(t, f.backend.Register(ctx, 321, "Ana", "Petrova"))

    f.handle(t, 320, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, 320, PhotoEvent("photo-3"))
    require.Len(t, f.backend.waiters, 1)
    require.True(t, f.backend.waiters[0].notified)

    // Declining the claim removes the entry instead of leaving a dead
    // notified row behind.
    f.handle(t, 321, ChoiceEvent(ChoiceConfirmNo, ""))
    assert.Empty(t, f.backend.waiters)
}

func TestDecliningWaitlistOfferLeavesNoEntry(t *testing.T) {
    f := newFixture(t)
    f.registerAndBook(t, 330, "Boris Volkov", "Stone Towers", "книга а", model.DurationHour)

    const ana uint64 = 331
    f.handle(t, ana, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, ana, TextEvent("Ana Petrova"))
    f.handle(t, ana, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, ana, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, ana, TextEvent("книга а"))
    f.handle(t, ana, ChoiceEvent(ChoiceWaitlistDecline, ""))

    assert.Empty(t, f.backend.waiters)
    assert.Contains(t, f.msgr.lastTo(ana).text, "different one")
}

func TestWaiterMidFlowKeepsDialoguePosition(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    f.registerAndBook(t, 340, "Boris Volkov", "Stone Towers", "книга а", model.DurationHour)
    _, err := f.backend.Enqueue(ctx, 341, "книга а", "Stone Towers", f.now)
    require.NoError(t, err)

    // The waiter is in the middle of booking something else.
    require.NoError(t, f.sessions.Put(ctx, 341, session.Session{
        State:     session.StateAwaitingDuration,
        FirstName: "Ana",
        Office:    "Stone Towers",
        BookTitle: "книга б",
    }))

    f.handle(t, 340, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, 340, PhotoEvent("photo-5"))

    // The ping is delivered but the waiter's dialogue is untouched.
    assert.Contains(t, f.msgr.lastTo(341).text, "книга а")
    sess, ok, err := f.sessions.Get(ctx, 341)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, session.StateAwaitingDuration, sess.State)
    assert.Equal(t, "книга б", sess.BookTitle)
}

func TestFailedWaiterDeliveryKeepsEntryUnnotified(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    f.registerAndBook(t, 310, "Boris Volkov", "Stone Towers", "книга а", model.DurationHour)
    _, err := f.backend.Enqueue(ctx, 311, "книга а", "Stone Towers", f.now)
    require.NoError(t, err)

    f.msgr.failFor[311] = true
    f.handle(t, 310, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, 310, PhotoEvent("photo-7"))

    require.Len(t, f.backend.waiters, 1)
    assert.False(t, f.backend.waiters[0].notified,
        "a failed delivery must leave the waiter first in line")
}

func TestLostRaceKeepsDurationState(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    const uid uint64 = 400

    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, uid, TextEvent("Ana Petrova"))
    f.handle(t, uid, ChoiceEvent(ChoiceOffice, "Stone Towers"))
    f.handle(t, uid, ChoiceEvent(ChoiceActionBook, ""))
    f.handle(t, uid, TextEvent("книга а"))
    f.handle(t, uid, ChoiceEvent(ChoiceConfirmYes, ""))

    f.backend.createErr = repository.ErrBookUnavailable
    f.handle(t, uid, ChoiceEvent(ChoiceDuration, string(model.DurationWeek)))

    assert.Contains(t, f.msgr.lastTo(uid).text, "just ahead of you")
    sess, ok, err := f.sessions.Get(ctx, uid)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, session.StateAwaitingDuration, sess.State)
    assert.Equal(t, "книга а", sess.BookTitle)

    // Retrying the same duration now succeeds.
    f.handle(t, uid, ChoiceEvent(ChoiceDuration, string(model.DurationWeek)))
    _, err = f.backend.GetActive(ctx, uid)
    assert.NoError(t, err)
}

func TestReturnMismatchLeavesLoanActive(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    const uid uint64 = 500
    f.registerAndBook(t, uid, "Ana Petrova", "Stone Towers", "книга а", model.DurationDay)

    // A stale session pointing at a different book than the ledger.
    require.NoError(t, f.sessions.Put(ctx, uid, session.Session{
        State:     session.StateAwaitingReturnPhoto,
        BookTitle: "книга б",
        Office:    "Stone Towers",
        FirstName: "Ana",
    }))
    f.handle(t, uid, PhotoEvent("photo-1"))

    assert.Contains(t, f.msgr.lastTo(uid).text, "doesn't match")
    _, err := f.backend.GetActive(ctx, uid)
    assert.NoError(t, err, "mismatched return must not complete the loan")
}

func TestReturnPurgesReminderHistory(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 600
    f.registerAndBook(t, uid, "Ana Petrova", "Stone Towers", "книга а", model.DurationHour)

    f.handle(t, uid, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, uid, PhotoEvent("photo-9"))

    require.Len(t, f.backend.purged, 1)
    assert.Equal(t, "600/книга а/Stone Towers", f.backend.purged[0])
    require.NotEmpty(t, f.msgr.photos)
    assert.Contains(t, f.msgr.photos[0], "photo-9|")
}

func TestTextInChoiceOnlyStateIsRejected(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 700
    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, uid, TextEvent("Ana Petrova"))

    // In the office state typed text gets a nudge, not a transition.
    f.handle(t, uid, TextEvent("Stone Towers"))
    assert.Contains(t, f.msgr.lastTo(uid).text, "buttons")

    sess, ok, err := f.sessions.Get(context.Background(), uid)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, session.StateAwaitingOffice, sess.State)
}

func TestUnknownOfficeRejected(t *testing.T) {
    f := newFixture(t)
    const uid uint64 = 701
    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    f.handle(t, uid, TextEvent("Ana Petrova"))
    f.handle(t, uid, ChoiceEvent(ChoiceOffice, "Hogwarts"))
    assert.Contains(t, f.msgr.lastTo(uid).text, "isn't on my list")
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()

    // Both users sit at the duration prompt for the same copy.
    for _, uid := range []uint64{900, 901} {
        require.NoError(t, f.backend.Register(ctx, uid, "User", fmt.Sprint(uid)))
        require.NoError(t, f.backend.SetOffice(ctx, uid, "Stone Towers"))
        require.NoError(t, f.sessions.Put(ctx, uid, session.Session{
            State:     session.StateAwaitingDuration,
            FirstName: "User",
            Office:    "Stone Towers",
            BookTitle: "книга а",
        }))
    }

    var wg sync.WaitGroup
    for _, uid := range []uint64{900, 901} {
        wg.Add(1)
        go func(id uint64) {
            defer wg.Done()
            assert.NoError(t, f.engine.Handle(ctx, id, ChoiceEvent(ChoiceDuration, string(model.DurationDay))))
        }(uid)
    }
    wg.Wait()

    winners := 0
    for _, uid := range []uint64{900, 901} {
        if _, err := f.backend.GetActive(ctx, uid); err == nil {
            winners++
        }
    }
    assert.Equal(t, 1, winners, "exactly one of two racing claims may succeed")

    book, err := f.backend.FindByTitle(ctx, "книга а", "Stone Towers")
    require.NoError(t, err)
    assert.Equal(t, model.BookStatusBooked, book.Status)
}

func TestReturningUserSkipsRegistration(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    const uid uint64 = 800
    f.registerAndBook(t, uid, "Ana Petrova", "Stone Towers", "книга а", model.DurationHour)
    f.handle(t, uid, ChoiceEvent(ChoiceReturn, ""))
    f.handle(t, uid, PhotoEvent("p"))

    // Second visit goes straight to the action menu.
    f.handle(t, uid, ChoiceEvent(ChoiceStart, ""))
    assert.Contains(t, f.msgr.lastTo(uid).text, "which book")

    sess, ok, err := f.sessions.Get(ctx, uid)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, session.StateAwaitingAction, sess.State)
    assert.Equal(t, "Stone Towers", sess.Office)
}

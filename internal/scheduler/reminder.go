// Package scheduler runs the periodic reminder sweep over active
// loans. Each loan's duration tier defines a set of checkpoints; the
// sweep fires the ones whose time has come and records them in the
// reminder log so a restart never repeats a delivered reminder.
package scheduler

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/library-reservation/internal/bot"
    "github.com/iliyamo/library-reservation/internal/model"
)

// KindOverdue is the repeating past-due checkpoint shared by every
// tier. All other checkpoint kinds fire at most once per loan.
const KindOverdue = "overdue"

// Checkpoint is one scheduled reminder within a loan's lifetime.
// Exactly one of Lead or Day positions it: Lead counts back from the
// loan's end, Day counts forward from its start and fires at Hour UTC.
type Checkpoint struct {
    Kind string
    Lead time.Duration
    Day  int
    Hour int
}

// FireAt resolves the checkpoint against a concrete loan.
func (c Checkpoint) FireAt(loan model.Loan) time.Time {
    if c.Day > 0 {
        d := loan.StartTime.AddDate(0, 0, c.Day)
        return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, 0, 0, 0, time.UTC)
    }
    return loan.EndTime.Add(-c.Lead)
}

// DefaultSchedules maps each duration tier to its one-shot
// checkpoints. Hourly loans get a short heads-up, daily ones an hour's
// notice, and the long tiers a mid-loan nudge at nine in the morning.
func DefaultSchedules() map[model.Duration][]Checkpoint {
    return map[model.Duration][]Checkpoint{
        model.DurationHour:  {{Kind: "due_soon", Lead: 15 * time.Minute}},
        model.DurationDay:   {{Kind: "due_soon", Lead: time.Hour}},
        model.DurationWeek:  {{Kind: "midway", Day: 5, Hour: 9}},
        model.DurationMonth: {{Kind: "midway", Day: 21, Hour: 9}},
    }
}

// LoanSource lists the loans the sweep inspects.
type LoanSource interface {
    ListActive(ctx context.Context) ([]model.Loan, error)
}

// Log is the persisted record of sent reminders, keyed by
// (user, title, office, kind).
type Log interface {
    LastSent(ctx context.Context, userID uint64, title, office, kind string) (time.Time, bool, error)
    RecordSent(ctx context.Context, userID uint64, title, office, kind string, at time.Time) error
}

// Sweeper owns the reminder loop. Construct with NewSweeper and start
// Run in its own goroutine; RunSweep is exposed separately so tests
// can drive single passes with a controlled clock.
type Sweeper struct {
    loans     LoanSource
    reminders Log
    msgr      bot.Messenger
    schedules map[model.Duration][]Checkpoint
    cooldown  time.Duration
    interval  time.Duration
    timeout   time.Duration
    now       func() time.Time
}

// SweeperConfig groups the sweeper's dependencies and tuning.
// Schedules defaults to DefaultSchedules, Now to the UTC wall clock.
type SweeperConfig struct {
    Loans           LoanSource
    Reminders       Log
    Messenger       bot.Messenger
    Schedules       map[model.Duration][]Checkpoint
    OverdueCooldown time.Duration
    SweepInterval   time.Duration
    DeliveryTimeout time.Duration
    Now             func() time.Time
}

// NewSweeper constructs a Sweeper and panics on missing dependencies.
func NewSweeper(cfg SweeperConfig) *Sweeper {
    if cfg.Loans == nil || cfg.Reminders == nil || cfg.Messenger == nil {
        panic("nil dependency passed to NewSweeper")
    }
    if cfg.Schedules == nil {
        cfg.Schedules = DefaultSchedules()
    }
    if cfg.OverdueCooldown <= 0 {
        cfg.OverdueCooldown = 2 * time.Hour
    }
    if cfg.SweepInterval <= 0 {
        cfg.SweepInterval = 5 * time.Minute
    }
    if cfg.DeliveryTimeout <= 0 {
        cfg.DeliveryTimeout = 10 * time.Second
    }
    if cfg.Now == nil {
        cfg.Now = func() time.Time { return time.Now().UTC() }
    }
    return &Sweeper{
        loans:     cfg.Loans,
        reminders: cfg.Reminders,
        msgr:      cfg.Messenger,
        schedules: cfg.Schedules,
        cooldown:  cfg.OverdueCooldown,
        interval:  cfg.SweepInterval,
        timeout:   cfg.DeliveryTimeout,
        now:       cfg.Now,
    }
}

// Run sweeps immediately and then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
    log.Printf("scheduler: reminder sweep every %s", s.interval)
    s.RunSweep(ctx)
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            log.Println("scheduler: reminder sweep stopped")
            return
        case <-ticker.C:
            s.RunSweep(ctx)
        }
    }
}

// RunSweep walks every active loan once. A failure on one loan is
// logged and never blocks the rest of the pass.
func (s *Sweeper) RunSweep(ctx context.Context) {
    loans, err := s.loans.ListActive(ctx)
    if err != nil {
        log.Printf("scheduler: list active loans: %v", err)
        return
    }
    now := s.now()
    for _, loan := range loans {
        if err := s.sweepLoan(ctx, loan, now); err != nil {
            log.Printf("scheduler: loan %d (user %d, %q): %v", loan.ID, loan.UserID, loan.BookTitle, err)
        }
    }
}

func (s *Sweeper) sweepLoan(ctx context.Context, loan model.Loan, now time.Time) error {
    // One-shot checkpoints only matter while the loan is still live;
    // past the end time the overdue reminder takes over.
    for _, cp := range s.schedules[loan.Duration] {
        if !now.Before(loan.EndTime) {
            break
        }
        due := cp.FireAt(loan)
        if now.Before(due) {
            continue
        }
        _, sent, err := s.reminders.LastSent(ctx, loan.UserID, loan.BookTitle, loan.Office, cp.Kind)
        if err != nil {
            return fmt.Errorf("reminder lookup %q: %w", cp.Kind, err)
        }
        if sent {
            continue
        }
        if err := s.fire(ctx, loan, cp.Kind, now); err != nil {
            return err
        }
    }

    if !now.Before(loan.EndTime) {
        last, sent, err := s.reminders.LastSent(ctx, loan.UserID, loan.BookTitle, loan.Office, KindOverdue)
        if err != nil {
            return fmt.Errorf("reminder lookup %q: %w", KindOverdue, err)
        }
        if sent && now.Sub(last) < s.cooldown {
            return nil
        }
        return s.fire(ctx, loan, KindOverdue, now)
    }
    return nil
}

// fire delivers the reminder and records it only afterwards, so a
// failed delivery is retried on the next sweep.
func (s *Sweeper) fire(ctx context.Context, loan model.Loan, kind string, now time.Time) error {
    dctx, cancel := context.WithTimeout(ctx, s.timeout)
    err := s.msgr.SendText(dctx, loan.UserID, reminderText(loan, kind),
        bot.Choice{Label: fmt.Sprintf("'%s' is returned", loan.BookTitle), Kind: bot.ChoiceReturn})
    cancel()
    if err != nil {
        return fmt.Errorf("deliver %q reminder: %w", kind, err)
    }
    if err := s.reminders.RecordSent(ctx, loan.UserID, loan.BookTitle, loan.Office, kind, now); err != nil {
        return fmt.Errorf("record %q reminder: %w", kind, err)
    }
    return nil
}

func reminderText(loan model.Loan, kind string) string {
    due := loan.EndTime.Format("Mon, 02 Jan 15:04")
    switch kind {
    case KindOverdue:
        return fmt.Sprintf("'%s' was due back on %s. Please return it to the library and press the button below once it's on the shelf.", loan.BookTitle, due)
    case "due_soon":
        return fmt.Sprintf("Heads up: your booking of '%s' ends at %s. Please bring it back soon!", loan.BookTitle, due)
    default:
        return fmt.Sprintf("Friendly reminder: '%s' is still with you and is due back on %s.", loan.BookTitle, due)
    }
}

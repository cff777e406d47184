package queue

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/library-reservation/internal/model"
)

// Publisher sends loan lifecycle events to the loan.events queue. It
// dials per publish, which keeps it free of connection state at the
// cost of a little latency on a path that is already fire-and-forget.
type Publisher struct {
    url string
}

// NewPublisher returns a Publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher {
    return &Publisher{url: url}
}

// LoanCreated publishes a loan.created event. Failures are logged and
// swallowed; publishing never interferes with the reservation itself.
func (p *Publisher) LoanCreated(ctx context.Context, loan model.Loan, firstName, lastName string) {
    p.publish(ctx, loanEvent(KindLoanCreated, loan, firstName, lastName))
}

// LoanReturned publishes a loan.returned event.
func (p *Publisher) LoanReturned(ctx context.Context, loan model.Loan, firstName, lastName string) {
    p.publish(ctx, loanEvent(KindLoanReturned, loan, firstName, lastName))
}

func loanEvent(kind string, loan model.Loan, firstName, lastName string) LoanEvent {
    return LoanEvent{
        Kind:       kind,
        LoanID:     loan.ID,
        UserID:     loan.UserID,
        FirstName:  firstName,
        LastName:   lastName,
        BookTitle:  loan.BookTitle,
        Office:     loan.Office,
        Duration:   string(loan.Duration),
        StartsAt:   loan.StartTime.UTC().Format(time.RFC3339),
        EndsAt:     loan.EndTime.UTC().Format(time.RFC3339),
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}

func (p *Publisher) publish(ctx context.Context, ev LoanEvent) {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(loanQueueName, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", loanQueueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
    }
}

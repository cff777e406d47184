package model

import (
    "fmt"
    "time"
)

// Duration is the enumerated loan duration tier. The set is fixed and
// each tier maps to a fixed wall-clock offset.
type Duration string

const (
    DurationHour  Duration = "hour"
    DurationDay   Duration = "day"
    DurationWeek  Duration = "week"
    DurationMonth Duration = "month" // 30 days, simplified
)

// durationOffsets is the fixed tier-to-offset table. An entry missing
// here for a Duration value in circulation is a programming error, not
// user input: tiers only originate from the bot's own choice set.
var durationOffsets = map[Duration]time.Duration{
    DurationHour:  time.Hour,
    DurationDay:   24 * time.Hour,
    DurationWeek:  7 * 24 * time.Hour,
    DurationMonth: 30 * 24 * time.Hour,
}

// Valid reports whether d is one of the enumerated tiers.
func (d Duration) Valid() bool {
    _, ok := durationOffsets[d]
    return ok
}

// Offset returns the wall-clock length of the tier. It panics on an
// unknown tier because such a value cannot come from user input.
func (d Duration) Offset() time.Duration {
    off, ok := durationOffsets[d]
    if !ok {
        panic(fmt.Sprintf("model: unknown loan duration %q", string(d)))
    }
    return off
}

// Label returns the human-readable form used in outbound messages.
func (d Duration) Label() string {
    switch d {
    case DurationHour:
        return "1 hour"
    case DurationDay:
        return "1 day"
    case DurationWeek:
        return "1 week"
    case DurationMonth:
        return "1 month"
    }
    return string(d)
}

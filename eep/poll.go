package eep

import (
	"context"
	"time"
)

// PollQuantum and PollBudget are the fixed polling parameters from §5:
// "hardware register polls use a fixed quantum (10 µs) and a total
// budget (100 ms) per wait; exceeding the budget returns a failure code
// that unwinds the current operation."
const (
	PollQuantum = 10 * time.Microsecond
	PollBudget  = 100 * time.Millisecond
)

// PollRegister repeatedly calls read until cond(value) is true or the
// poll budget is exhausted, returning KindIOTimeout on exhaustion. This is
// the one blocking, time-bounded operation the otherwise-synchronous
// single-threaded model (§5) allows; cancellation via ctx still aborts
// immediately, matching "cancellation is not supported mid-parse" being
// scoped to the parsing loops, not the I/O boundary.
func PollRegister(ctx context.Context, read func(ctx context.Context) (uint32, error), cond func(uint32) bool) (uint32, error) {
	deadline := time.Now().Add(PollBudget)
	ticker := time.NewTicker(PollQuantum)
	defer ticker.Stop()

	for {
		v, err := read(ctx)
		if err != nil {
			return 0, wrapErr(KindIOError, err, "register poll read failed")
		}
		if cond(v) {
			return v, nil
		}
		if time.Now().After(deadline) {
			return 0, newErr(KindIOTimeout, "register poll exceeded %s budget", PollBudget)
		}
		select {
		case <-ctx.Done():
			return 0, wrapErr(KindIOTimeout, ctx.Err(), "register poll cancelled")
		case <-ticker.C:
		}
	}
}

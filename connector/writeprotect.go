// Package connector holds reference data-source and ancillary hardware
// connectors for atheepmgr. These are explicitly NOT part of the core
// calibration-decoding engine (eep package) — spec.md §1 scopes
// connector back-ends and GPIO/register plumbing as external
// collaborators — but a thin, real implementation is kept here so the
// loader's source contracts (eep.WordSource, eep.OTPSource, ...) have at
// least one non-test backing, and so the domain stack's hardware
// dependencies (go-gpiocdev, go-udev, golang.org/x/sys) are exercised by
// something other than documentation.
package connector

import (
	"context"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// WriteProtect guards the EEPROM write-protect GPIO line (§5: "EEPROM
// write-protect GPIO is acquired (toggled to the unlocked polarity) only
// around a write sequence; released (relocked) immediately after").
type WriteProtect struct {
	line        *gpiocdev.Line
	unlockedLow bool // true if driving the line low is the unlocked polarity
}

// NewWriteProtect requests the given gpiochip/offset as an output line,
// initially held at its locked polarity.
func NewWriteProtect(chip string, offset int, unlockedLow bool) (*WriteProtect, error) {
	initial := 1
	if unlockedLow {
		initial = 1 // locked = high when unlocked is low
	} else {
		initial = 0 // locked = low when unlocked is high
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, fmt.Errorf("requesting write-protect line %s:%d: %w", chip, offset, err)
	}
	return &WriteProtect{line: line, unlockedLow: unlockedLow}, nil
}

// Unlock toggles the line to its unlocked polarity. Callers must Lock
// (or Close) before the write sequence returns, on every exit path
// including errors (§7: "The write-protect GPIO is always relocked on
// any error exit from a write sequence").
func (w *WriteProtect) Unlock(_ context.Context) error {
	v := 0
	if !w.unlockedLow {
		v = 1
	}
	return w.line.SetValue(v)
}

// Lock restores the locked polarity.
func (w *WriteProtect) Lock(_ context.Context) error {
	v := 1
	if !w.unlockedLow {
		v = 0
	}
	return w.line.SetValue(v)
}

// Close releases the underlying GPIO line request.
func (w *WriteProtect) Close() error { return w.line.Close() }

// WithWriteProtect unlocks, runs fn, and always relocks afterward —
// including when fn returns an error — so a write sequence can never
// leave the EEPROM unprotected.
func WithWriteProtect(ctx context.Context, wp *WriteProtect, fn func(ctx context.Context) error) (err error) {
	if err = wp.Unlock(ctx); err != nil {
		return fmt.Errorf("unlocking write protect: %w", err)
	}
	defer func() {
		if lockErr := wp.Lock(ctx); lockErr != nil && err == nil {
			err = fmt.Errorf("relocking write protect: %w", lockErr)
		}
	}()
	return fn(ctx)
}

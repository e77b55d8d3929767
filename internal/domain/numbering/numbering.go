// Package numbering issues human-readable business codes.
//
// Codes are derived from per-table counters (AutoNumber rows). A counter only
// moves forward, so a code is never handed out twice even after the record it
// was issued for is deleted.
package numbering

import (
	"context"
	"fmt"
)

// Sequence names, one counter row per table
const (
	CustomerSequence = "customers"
)

// Generator hands out the next number of a named sequence.
// Implementations must be safe under concurrent callers.
type Generator interface {
	Next(ctx context.Context, sequence string) (int64, error)
}

// CustomerCode formats a customer sequence number, e.g. KH0001
func CustomerCode(n int64) string {
	return fmt.Sprintf("KH%04d", n)
}

// OrderCode formats an order id, e.g. DH001
func OrderCode(id int64) string {
	return fmt.Sprintf("DH%03d", id)
}

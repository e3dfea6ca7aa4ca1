// Package ledger is the reconciliation engine for chit-fund member accounts:
// it owns contract defaulting, the derivation of every cached summary field
// from the payment records, and the validation rules that gate new payments.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports request input that can never be applied, such as
// month numbers outside the contract tenure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports collisions with existing state. Months carries the
// enumerable list of offending month numbers when the collision is with
// already-paid records.
type ConflictError struct {
	Msg    string
	Months []int
}

func (e *ConflictError) Error() string { return e.Msg }

func joinMonths(months []int) string {
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ", ")
}

func monthsOutOfRange(tenure int, months []int) *ValidationError {
	return &ValidationError{
		Msg: fmt.Sprintf("month numbers out of range 1..%d: %s", tenure, joinMonths(months)),
	}
}

func monthsAlreadyPaid(months []int) *ConflictError {
	return &ConflictError{
		Msg:    "months already paid: " + joinMonths(months),
		Months: months,
	}
}

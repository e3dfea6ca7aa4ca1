package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shivareddy1287/ims-backend/models"
)

// ApplyContractDefaults fills the derivable contract fields that were left
// unset at creation: monthlyPremium = chitAmount / tenure and
// endDate = startDate + tenure months. Values already present are never
// overwritten. This is the single owner of that defaulting; no request
// handler duplicates it.
func ApplyContractDefaults(m *models.MemberAccount) {
	if m.MonthlyPremium.IsZero() && m.Tenure > 0 {
		m.MonthlyPremium = m.ChitAmount.Div(decimal.NewFromInt(int64(m.Tenure)))
	}
	if m.EndDate.IsZero() && !m.StartDate.IsZero() {
		m.EndDate = m.StartDate.AddDate(0, m.Tenure, 0)
	}
	if m.Status == "" {
		m.Status = "active"
	}
}

// Derive recomputes every cached summary field on the account from its
// payment records. Totals are always rebuilt from scratch, never adjusted
// incrementally, so repeated passes over the same records are idempotent.
// The completed status is one-way: once set it is never reverted, and an
// externally cancelled account is never resurrected.
//
// Derive is the only writer of the summary fields and runs immediately
// before every persist.
func Derive(m *models.MemberAccount) {
	ApplyContractDefaults(m)

	completed := 0
	total := decimal.Zero
	var last *time.Time
	for i := range m.PaymentRecords {
		r := &m.PaymentRecords[i]
		if !r.Settled() {
			continue
		}
		completed++
		total = total.Add(r.Amount)
		if last == nil || r.PaymentDate.After(*last) {
			t := r.PaymentDate
			last = &t
		}
	}

	m.CompletedMonths = completed
	m.PendingMonths = m.Tenure - completed
	m.TotalPaidAmount = total
	m.LastPaymentDate = last

	if completed >= m.Tenure && m.Status == "active" {
		m.Status = "completed"
	}
}

// Summarize produces the progress view of an account without mutating it.
// NextDueMonth and NextDueAmount are positional: they assume months settle
// in order, so the next unsettled slot is completedMonths+1. When months are
// paid out of order they can point at a slot that is already settled.
func Summarize(m *models.MemberAccount) models.Summary {
	completion := decimal.Zero
	if m.Tenure > 0 {
		completion = decimal.NewFromInt(int64(m.CompletedMonths) * 100).
			Div(decimal.NewFromInt(int64(m.Tenure))).
			Round(2)
	}
	return models.Summary{
		TotalMonths:          m.Tenure,
		CompletedMonths:      m.CompletedMonths,
		PendingMonths:        m.PendingMonths,
		TotalPaidAmount:      m.TotalPaidAmount,
		TotalDueAmount:       m.MonthlyPremium.Mul(decimal.NewFromInt(int64(m.Tenure))).Sub(m.TotalPaidAmount),
		CompletionPercentage: completion,
		NextDueMonth:         m.CompletedMonths + 1,
		NextDueAmount:        m.MonthlyPremium,
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxRemarksLength caps the free-form remarks on a payment record.
const MaxRemarksLength = 500

// PaymentRecord is one scheduled or actual contribution for a single month.
// DueDate is fixed at creation from the account start date and never
// recomputed afterwards.
type PaymentRecord struct {
	ID            int             `json:"id"`
	MemberID      int             `json:"memberId"`
	MonthNumber   int             `json:"monthNumber"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        string          `json:"status"`        // pending, paid, partial, overdue
	PaymentMethod string          `json:"paymentMethod"` // cash, bank_transfer, upi, cheque, card
	TransactionID string          `json:"transactionId"`
	Remarks       string          `json:"remarks"`
	LateFee       decimal.Decimal `json:"lateFee"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Settled reports whether the record counts toward completion and totals.
func (r *PaymentRecord) Settled() bool {
	return r.Status == "paid" || r.Status == "partial"
}

// PaymentInput is the single-payment request: one total amount split evenly
// across the requested months.
type PaymentInput struct {
	MonthNumbers  []int           `json:"monthNumbers"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"paymentDate"` // YYYY-MM-DD, defaults to today
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
	Remarks       string          `json:"remarks"`
	LateFee       decimal.Decimal `json:"lateFee"`
}

func (p *PaymentInput) Validate() string {
	if len(p.MonthNumbers) == 0 {
		return "monthNumbers is required"
	}
	if p.Amount.IsNegative() {
		return "amount must be non-negative"
	}
	if msg := validatePaymentMeta(p.PaymentDate, p.PaymentMethod, p.Remarks, p.LateFee); msg != "" {
		return msg
	}
	return ""
}

// BulkPaymentEntry is one payment in a batch request; each entry carries its
// own amount and late fee.
type BulkPaymentEntry struct {
	MonthNumber   int             `json:"monthNumber"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
	Remarks       string          `json:"remarks"`
	LateFee       decimal.Decimal `json:"lateFee"`
}

// BulkPaymentInput is used for the batch payment endpoint.
type BulkPaymentInput struct {
	Payments []BulkPaymentEntry `json:"payments"`
}

func (b *BulkPaymentInput) Validate() string {
	if len(b.Payments) == 0 {
		return "payments is required"
	}
	for _, p := range b.Payments {
		if p.MonthNumber == 0 {
			return "monthNumber is required for every payment"
		}
		if p.Amount.IsNegative() {
			return "amount must be non-negative"
		}
		if msg := validatePaymentMeta(p.PaymentDate, p.PaymentMethod, p.Remarks, p.LateFee); msg != "" {
			return msg
		}
	}
	return ""
}

func validatePaymentMeta(date, method, remarks string, lateFee decimal.Decimal) string {
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return "paymentDate must be in YYYY-MM-DD format"
		}
	}
	switch method {
	case "", "cash", "bank_transfer", "upi", "cheque", "card":
	default:
		return "paymentMethod must be one of: cash, bank_transfer, upi, cheque, card"
	}
	if len(remarks) > MaxRemarksLength {
		return "remarks must be at most 500 characters"
	}
	if lateFee.IsNegative() {
		return "lateFee must be non-negative"
	}
	return ""
}

package models

import (
	"net/mail"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	aadharPattern = regexp.MustCompile(`^[0-9]{12}$`)
	phonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
)

// Address is the free-form postal address attached to a member.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// MemberAccount represents one member's chit-fund enrollment: contract terms,
// the collected payment records, and the cached summary fields.
//
// The summary fields (TotalPaidAmount, CompletedMonths, PendingMonths,
// LastPaymentDate, the completed status) are derived from PaymentRecords by
// ledger.Derive and must never be set by hand anywhere else.
type MemberAccount struct {
	ID           int     `json:"id"`
	MemberName   string  `json:"memberName"`
	AadharNumber string  `json:"aadharNumber"`
	PhoneNumber  string  `json:"phoneNumber"`
	Email        string  `json:"email"`
	Address      Address `json:"address"`

	ChitAmount     decimal.Decimal `json:"chitAmount"`
	Tenure         int             `json:"tenure"` // months
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Status         string          `json:"status"` // active, completed, cancelled

	TotalPaidAmount decimal.Decimal `json:"totalPaidAmount"`
	CompletedMonths int             `json:"completedMonths"`
	PendingMonths   int             `json:"pendingMonths"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate"`

	PaymentRecords []PaymentRecord `json:"paymentRecords,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemberInput is used for creating member accounts. StartDate and EndDate use
// the YYYY-MM-DD format; EndDate and MonthlyPremium are derived when absent.
type MemberInput struct {
	MemberName     string          `json:"memberName"`
	AadharNumber   string          `json:"aadharNumber"`
	PhoneNumber    string          `json:"phoneNumber"`
	Email          string          `json:"email"`
	Address        Address         `json:"address"`
	ChitAmount     decimal.Decimal `json:"chitAmount"`
	Tenure         int             `json:"tenure"`
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
}

func (m *MemberInput) Validate() string {
	if m.MemberName == "" {
		return "memberName is required"
	}
	if !aadharPattern.MatchString(m.AadharNumber) {
		return "aadharNumber must be exactly 12 digits"
	}
	if !phonePattern.MatchString(m.PhoneNumber) {
		return "phoneNumber must be exactly 10 digits"
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return "email must be a valid email address"
	}
	if m.ChitAmount.LessThan(decimal.NewFromInt(1000)) {
		return "chitAmount must be at least 1000"
	}
	if m.Tenure < 1 {
		return "tenure must be at least 1 month"
	}
	if m.MonthlyPremium.IsNegative() {
		return "monthlyPremium must be non-negative"
	}
	if m.StartDate == "" {
		return "startDate is required"
	}
	if _, err := time.Parse("2006-01-02", m.StartDate); err != nil {
		return "startDate must be in YYYY-MM-DD format"
	}
	if m.EndDate != "" {
		if _, err := time.Parse("2006-01-02", m.EndDate); err != nil {
			return "endDate must be in YYYY-MM-DD format"
		}
	}
	return ""
}

// MemberPatch is used for the unrestricted field update. Only non-nil fields
// are applied; no business validation runs beyond JSON types, and any cached
// summary fields a caller tries to smuggle in are overwritten by the
// derivation pass on save.
type MemberPatch struct {
	MemberName     *string          `json:"memberName"`
	AadharNumber   *string          `json:"aadharNumber"`
	PhoneNumber    *string          `json:"phoneNumber"`
	Email          *string          `json:"email"`
	Address        *Address         `json:"address"`
	ChitAmount     *decimal.Decimal `json:"chitAmount"`
	Tenure         *int             `json:"tenure"`
	MonthlyPremium *decimal.Decimal `json:"monthlyPremium"`
	StartDate      *string          `json:"startDate"`
	EndDate        *string          `json:"endDate"`
	Status         *string          `json:"status"`
}

// Summary is the derived view of an account's progress returned alongside
// member payloads.
type Summary struct {
	TotalMonths          int             `json:"totalMonths"`
	CompletedMonths      int             `json:"completedMonths"`
	PendingMonths        int             `json:"pendingMonths"`
	TotalPaidAmount      decimal.Decimal `json:"totalPaidAmount"`
	TotalDueAmount       decimal.Decimal `json:"totalDueAmount"`
	CompletionPercentage decimal.Decimal `json:"completionPercentage"`
	NextDueMonth         int             `json:"nextDueMonth"`
	NextDueAmount        decimal.Decimal `json:"nextDueAmount"`
}

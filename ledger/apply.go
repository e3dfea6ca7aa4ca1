package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shivareddy1287/ims-backend/models"
)

// SinglePayment covers one or more months with one total amount, split
// evenly across the requested month numbers.
type SinglePayment struct {
	MonthNumbers  []int
	TotalAmount   decimal.Decimal
	PaymentDate   time.Time // zero value means now
	PaymentMethod string    // empty means cash
	TransactionID string    // empty means generated
	Remarks       string
	LateFee       decimal.Decimal
}

// BulkPayment is one entry of a batch request with its own amount and fee.
type BulkPayment struct {
	MonthNumber   int
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
	TransactionID string
	Remarks       string
	LateFee       decimal.Decimal
}

// ApplySingle validates and appends paid records for p's months, then runs
// the derivation pass. On any validation or conflict failure the account is
// left entirely unmodified.
func ApplySingle(m *models.MemberAccount, p SinglePayment) error {
	if len(p.MonthNumbers) == 0 {
		return &ValidationError{Msg: "monthNumbers is required"}
	}
	if len(p.Remarks) > models.MaxRemarksLength {
		return &ValidationError{Msg: "remarks must be at most 500 characters"}
	}
	if err := checkMonths(m, p.MonthNumbers); err != nil {
		return err
	}

	amount := p.TotalAmount.Div(decimal.NewFromInt(int64(len(p.MonthNumbers))))
	for _, month := range p.MonthNumbers {
		m.PaymentRecords = append(m.PaymentRecords, newPaidRecord(m, month, amount,
			p.PaymentDate, p.PaymentMethod, p.TransactionID, p.Remarks, p.LateFee))
	}

	Derive(m)
	return nil
}

// ApplyBulk validates every entry against existing records before appending
// any of them: one bad entry rejects the whole batch. Duplicate month numbers
// within the same batch are not rejected; both entries land as separate paid
// records.
func ApplyBulk(m *models.MemberAccount, payments []BulkPayment) error {
	if len(payments) == 0 {
		return &ValidationError{Msg: "payments is required"}
	}
	months := make([]int, len(payments))
	for i, p := range payments {
		if len(p.Remarks) > models.MaxRemarksLength {
			return &ValidationError{Msg: "remarks must be at most 500 characters"}
		}
		months[i] = p.MonthNumber
	}
	if err := checkMonths(m, months); err != nil {
		return err
	}

	for _, p := range payments {
		m.PaymentRecords = append(m.PaymentRecords, newPaidRecord(m, p.MonthNumber, p.Amount,
			p.PaymentDate, p.PaymentMethod, p.TransactionID, p.Remarks, p.LateFee))
	}

	Derive(m)
	return nil
}

// checkMonths runs the two pre-checks over the whole request: range first,
// then collisions with existing paid records. Each failure names every
// offending month number.
func checkMonths(m *models.MemberAccount, months []int) error {
	var outOfRange []int
	for _, n := range months {
		if n < 1 || n > m.Tenure {
			outOfRange = append(outOfRange, n)
		}
	}
	if len(outOfRange) > 0 {
		return monthsOutOfRange(m.Tenure, outOfRange)
	}

	paid := make(map[int]bool)
	for i := range m.PaymentRecords {
		if m.PaymentRecords[i].Status == "paid" {
			paid[m.PaymentRecords[i].MonthNumber] = true
		}
	}
	var already []int
	for _, n := range months {
		if paid[n] {
			already = append(already, n)
		}
	}
	if len(already) > 0 {
		return monthsAlreadyPaid(already)
	}
	return nil
}

func newPaidRecord(m *models.MemberAccount, month int, amount decimal.Decimal,
	paymentDate time.Time, method, txID, remarks string, lateFee decimal.Decimal) models.PaymentRecord {

	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	if method == "" {
		method = "cash"
	}
	if txID == "" {
		txID = uuid.NewString()
	}
	return models.PaymentRecord{
		MemberID:      m.ID,
		MonthNumber:   month,
		Amount:        amount,
		PaymentDate:   paymentDate,
		DueDate:       m.StartDate.AddDate(0, month-1, 0),
		Status:        "paid",
		PaymentMethod: method,
		TransactionID: txID,
		Remarks:       remarks,
		LateFee:       lateFee,
	}
}

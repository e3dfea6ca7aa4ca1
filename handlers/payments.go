package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shivareddy1287/ims-backend/ledger"
	"github.com/shivareddy1287/ims-backend/models"
)

// RecordPayment applies a single or multi-month payment
// @Summary      Record payment
// @Description  Split one amount evenly across the requested months and mark them paid.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Member ID"
// @Param        payment  body      models.PaymentInput  true  "Payment contents"
// @Success      200      {object}  Response{data=models.MemberAccount,summary=models.Summary}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /user-payments/{id}/pay [post]
// @Security     BasicAuth
func RecordPayment(w http.ResponseWriter, r *http.Request) {
	var input models.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	m, ok := loadForUpdate(w, r)
	if !ok {
		return
	}

	payment := ledger.SinglePayment{
		MonthNumbers:  input.MonthNumbers,
		TotalAmount:   input.Amount,
		PaymentDate:   parseDate(input.PaymentDate),
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		Remarks:       input.Remarks,
		LateFee:       input.LateFee,
	}
	if err := ledger.ApplySingle(&m, payment); err != nil {
		writeLedgerError(w, err)
		return
	}
	if err := saveMember(&m); err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "payment recorded",
		Data:    m,
		Summary: ledger.Summarize(&m),
	})
}

// RecordBulkPayment applies a batch of payments with per-entry amounts
// @Summary      Record bulk payment
// @Description  Apply a batch of payments; one invalid entry rejects the whole batch.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id        path      int                      true  "Member ID"
// @Param        payments  body      models.BulkPaymentInput  true  "Batch contents"
// @Success      200       {object}  Response{data=models.MemberAccount,summary=models.Summary}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /user-payments/{id}/bulk-pay [post]
// @Security     BasicAuth
func RecordBulkPayment(w http.ResponseWriter, r *http.Request) {
	var input models.BulkPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	m, ok := loadForUpdate(w, r)
	if !ok {
		return
	}

	payments := make([]ledger.BulkPayment, len(input.Payments))
	for i, p := range input.Payments {
		payments[i] = ledger.BulkPayment{
			MonthNumber:   p.MonthNumber,
			Amount:        p.Amount,
			PaymentDate:   parseDate(p.PaymentDate),
			PaymentMethod: p.PaymentMethod,
			TransactionID: p.TransactionID,
			Remarks:       p.Remarks,
			LateFee:       p.LateFee,
		}
	}
	if err := ledger.ApplyBulk(&m, payments); err != nil {
		writeLedgerError(w, err)
		return
	}
	if err := saveMember(&m); err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "bulk payment recorded",
		Data:    m,
		Summary: ledger.Summarize(&m),
	})
}

// paymentHistoryData is the partitioned history payload.
type paymentHistoryData struct {
	PaidPayments    []models.PaymentRecord `json:"paidPayments"`
	PaidCount       int                    `json:"paidCount"`
	PendingPayments []models.PaymentRecord `json:"pendingPayments"`
	PendingCount    int                    `json:"pendingCount"`
}

// PaymentHistory retrieves the partitioned payment history
// @Summary      Get payment history
// @Description  Settled records newest-first, outstanding records by month number, plus the account summary.
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  Response{data=paymentHistoryData,summary=models.Summary}
// @Failure      404  {object}  Response{error=string}
// @Router       /user-payments/{id}/payment-history [get]
// @Security     BasicAuth
func PaymentHistory(w http.ResponseWriter, r *http.Request) {
	m, ok := loadForUpdate(w, r)
	if !ok {
		return
	}

	h := ledger.History(&m)
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: paymentHistoryData{
			PaidPayments:    h.Paid,
			PaidCount:       len(h.Paid),
			PendingPayments: h.Pending,
			PendingCount:    len(h.Pending),
		},
		Summary: ledger.Summarize(&m),
	})
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", s)
	return t
}

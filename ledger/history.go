package ledger

import (
	"sort"

	"github.com/shivareddy1287/ims-backend/models"
)

// PaymentHistory partitions an account's records into settled and outstanding
// halves for the history endpoint.
type PaymentHistory struct {
	Paid    []models.PaymentRecord // paid or partial, newest payment first
	Pending []models.PaymentRecord // pending or overdue, by month number
}

// History builds the partitioned view without mutating the account.
func History(m *models.MemberAccount) PaymentHistory {
	h := PaymentHistory{
		Paid:    []models.PaymentRecord{},
		Pending: []models.PaymentRecord{},
	}
	for _, r := range m.PaymentRecords {
		if r.Settled() {
			h.Paid = append(h.Paid, r)
		} else {
			h.Pending = append(h.Pending, r)
		}
	}
	sort.SliceStable(h.Paid, func(i, j int) bool {
		return h.Paid[i].PaymentDate.After(h.Paid[j].PaymentDate)
	})
	sort.SliceStable(h.Pending, func(i, j int) bool {
		return h.Pending[i].MonthNumber < h.Pending[j].MonthNumber
	})
	return h
}

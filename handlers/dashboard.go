package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type dashboardData struct {
	TotalMembers     int `json:"total_members"`
	ActiveMembers    int `json:"active_members"`
	CompletedMembers int `json:"completed_members"`
	CancelledMembers int `json:"cancelled_members"`
	TotalPayments    int `json:"total_payments"`

	TotalCollected decimal.Decimal `json:"total_collected"` // sum over settled records

	RecentPayments []map[string]any `json:"recent_payments"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get member counts by status, payment totals, and recent payments.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM members").Scan(&d.TotalMembers)
	DB.QueryRow("SELECT COUNT(*) FROM members WHERE status = 'active'").Scan(&d.ActiveMembers)
	DB.QueryRow("SELECT COUNT(*) FROM members WHERE status = 'completed'").Scan(&d.CompletedMembers)
	DB.QueryRow("SELECT COUNT(*) FROM members WHERE status = 'cancelled'").Scan(&d.CancelledMembers)
	DB.QueryRow("SELECT COUNT(*) FROM payment_records").Scan(&d.TotalPayments)

	// Amounts are stored as decimal text, so the sum is rebuilt in Go rather
	// than with SQL SUM.
	d.TotalCollected = decimal.Zero
	if rows, err := DB.Query("SELECT amount FROM payment_records WHERE status IN ('paid', 'partial')"); err == nil {
		defer rows.Close()
		for rows.Next() {
			var amount decimal.Decimal
			if rows.Scan(&amount) == nil {
				d.TotalCollected = d.TotalCollected.Add(amount)
			}
		}
	}

	// Recent 5 payments
	rows, err := DB.Query(`SELECT p.id, p.month_number, p.amount, p.payment_date, p.payment_method, m.member_name
		FROM payment_records p LEFT JOIN members m ON p.member_id = m.id
		ORDER BY p.created_at DESC LIMIT 5`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id, month int
			var amount decimal.Decimal
			var date, method, name *string
			rows.Scan(&id, &month, &amount, &date, &method, &name)
			d.RecentPayments = append(d.RecentPayments, map[string]any{
				"id":             id,
				"month_number":   month,
				"amount":         amount,
				"payment_date":   date,
				"payment_method": method,
				"member_name":    name,
			})
		}
	}
	if d.RecentPayments == nil {
		d.RecentPayments = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: d})
}

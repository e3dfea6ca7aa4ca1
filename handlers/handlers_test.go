package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/shivareddy1287/ims-backend/db"
	"github.com/shivareddy1287/ims-backend/models"
)

type memberResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    models.MemberAccount `json:"data"`
	Summary models.Summary       `json:"summary"`
	Error   string               `json:"error"`
}

type listResponse struct {
	Success     bool                   `json:"success"`
	Data        []models.MemberAccount `json:"data"`
	Count       int                    `json:"count"`
	Total       int                    `json:"total"`
	Pages       int                    `json:"pages"`
	CurrentPage int                    `json:"currentPage"`
}

type historyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		PaidPayments    []models.PaymentRecord `json:"paidPayments"`
		PaidCount       int                    `json:"paidCount"`
		PendingPayments []models.PaymentRecord `json:"pendingPayments"`
		PendingCount    int                    `json:"pendingCount"`
	} `json:"data"`
	Summary models.Summary `json:"summary"`
}

func setupRouter(t *testing.T) chi.Router {
	t.Helper()
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("AUTH_USER", "")
	t.Setenv("AUTH_PASS", "")

	database, err := db.Open()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	DB = database
	return NewRouter()
}

func doRequest(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func memberBody(aadhar, phone string) map[string]any {
	return map[string]any{
		"memberName":   "Ravi Kumar",
		"aadharNumber": aadhar,
		"phoneNumber":  phone,
		"email":        "ravi@example.com",
		"address": map[string]string{
			"street": "12 MG Road", "city": "Hyderabad", "state": "Telangana", "pincode": "500001",
		},
		"chitAmount": 12000,
		"tenure":     12,
		"startDate":  "2024-01-01",
	}
}

func createMember(t *testing.T, router chi.Router, aadhar, phone string) models.MemberAccount {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/user-payments", memberBody(aadhar, phone))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create member: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[memberResponse](t, rec).Data
}

func TestCreateMemberDerivesContractFields(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")

	if !m.MonthlyPremium.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("monthlyPremium = %s, want 1000", m.MonthlyPremium)
	}
	if got := m.EndDate.Format("2006-01-02"); got != "2025-01-01" {
		t.Errorf("endDate = %s, want 2025-01-01", got)
	}
	if m.Status != "active" || m.CompletedMonths != 0 || m.PendingMonths != 12 {
		t.Errorf("fresh account state wrong: status=%s completed=%d pending=%d",
			m.Status, m.CompletedMonths, m.PendingMonths)
	}
	if !m.TotalPaidAmount.IsZero() || m.LastPaymentDate != nil {
		t.Errorf("fresh account has nonzero summary: %s / %v", m.TotalPaidAmount, m.LastPaymentDate)
	}
}

func TestCreateMemberValidation(t *testing.T) {
	router := setupRouter(t)
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"short aadhar", func(b map[string]any) { b["aadharNumber"] = "12345" }},
		{"bad phone", func(b map[string]any) { b["phoneNumber"] = "98765" }},
		{"bad email", func(b map[string]any) { b["email"] = "not-an-email" }},
		{"chit amount below minimum", func(b map[string]any) { b["chitAmount"] = 500 }},
		{"zero tenure", func(b map[string]any) { b["tenure"] = 0 }},
		{"missing start date", func(b map[string]any) { delete(b, "startDate") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := memberBody("123456789012", "9876543210")
			tt.mutate(body)
			rec := doRequest(t, router, http.MethodPost, "/api/user-payments", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateMemberDuplicateAadhar(t *testing.T) {
	router := setupRouter(t)
	createMember(t, router, "123456789012", "9876543210")

	rec := doRequest(t, router, http.MethodPost, "/api/user-payments", memberBody("123456789012", "9876543211"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decode[memberResponse](t, rec)
	if !strings.Contains(resp.Error, "already exists") {
		t.Errorf("error = %q, want duplicate-aadhar message", resp.Error)
	}
}

func TestRecordPaymentFlow(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")
	base := fmt.Sprintf("/api/user-payments/%d", m.ID)

	rec := doRequest(t, router, http.MethodPost, base+"/pay", map[string]any{
		"monthNumbers": []int{1, 2},
		"amount":       2000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[memberResponse](t, rec)
	if resp.Summary.CompletedMonths != 2 || resp.Summary.PendingMonths != 10 {
		t.Errorf("summary months = %d/%d, want 2/10",
			resp.Summary.CompletedMonths, resp.Summary.PendingMonths)
	}
	if !resp.Summary.TotalPaidAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("totalPaidAmount = %s, want 2000", resp.Summary.TotalPaidAmount)
	}
	for _, r := range resp.Data.PaymentRecords {
		if !r.Amount.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("record amount = %s, want 1000 (even split)", r.Amount)
		}
	}

	// Re-paying month 1 conflicts and must not change stored records.
	rec = doRequest(t, router, http.MethodPost, base+"/pay", map[string]any{
		"monthNumbers": []int{1},
		"amount":       1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("repay: status %d, want 400", rec.Code)
	}
	if errMsg := decode[memberResponse](t, rec).Error; !strings.Contains(errMsg, "1") {
		t.Errorf("conflict error %q does not name month 1", errMsg)
	}

	hist := decode[historyResponse](t, doRequest(t, router, http.MethodGet, base+"/payment-history", nil))
	if hist.Data.PaidCount != 2 {
		t.Errorf("paidCount = %d, want 2 after failed repay", hist.Data.PaidCount)
	}
}

func TestRecordPaymentOutOfRange(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/user-payments/%d/pay", m.ID), map[string]any{
		"monthNumbers": []int{13},
		"amount":       1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if errMsg := decode[memberResponse](t, rec).Error; !strings.Contains(errMsg, "13") {
		t.Errorf("error %q does not name month 13", errMsg)
	}
}

func TestRecordPaymentUnknownMember(t *testing.T) {
	router := setupRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/user-payments/9999/pay", map[string]any{
		"monthNumbers": []int{1},
		"amount":       1000,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestBulkPayment(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")
	base := fmt.Sprintf("/api/user-payments/%d", m.ID)

	rec := doRequest(t, router, http.MethodPost, base+"/bulk-pay", map[string]any{
		"payments": []map[string]any{
			{"monthNumber": 1, "amount": 1000, "paymentMethod": "upi"},
			{"monthNumber": 2, "amount": 900, "lateFee": 100},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk-pay: status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[memberResponse](t, rec)
	if !resp.Summary.TotalPaidAmount.Equal(decimal.NewFromInt(1900)) {
		t.Errorf("totalPaidAmount = %s, want 1900", resp.Summary.TotalPaidAmount)
	}

	// One already-paid entry rejects the whole batch.
	rec = doRequest(t, router, http.MethodPost, base+"/bulk-pay", map[string]any{
		"payments": []map[string]any{
			{"monthNumber": 3, "amount": 1000},
			{"monthNumber": 1, "amount": 1000},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("conflicting batch: status %d, want 400", rec.Code)
	}
	hist := decode[historyResponse](t, doRequest(t, router, http.MethodGet, base+"/payment-history", nil))
	if hist.Data.PaidCount != 2 {
		t.Errorf("paidCount = %d, want 2 (no partial batch application)", hist.Data.PaidCount)
	}
}

func TestGetMemberByAadhar(t *testing.T) {
	router := setupRouter(t)
	createMember(t, router, "123456789012", "9876543210")

	rec := doRequest(t, router, http.MethodGet, "/api/user-payments/aadhar/123456789012", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[memberResponse](t, rec)
	if resp.Data.AadharNumber != "123456789012" {
		t.Errorf("aadhar = %s, want 123456789012", resp.Data.AadharNumber)
	}
	if resp.Summary.TotalMonths != 12 {
		t.Errorf("summary totalMonths = %d, want 12", resp.Summary.TotalMonths)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/user-payments/aadhar/000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown aadhar: status = %d, want 404", rec.Code)
	}
}

func TestListMembersPaginationAndSearch(t *testing.T) {
	router := setupRouter(t)
	createMember(t, router, "111111111111", "9000000001")
	createMember(t, router, "222222222222", "9000000002")
	createMember(t, router, "333333333333", "9000000003")

	resp := decode[listResponse](t, doRequest(t, router, http.MethodGet, "/api/user-payments?page=1&limit=2", nil))
	if resp.Count != 2 || resp.Total != 3 || resp.Pages != 2 || resp.CurrentPage != 1 {
		t.Errorf("pagination = count %d total %d pages %d current %d, want 2/3/2/1",
			resp.Count, resp.Total, resp.Pages, resp.CurrentPage)
	}

	resp = decode[listResponse](t, doRequest(t, router, http.MethodGet, "/api/user-payments?search=2222", nil))
	if resp.Total != 1 {
		t.Errorf("search total = %d, want 1", resp.Total)
	}

	resp = decode[listResponse](t, doRequest(t, router, http.MethodGet, "/api/user-payments?search=RAVI", nil))
	if resp.Total != 3 {
		t.Errorf("case-insensitive name search total = %d, want 3", resp.Total)
	}

	resp = decode[listResponse](t, doRequest(t, router, http.MethodGet, "/api/user-payments?aadharNumber=333333333333", nil))
	if resp.Total != 1 || resp.Data[0].AadharNumber != "333333333333" {
		t.Errorf("aadhar filter returned %d members", resp.Total)
	}
}

func TestUpdateMemberPatch(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/user-payments/%d", m.ID), map[string]any{
		"memberName": "Ravi K",
		"status":     "cancelled",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[memberResponse](t, rec)
	if resp.Data.MemberName != "Ravi K" || resp.Data.Status != "cancelled" {
		t.Errorf("patch not applied: name=%s status=%s", resp.Data.MemberName, resp.Data.Status)
	}
	// Untouched fields survive.
	if resp.Data.PhoneNumber != "9876543210" {
		t.Errorf("phone changed unexpectedly to %s", resp.Data.PhoneNumber)
	}
	// Summary fields stay derived: still zero with no payments.
	if resp.Data.CompletedMonths != 0 || resp.Data.PendingMonths != 12 {
		t.Errorf("derived fields wrong after patch: %d/%d", resp.Data.CompletedMonths, resp.Data.PendingMonths)
	}
}

func TestDeleteMember(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")
	path := fmt.Sprintf("/api/user-payments/%d", m.ID)

	rec := doRequest(t, router, http.MethodDelete, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
	rec = doRequest(t, router, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", rec.Code)
	}
}

func TestCompletionViaPayments(t *testing.T) {
	router := setupRouter(t)

	body := memberBody("123456789012", "9876543210")
	body["chitAmount"] = 3000
	body["tenure"] = 3
	rec := doRequest(t, router, http.MethodPost, "/api/user-payments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}
	m := decode[memberResponse](t, rec).Data

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/user-payments/%d/pay", m.ID), map[string]any{
		"monthNumbers": []int{1, 2, 3},
		"amount":       3000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[memberResponse](t, rec)
	if resp.Data.Status != "completed" {
		t.Errorf("status = %s, want completed", resp.Data.Status)
	}
}

func TestDashboard(t *testing.T) {
	router := setupRouter(t)
	m := createMember(t, router, "123456789012", "9876543210")
	doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/user-payments/%d/pay", m.ID), map[string]any{
		"monthNumbers": []int{1},
		"amount":       1000,
	})

	rec := doRequest(t, router, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			TotalMembers   int             `json:"total_members"`
			ActiveMembers  int             `json:"active_members"`
			TotalPayments  int             `json:"total_payments"`
			TotalCollected decimal.Decimal `json:"total_collected"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Data.TotalMembers != 1 || resp.Data.TotalPayments != 1 {
		t.Errorf("counts = %d members / %d payments, want 1/1",
			resp.Data.TotalMembers, resp.Data.TotalPayments)
	}
	if !resp.Data.TotalCollected.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("totalCollected = %s, want 1000", resp.Data.TotalCollected)
	}
}

func TestUnmatchedRouteReturnsJSON404(t *testing.T) {
	router := setupRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/no-such-route", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decode[memberResponse](t, rec); resp.Error == "" {
		t.Errorf("body %s is not the JSON error envelope", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

package handlers

import (
	"fmt"
	"strings"

	"github.com/shivareddy1287/ims-backend/ledger"
	"github.com/shivareddy1287/ims-backend/models"
)

const memberSelectQuery = `SELECT id, member_name, aadhar_number, phone_number, email,
	address_street, address_city, address_state, address_pincode,
	chit_amount, tenure, monthly_premium, start_date, end_date, status,
	total_paid_amount, completed_months, pending_months, last_payment_date,
	created_at, updated_at
	FROM members`

const recordSelectQuery = `SELECT id, member_id, month_number, amount, payment_date, due_date,
	status, payment_method, transaction_id, remarks, late_fee, created_at
	FROM payment_records`

func scanMember(scanner interface{ Scan(...any) error }) (models.MemberAccount, error) {
	var m models.MemberAccount
	err := scanner.Scan(&m.ID, &m.MemberName, &m.AadharNumber, &m.PhoneNumber, &m.Email,
		&m.Address.Street, &m.Address.City, &m.Address.State, &m.Address.Pincode,
		&m.ChitAmount, &m.Tenure, &m.MonthlyPremium, &m.StartDate, &m.EndDate, &m.Status,
		&m.TotalPaidAmount, &m.CompletedMonths, &m.PendingMonths, &m.LastPaymentDate,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func scanRecord(scanner interface{ Scan(...any) error }) (models.PaymentRecord, error) {
	var r models.PaymentRecord
	err := scanner.Scan(&r.ID, &r.MemberID, &r.MonthNumber, &r.Amount, &r.PaymentDate,
		&r.DueDate, &r.Status, &r.PaymentMethod, &r.TransactionID, &r.Remarks,
		&r.LateFee, &r.CreatedAt)
	return r, err
}

// loadRecords attaches the account's payment records in arrival order.
func loadRecords(m *models.MemberAccount) error {
	rows, err := DB.Query(recordSelectQuery+" WHERE member_id = ? ORDER BY id", m.ID)
	if err != nil {
		return fmt.Errorf("loading payment records: %w", err)
	}
	defer rows.Close()

	m.PaymentRecords = []models.PaymentRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return fmt.Errorf("scanning payment record: %w", err)
		}
		m.PaymentRecords = append(m.PaymentRecords, r)
	}
	return rows.Err()
}

func getMemberByID(id int) (models.MemberAccount, error) {
	m, err := scanMember(DB.QueryRow(memberSelectQuery+" WHERE id = ?", id))
	if err != nil {
		return m, err
	}
	return m, loadRecords(&m)
}

func getMemberByAadhar(aadhar string) (models.MemberAccount, error) {
	m, err := scanMember(DB.QueryRow(memberSelectQuery+" WHERE aadhar_number = ?", aadhar))
	if err != nil {
		return m, err
	}
	return m, loadRecords(&m)
}

// insertMember runs the derivation pass and creates the member row.
func insertMember(m *models.MemberAccount) error {
	ledger.Derive(m)
	return DB.QueryRow(`INSERT INTO members (member_name, aadhar_number, phone_number, email,
		address_street, address_city, address_state, address_pincode,
		chit_amount, tenure, monthly_premium, start_date, end_date, status,
		total_paid_amount, completed_months, pending_months, last_payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		m.MemberName, m.AadharNumber, m.PhoneNumber, m.Email,
		m.Address.Street, m.Address.City, m.Address.State, m.Address.Pincode,
		m.ChitAmount, m.Tenure, m.MonthlyPremium, m.StartDate, m.EndDate, m.Status,
		m.TotalPaidAmount, m.CompletedMonths, m.PendingMonths, m.LastPaymentDate).Scan(&m.ID)
}

// saveMember runs the derivation pass and persists the account plus any
// not-yet-stored payment records in a single transaction, so the cached
// summary can never land out of sync with the records it was derived from.
func saveMember(m *models.MemberAccount) error {
	ledger.Derive(m)

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range m.PaymentRecords {
		r := &m.PaymentRecords[i]
		if r.ID != 0 {
			continue
		}
		r.MemberID = m.ID
		err := tx.QueryRow(`INSERT INTO payment_records (member_id, month_number, amount,
			payment_date, due_date, status, payment_method, transaction_id, remarks, late_fee)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			r.MemberID, r.MonthNumber, r.Amount, r.PaymentDate, r.DueDate, r.Status,
			r.PaymentMethod, r.TransactionID, r.Remarks, r.LateFee).Scan(&r.ID)
		if err != nil {
			return fmt.Errorf("inserting payment record: %w", err)
		}
	}

	_, err = tx.Exec(`UPDATE members SET member_name = ?, aadhar_number = ?, phone_number = ?,
		email = ?, address_street = ?, address_city = ?, address_state = ?, address_pincode = ?,
		chit_amount = ?, tenure = ?, monthly_premium = ?, start_date = ?, end_date = ?,
		status = ?, total_paid_amount = ?, completed_months = ?, pending_months = ?,
		last_payment_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		m.MemberName, m.AadharNumber, m.PhoneNumber, m.Email,
		m.Address.Street, m.Address.City, m.Address.State, m.Address.Pincode,
		m.ChitAmount, m.Tenure, m.MonthlyPremium, m.StartDate, m.EndDate,
		m.Status, m.TotalPaidAmount, m.CompletedMonths, m.PendingMonths,
		m.LastPaymentDate, m.ID)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is the store's duplicate-aadhar
// constraint signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

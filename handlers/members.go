package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shivareddy1287/ims-backend/ledger"
	"github.com/shivareddy1287/ims-backend/models"
)

// CreateMember creates a member account
// @Summary      Create member account
// @Description  Enroll a member with contract terms; monthlyPremium and endDate are derived when absent.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        member  body      models.MemberInput  true  "Member contents"
// @Success      201     {object}  Response{data=models.MemberAccount}
// @Failure      400     {object}  Response{error=string}
// @Router       /user-payments [post]
// @Security     BasicAuth
func CreateMember(w http.ResponseWriter, r *http.Request) {
	var input models.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	startDate, _ := time.Parse("2006-01-02", input.StartDate)
	m := models.MemberAccount{
		MemberName:     input.MemberName,
		AadharNumber:   input.AadharNumber,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		Address:        input.Address,
		ChitAmount:     input.ChitAmount,
		Tenure:         input.Tenure,
		MonthlyPremium: input.MonthlyPremium,
		StartDate:      startDate,
	}
	if input.EndDate != "" {
		m.EndDate, _ = time.Parse("2006-01-02", input.EndDate)
	}

	if err := insertMember(&m); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, "member with aadhar number "+m.AadharNumber+" already exists")
			return
		}
		writeInternalError(w, err)
		return
	}

	created, err := getMemberByID(m.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "member account created",
		Data:    created,
	})
}

// ListMembers lists member accounts
// @Summary      List member accounts
// @Description  Paginated list with optional status filter and case-insensitive search across name, aadhar, phone, and email.
// @Tags         members
// @Produce      json
// @Param        status        query     string  false  "Filter by status"
// @Param        aadharNumber  query     string  false  "Filter by exact aadhar number"
// @Param        search        query     string  false  "Substring search"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Page size (default 10)"
// @Success      200           {object}  ListResponse{data=[]models.MemberAccount}
// @Router       /user-payments [get]
// @Security     BasicAuth
func ListMembers(w http.ResponseWriter, r *http.Request) {
	var conditions []string
	var args []any

	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, s)
	}
	if a := r.URL.Query().Get("aadharNumber"); a != "" {
		conditions = append(conditions, "aadhar_number = ?")
		args = append(args, a)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions,
			"(LOWER(member_name) LIKE ? OR aadhar_number LIKE ? OR phone_number LIKE ? OR LOWER(email) LIKE ?)")
		s := "%" + strings.ToLower(search) + "%"
		args = append(args, s, s, s, s)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := DB.QueryRow("SELECT COUNT(*) FROM members"+where, args...).Scan(&total); err != nil {
		writeInternalError(w, err)
		return
	}

	query := memberSelectQuery + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := DB.Query(query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	defer rows.Close()

	members := []models.MemberAccount{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			writeInternalError(w, err)
			return
		}
		members = append(members, m)
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success:     true,
		Data:        members,
		Count:       len(members),
		Total:       total,
		Pages:       (total + limit - 1) / limit,
		CurrentPage: page,
	})
}

// GetMember retrieves a member account by ID
// @Summary      Get member account
// @Description  Get one member account with its payment records and derived summary.
// @Tags         members
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  Response{data=models.MemberAccount,summary=models.Summary}
// @Failure      404  {object}  Response{error=string}
// @Router       /user-payments/{id} [get]
// @Security     BasicAuth
func GetMember(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	m, err := getMemberByID(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    m,
		Summary: ledger.Summarize(&m),
	})
}

// GetMemberByAadhar retrieves a member account by aadhar number
// @Summary      Get member account by aadhar
// @Description  Get one member account by its 12-digit aadhar number, with records and summary.
// @Tags         members
// @Produce      json
// @Param        aadharNumber  path      string  true  "Aadhar number"
// @Success      200           {object}  Response{data=models.MemberAccount,summary=models.Summary}
// @Failure      404           {object}  Response{error=string}
// @Router       /user-payments/aadhar/{aadharNumber} [get]
// @Security     BasicAuth
func GetMemberByAadhar(w http.ResponseWriter, r *http.Request) {
	m, err := getMemberByAadhar(chi.URLParam(r, "aadharNumber"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    m,
		Summary: ledger.Summarize(&m),
	})
}

// UpdateMember applies a field-level patch to a member account
// @Summary      Update member account
// @Description  Administrative patch: only supplied fields change, and the summary fields are re-derived on save.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Member ID"
// @Param        member  body      models.MemberPatch  true  "Fields to update"
// @Success      200     {object}  Response{data=models.MemberAccount}
// @Failure      404     {object}  Response{error=string}
// @Router       /user-payments/{id} [put]
// @Security     BasicAuth
func UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var patch models.MemberPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, err := getMemberByID(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	applyPatch(&m, &patch)

	if err := saveMember(&m); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, "member with aadhar number "+m.AadharNumber+" already exists")
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "member account updated",
		Data:    m,
	})
}

func applyPatch(m *models.MemberAccount, p *models.MemberPatch) {
	if p.MemberName != nil {
		m.MemberName = *p.MemberName
	}
	if p.AadharNumber != nil {
		m.AadharNumber = *p.AadharNumber
	}
	if p.PhoneNumber != nil {
		m.PhoneNumber = *p.PhoneNumber
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.ChitAmount != nil {
		m.ChitAmount = *p.ChitAmount
	}
	if p.Tenure != nil {
		m.Tenure = *p.Tenure
	}
	if p.MonthlyPremium != nil {
		m.MonthlyPremium = *p.MonthlyPremium
	}
	if p.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *p.StartDate); err == nil {
			m.StartDate = t
		}
	}
	if p.EndDate != nil {
		if t, err := time.Parse("2006-01-02", *p.EndDate); err == nil {
			m.EndDate = t
		}
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

// DeleteMember hard-deletes a member account
// @Summary      Delete member account
// @Description  Remove a member account and its payment records.
// @Tags         members
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  Response{message=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /user-payments/{id} [delete]
// @Security     BasicAuth
func DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM members WHERE id = ?", id)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "member account deleted"})
}

// loadForUpdate is a small helper shared by the payment endpoints: it loads
// the account or reports 404/500, returning ok=false when it already wrote
// a response.
func loadForUpdate(w http.ResponseWriter, r *http.Request) (models.MemberAccount, bool) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	m, err := getMemberByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "member not found")
		} else {
			writeInternalError(w, err)
		}
		return m, false
	}
	return m, true
}

// Package interchange moves roster and record data in and out of the store
// as CSV and Excel files. Imports are forgiving: duplicate ids are skipped,
// missing ids are generated, and loosely spelled values are normalized.
// Exports always write the full column set.
package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/faculty"
	"github.com/school-hub/school-admin-hub/internal/domain/fees"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/metrics"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

// ImportSummary reports what an import run did.
type ImportSummary struct {
	Imported int
	Skipped  int
	// Notes carries one human-readable line per skipped or repaired row.
	Notes []string
}

func (s *ImportSummary) note(format string, args ...any) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}

// ═══════════════════════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════════════════════

var studentFixedHeaders = []string{
	"Student ID", "Name", "Class", "Phone", "Email", "Fee_status", "Paid Amount",
}

// ExportStudentsCSV writes the roster with one column per subject seen
// across all students, plus the derived grade.
func ExportStudentsCSV(w io.Writer, s *store.Store) error {
	subjects := collectSubjects(s.Students)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, studentFixedHeaders...), subjects...)
	header = append(header, "Grade")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, stu := range s.Students {
		row := []string{
			stu.ID, stu.Name, stu.ClassSection,
			stu.Contact.Phone, stu.Contact.Email,
			string(stu.FeeStatus), formatFloat(stu.PaidAmount),
		}
		for _, subject := range subjects {
			if mark, ok := stu.Marks[subject]; ok {
				row = append(row, formatFloat(mark))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, metrics.StudentGrade(stu))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportStudentsCSV reads a roster export back in. Rows whose id already
// exists are skipped; rows without an id get a fresh one. Columns beyond the
// fixed set are treated as subject marks when the cell parses as a number;
// the Grade column is derived and therefore ignored.
func ImportStudentsCSV(r io.Reader, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary
	rows, header, err := readAll(r)
	if err != nil {
		return summary, err
	}
	col := indexHeader(header)

	for i, row := range rows {
		id := cell(row, col.at("student id"))
		if id != "" && hasStudent(s, id) {
			summary.Skipped++
			summary.note("row %d: student %s already exists, skipped", i+2, id)
			continue
		}
		name := cell(row, col.at("name"))
		if name == "" {
			summary.Skipped++
			summary.note("row %d: missing name, skipped", i+2)
			continue
		}
		if id == "" {
			id = s.Registry().NextID(registry.KindStudent, func(candidate string) bool {
				return hasStudent(s, candidate)
			})
			summary.note("row %d: generated id %s", i+2, id)
		}

		stu := student.New(id, name, importContact(row, col, &summary, i+2), cell(row, col.at("class")))
		switch strings.ToLower(cell(row, col.at("fee_status"))) {
		case "paid":
			stu.FeeStatus = student.FeePaid
		case "pending":
			stu.FeeStatus = student.FeePending
		}
		if paid, perr := strconv.ParseFloat(cell(row, col.at("paid amount")), 64); perr == nil {
			stu.PaidAmount = paid
		}
		for j, h := range header {
			if isFixedStudentColumn(h) || j >= len(row) {
				continue
			}
			if mark, merr := strconv.ParseFloat(strings.TrimSpace(row[j]), 64); merr == nil {
				_ = stu.SetMark(strings.TrimSpace(h), mark)
			}
		}

		s.AttachStudent(stu)
		summary.Imported++
	}
	finishImport(s, &summary)
	return summary, nil
}

func isFixedStudentColumn(h string) bool {
	h = strings.ToLower(strings.TrimSpace(h))
	for _, fixed := range studentFixedHeaders {
		if h == strings.ToLower(fixed) {
			return true
		}
	}
	return h == "grade"
}

func collectSubjects(students []*student.Student) []string {
	seen := make(map[string]bool)
	for _, stu := range students {
		for subject := range stu.Marks {
			seen[subject] = true
		}
	}
	subjects := make([]string, 0, len(seen))
	for subject := range seen {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// ═══════════════════════════════════════════════════════════════════════════
// Teachers
// ═══════════════════════════════════════════════════════════════════════════

var teacherHeaders = []string{
	"Teacher ID", "Name", "Role_Description", "Phone", "Email", "Subjects",
}

// ExportTeachersCSV writes the faculty roster. Subjects are joined with
// commas inside one quoted cell.
func ExportTeachersCSV(w io.Writer, s *store.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(teacherHeaders); err != nil {
		return err
	}
	for _, t := range s.Teachers {
		row := []string{
			t.ID, t.Name, t.RoleDescription,
			t.Contact.Phone, t.Contact.Email,
			strings.Join(t.Subjects, ", "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportTeachersCSV reads a faculty export back in with the same duplicate
// and missing-id handling as the student import.
func ImportTeachersCSV(r io.Reader, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary
	rows, header, err := readAll(r)
	if err != nil {
		return summary, err
	}
	col := indexHeader(header)

	for i, row := range rows {
		id := cell(row, col.at("teacher id"))
		if id != "" {
			if _, ferr := s.FindTeacher(id); ferr == nil {
				summary.Skipped++
				summary.note("row %d: teacher %s already exists, skipped", i+2, id)
				continue
			}
		}
		name := cell(row, col.at("name"))
		if name == "" {
			summary.Skipped++
			summary.note("row %d: missing name, skipped", i+2)
			continue
		}
		if id == "" {
			id = s.Registry().NextID(registry.KindTeacher, func(candidate string) bool {
				_, ferr := s.FindTeacher(candidate)
				return ferr == nil
			})
			summary.note("row %d: generated id %s", i+2, id)
		}

		subjects := splitList(cell(row, col.at("subjects")))
		t := faculty.New(id, name, importContact(row, col, &summary, i+2), subjects)
		if desc := cell(row, col.at("role_description")); desc != "" {
			t.RoleDescription = desc
		}
		s.AttachTeacher(t)
		summary.Imported++
	}
	finishImport(s, &summary)
	return summary, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════════════════════

var attendanceHeaders = []string{"Date", "Student ID", "Name", "Status"}

// ExportAttendanceCSV writes every recorded cell as one row, dates ascending.
func ExportAttendanceCSV(w io.Writer, s *store.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attendanceHeaders); err != nil {
		return err
	}
	for _, date := range s.Attendance.Dates() {
		sids := make([]string, 0, len(s.Attendance[date]))
		for sid := range s.Attendance[date] {
			sids = append(sids, sid)
		}
		sort.Strings(sids)
		for _, sid := range sids {
			row := []string{date, sid, s.StudentName(sid), string(s.Attendance[date][sid])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportAttendanceCSV reads attendance rows back in. Statuses are matched
// leniently (p/present, a/absent); rows with unknown students, bad dates, or
// unknown statuses are skipped with a note.
func ImportAttendanceCSV(r io.Reader, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary
	rows, header, err := readAll(r)
	if err != nil {
		return summary, err
	}
	col := indexHeader(header)

	for i, row := range rows {
		date := cell(row, col.at("date"))
		sid := cell(row, col.at("student id"))
		status := NormalizeStatus(cell(row, col.at("status")))

		if !hasStudent(s, sid) {
			summary.Skipped++
			summary.note("row %d: unknown student %q, skipped", i+2, sid)
			continue
		}
		if err := s.MarkAttendance(date, sid, status); err != nil {
			summary.Skipped++
			summary.note("row %d: %v", i+2, err)
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

// NormalizeStatus maps loose spellings (p, present, A) onto the canonical
// attendance statuses. Unknown inputs pass through and fail validation later.
func NormalizeStatus(raw string) attendance.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "p":
		return attendance.Present
	case "absent", "a":
		return attendance.Absent
	}
	return attendance.Status(strings.TrimSpace(raw))
}

// ═══════════════════════════════════════════════════════════════════════════
// Exams and fee transactions
// ═══════════════════════════════════════════════════════════════════════════

var examHeaders = []string{
	"Exam ID", "Exam Name", "Class", "Subject", "Date", "Max Marks", "Allow Bonus",
}

// ExportExamsCSV writes the exam schedule without per-student results.
func ExportExamsCSV(w io.Writer, s *store.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(examHeaders); err != nil {
		return err
	}
	for _, e := range s.Exams {
		row := []string{
			e.ID, e.Name, e.ClassSection, e.Subject, e.Date,
			formatFloat(e.MaxMarks), strconv.FormatBool(e.AllowBonus),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportExamsCSV reads a schedule export back in. Duplicate exam ids are
// skipped; missing ids are generated by AddExam.
func ImportExamsCSV(r io.Reader, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary
	rows, header, err := readAll(r)
	if err != nil {
		return summary, err
	}
	col := indexHeader(header)

	for i, row := range rows {
		name := cell(row, col.at("exam name"))
		if name == "" {
			summary.Skipped++
			summary.note("row %d: missing exam name, skipped", i+2)
			continue
		}
		maxMarks, _ := strconv.ParseFloat(cell(row, col.at("max marks")), 64)
		allowBonus := strings.EqualFold(cell(row, col.at("allow bonus")), "true")

		_, aerr := s.AddExam(
			cell(row, col.at("exam id")), name,
			cell(row, col.at("class")), cell(row, col.at("subject")),
			cell(row, col.at("date")), maxMarks, allowBonus,
		)
		if aerr != nil {
			summary.Skipped++
			summary.note("row %d: %v", i+2, aerr)
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

var feeTransactionHeaders = []string{"Student ID", "Name", "Amount", "Date", "Method"}

// ExportFeeTransactionsCSV writes the payment log in recorded order.
func ExportFeeTransactionsCSV(w io.Writer, s *store.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(feeTransactionHeaders); err != nil {
		return err
	}
	for _, txn := range s.FeeTransactions {
		row := []string{
			txn.StudentID, s.StudentName(txn.StudentID),
			formatFloat(txn.Amount), txn.Date, txn.Method,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportFeeTransactionsCSV appends rows to the payment log. The log is the
// source of record here; student paid amounts are left alone so a re-import
// cannot double-count money.
func ImportFeeTransactionsCSV(r io.Reader, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary
	rows, header, err := readAll(r)
	if err != nil {
		return summary, err
	}
	col := indexHeader(header)

	for i, row := range rows {
		sid := cell(row, col.at("student id"))
		amount, perr := strconv.ParseFloat(cell(row, col.at("amount")), 64)
		if perr != nil || amount < 0 {
			summary.Skipped++
			summary.note("row %d: bad amount %q, skipped", i+2, cell(row, col.at("amount")))
			continue
		}
		s.AppendFeeTransaction(fees.Transaction{
			StudentID: sid,
			Amount:    amount,
			Date:      cell(row, col.at("date")),
			Method:    cell(row, col.at("method")),
		})
		summary.Imported++
	}
	return summary, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Shared helpers
// ═══════════════════════════════════════════════════════════════════════════

func readAll(r io.Reader) (rows [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[1:], all[0], nil
}

// headerIndex maps lowercased header names to their column index.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	col := make(headerIndex, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

// at returns the column index for a header name, or -1 when absent.
func (h headerIndex) at(name string) int {
	if i, ok := h[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// importContact builds a contact from the row, dropping malformed fields
// with a note so one bad cell never blocks the whole person.
func importContact(row []string, col headerIndex, summary *ImportSummary, rowNum int) shared.Contact {
	c := shared.Contact{
		Phone: cell(row, col.at("phone")),
		Email: cell(row, col.at("email")),
	}
	if c.Phone != "" && !shared.ValidPhone(c.Phone) {
		summary.note("row %d: dropped invalid phone %q", rowNum, c.Phone)
		c.Phone = ""
	}
	if c.Email != "" && !shared.ValidEmail(c.Email) {
		summary.note("row %d: dropped invalid email %q", rowNum, c.Email)
		c.Email = ""
	}
	return c
}

func hasStudent(s *store.Store, id string) bool {
	_, err := s.FindStudent(id)
	return err == nil
}

func finishImport(s *store.Store, summary *ImportSummary) {
	if summary.Imported > 0 {
		s.MarkDirty()
		s.ResyncIDs()
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

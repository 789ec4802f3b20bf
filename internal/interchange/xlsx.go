package interchange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/metrics"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

// ImportStudentsXLSX reads a student roster from the first sheet of an Excel
// workbook. The column semantics match the CSV import: a header row, fixed
// columns matched by name, extra columns treated as subject marks.
func ImportStudentsXLSX(path string, s *store.Store) (ImportSummary, error) {
	var summary ImportSummary

	f, err := excelize.OpenFile(path)
	if err != nil {
		return summary, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return summary, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return summary, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return summary, nil
	}

	header := rows[0]
	col := indexHeader(header)
	for i, row := range rows[1:] {
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

// ExportAttendanceXLSX writes the attendance sheet as a workbook: one row
// per student, one column per recorded date, plus a percentage column.
// Cells show P or A; a blank cell means no record for that date.
func ExportAttendanceXLSX(path string, s *store.Store) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	dates := s.Attendance.Dates()
	header := []any{"Student ID", "Name"}
	for _, d := range dates {
		header = append(header, d)
	}
	header = append(header, "Attendance %")
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, stu := range s.Students {
		row := []any{stu.ID, stu.Name}
		for _, d := range dates {
			switch s.Attendance[d][stu.ID] {
			case "Present":
				row = append(row, "P")
			case "Absent":
				row = append(row, "A")
			default:
				row = append(row, "")
			}
		}
		summary := metrics.AttendanceFor(s.Attendance, stu.ID)
		if summary.Available {
			row = append(row, fmt.Sprintf("%.2f", summary.Percentage))
		} else {
			row = append(row, metrics.GradeNotAvailable)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// ExportStudentsXLSX writes the roster as a workbook with the same columns
// as the CSV export.
func ExportStudentsXLSX(path string, s *store.Store) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	subjects := collectSubjects(s.Students)
	header := make([]any, 0, len(studentFixedHeaders)+len(subjects)+1)
	for _, h := range studentFixedHeaders {
		header = append(header, h)
	}
	for _, subject := range subjects {
		header = append(header, subject)
	}
	header = append(header, "Grade")
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, stu := range s.Students {
		row := []any{
			stu.ID, stu.Name, stu.ClassSection,
			stu.Contact.Phone, stu.Contact.Email,
			string(stu.FeeStatus), stu.PaidAmount,
		}
		for _, subject := range subjects {
			if mark, ok := stu.Marks[subject]; ok {
				row = append(row, mark)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, metrics.StudentGrade(stu))
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, ref, &values)
}

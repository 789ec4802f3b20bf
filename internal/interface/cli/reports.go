package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/school-hub/school-admin-hub/internal/domain/exam"
	"github.com/school-hub/school-admin-hub/internal/domain/faculty"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/metrics"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *App) renderStudents(students []*student.Student) {
	if len(students) == 0 {
		a.showf("No students.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tName\tClass\tPhone\tEmail\tFees\tGrade")
	for _, stu := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			stu.ID, stu.Name, stu.ClassSection,
			stu.Contact.Phone, stu.Contact.Email,
			stu.FeeStatus, metrics.StudentGrade(stu))
	}
	tw.Flush()
}

func (a *App) renderTeachers(teachers []*faculty.Teacher) {
	if len(teachers) == 0 {
		a.showf("No teachers.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tName\tRole\tPhone\tSubjects")
	for _, t := range teachers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.RoleDescription, t.Contact.Phone,
			strings.Join(t.Subjects, ", "))
	}
	tw.Flush()
}

func (a *App) renderAdmins() {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tName\tUsername\tRole")
	for _, adm := range a.store.Admins {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", adm.ID, adm.Name, adm.Username, adm.Role)
	}
	tw.Flush()
}

func (a *App) renderExams(exams []*exam.Exam) {
	if len(exams) == 0 {
		a.showf("No exams.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tName\tClass\tSubject\tDate\tMax\tBonus\tResults")
	for _, e := range exams {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%g\t%t\t%d\n",
			e.ID, e.Name, e.ClassSection, e.Subject, e.Date,
			e.MaxMarks, e.AllowBonus, len(e.Results))
	}
	tw.Flush()
}

// renderExamReport lists every recorded result of one exam, best first.
func (a *App) renderExamReport(examID string) {
	e, err := a.store.FindExam(examID)
	if err != nil {
		a.showErr(err)
		return
	}
	a.showf("%s - %s (%s, %s), max %g", e.ID, e.Name, e.ClassSection, e.Subject, e.MaxMarks)
	if len(e.Results) == 0 {
		a.showf("No results recorded.")
		return
	}

	sids := make([]string, 0, len(e.Results))
	for sid := range e.Results {
		sids = append(sids, sid)
	}
	sort.Slice(sids, func(i, j int) bool {
		ri, rj := e.Results[sids[i]], e.Results[sids[j]]
		return ri.Marks+ri.Bonus > rj.Marks+rj.Bonus
	})

	tw := a.table()
	fmt.Fprintln(tw, "Student\tName\tMarks\tBonus\tTotal\t%")
	for _, sid := range sids {
		res := e.Results[sid]
		total := res.Marks + res.Bonus
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%.2f\n",
			sid, a.store.StudentName(sid), res.Marks, res.Bonus, total,
			total/e.MaxMarks*100)
	}
	tw.Flush()
}

func (a *App) renderStudentMarks(stu *student.Student) {
	if len(stu.Marks) == 0 {
		a.showf("No marks recorded. Grade: %s", metrics.GradeNotAvailable)
		return
	}
	subjects := make([]string, 0, len(stu.Marks))
	for subject := range stu.Marks {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	tw := a.table()
	fmt.Fprintln(tw, "Subject\tMarks")
	for _, subject := range subjects {
		fmt.Fprintf(tw, "%s\t%g\n", subject, stu.Marks[subject])
	}
	tw.Flush()
	avg, _ := stu.AverageMarks()
	a.showf("Average: %.2f  Grade: %s", avg, metrics.StudentGrade(stu))
}

func (a *App) renderAttendanceHistory(studentID string) {
	history := a.store.Attendance.HistoryFor(studentID)
	summary := metrics.AttendanceFor(a.store.Attendance, studentID)
	if !summary.Available {
		a.showf("No attendance recorded for %s.", studentID)
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "Date\tStatus")
	for _, rec := range history {
		fmt.Fprintf(tw, "%s\t%s\n", rec.Date, rec.Status)
	}
	tw.Flush()
	a.showf("Present %d of %d days (%.2f%%).", summary.Present, summary.Recorded, summary.Percentage)
}

func (a *App) renderExamPerformance(studentID string) {
	p := metrics.ExamPerformanceFor(a.store.Exams, studentID)
	if !p.Available {
		a.showf("No exam results recorded.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "Exam\tSubject\tDate\tMarks\tBonus\tMax")
	for _, entry := range p.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%g\n",
			entry.ExamName, entry.Subject, entry.Date,
			entry.Marks, entry.Bonus, entry.MaxMarks)
	}
	tw.Flush()
	a.showf("Weighted: %.2f%% (%g of %g)", p.Percentage, p.Obtained, p.Possible)
}

func (a *App) renderPendingFees() {
	alerts := metrics.PendingFeeAlerts(a.store)
	if len(alerts) == 0 {
		a.showf("No pending fees.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "Student\tName\tDetail")
	for _, alert := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", alert.StudentID, alert.StudentName, alert.Detail)
	}
	tw.Flush()
}

// ═══════════════════════════════════════════════════════════════════════════
// Reports menu
// ═══════════════════════════════════════════════════════════════════════════

func (a *App) reportsMenu() {
	for {
		a.showf("\n─── Reports ───")
		a.showf("1. Dashboard  2. Class report  3. Student report  4. Top students  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.renderDashboard()
		case "2":
			class, err := a.prompt("Class-section: ")
			if err != nil {
				return
			}
			a.renderClassReport(class)
		case "3":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			a.renderStudentReport(strings.ToUpper(id))
		case "4":
			limit, err := a.promptFloat("How many (default 5): ", 5)
			if err != nil {
				a.showErr(err)
				continue
			}
			a.renderTopStudents(int(limit))
		case "0":
			return
		}
	}
}

func (a *App) renderDashboard() {
	d := metrics.Dashboard(a.store, time.Now())
	a.showf("Students: %d  Teachers: %d  Exams: %d  Attendance days: %d",
		d.Students, d.Teachers, d.Exams, d.AttendanceDates)
	if d.AttendanceDates > 0 {
		a.showf("Overall attendance: %.2f%% present", d.OverallPresentPct)
	}

	if len(d.Upcoming) > 0 {
		a.showf("\nUpcoming exams (next 7 days):")
		for _, e := range d.Upcoming {
			a.showf("  %s  %s (%s, %s)", e.Date, e.Name, e.ClassSection, e.Subject)
		}
	}
	if len(d.LowAttendance) > 0 {
		a.showf("\nLow attendance (< %.0f%%):", metrics.LowAttendanceThreshold)
		for _, alert := range d.LowAttendance {
			a.showf("  %s %s - %s", alert.StudentID, alert.StudentName, alert.Detail)
		}
	}
	if len(d.PendingFees) > 0 {
		a.showf("\nPending fees:")
		for _, alert := range d.PendingFees {
			a.showf("  %s %s - %s", alert.StudentID, alert.StudentName, alert.Detail)
		}
	}
}

func (a *App) renderClassReport(class string) {
	students := a.store.StudentsInClass(class)
	if len(students) == 0 {
		a.showf("No students in %s.", class)
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tName\tAvg\tGrade\tAttendance\tFees")
	for _, stu := range students {
		avg := "-"
		if v, ok := stu.AverageMarks(); ok {
			avg = fmt.Sprintf("%.2f", v)
		}
		att := metrics.GradeNotAvailable
		if summary := metrics.AttendanceFor(a.store.Attendance, stu.ID); summary.Available {
			att = fmt.Sprintf("%.2f%%", summary.Percentage)
		}
		fees := "OK"
		if _, pending := metrics.FeeOutstanding(a.store, stu); pending {
			fees = "Pending"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			stu.ID, stu.Name, avg, metrics.StudentGrade(stu), att, fees)
	}
	tw.Flush()
}

func (a *App) renderStudentReport(id string) {
	stu, err := a.store.FindStudent(id)
	if err != nil {
		a.showErr(err)
		return
	}
	a.showf("%s - %s (%s)", stu.ID, stu.Name, stu.ClassSection)
	a.renderStudentMarks(stu)
	a.renderAttendanceHistory(stu.ID)
	a.renderExamPerformance(stu.ID)
	a.renderStudentFees(stu)
}

func (a *App) renderTopStudents(limit int) {
	ranked := metrics.TopStudents(a.store, limit)
	if len(ranked) == 0 {
		a.showf("No marks recorded yet.")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "#\tID\tName\tAvg\tGrade")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n",
			i+1, r.Student.ID, r.Student.Name, r.Average, r.Grade)
	}
	tw.Flush()
}

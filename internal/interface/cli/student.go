package cli

import (
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/metrics"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

func (a *App) runStudentMenu(stu *student.Student, log *logger.Logger) {
	for {
		a.showf("\n─── Student: %s (%s) ───", stu.Name, stu.ID)
		a.showf("1. My profile")
		a.showf("2. My marks and grade")
		a.showf("3. My attendance")
		a.showf("4. My exam performance")
		a.showf("5. My fees")
		a.showf("6. Change password")
		a.showf("0. Logout")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.showf("ID:     %s", stu.ID)
			a.showf("Name:   %s", stu.Name)
			a.showf("Class:  %s", stu.ClassSection)
			a.showf("Phone:  %s", stu.Contact.Phone)
			a.showf("Email:  %s", stu.Contact.Email)
		case "2":
			a.renderStudentMarks(stu)
		case "3":
			a.renderAttendanceHistory(stu.ID)
		case "4":
			a.renderExamPerformance(stu.ID)
		case "5":
			a.renderStudentFees(stu)
		case "6":
			a.changeStudentPassword(stu, log)
		case "0":
			return
		}
	}
}

func (a *App) renderStudentFees(stu *student.Student) {
	due, pending := metrics.FeeOutstanding(a.store, stu)
	a.showf("Status:      %s", stu.FeeStatus)
	a.showf("Paid so far: %.2f", stu.PaidAmount)
	if amount, ok := a.store.FeeStructure.AmountFor(stu.ClassSection); ok {
		a.showf("Class fee:   %.2f", amount)
	}
	if pending {
		if due > 0 {
			a.showf("Outstanding: %.2f", due)
		} else {
			a.showf("Fees pending.")
		}
	} else {
		a.showf("Nothing outstanding.")
	}
}

func (a *App) changeStudentPassword(stu *student.Student, log *logger.Logger) {
	current, err := a.readPassword("Current password: ")
	if err != nil {
		return
	}
	if !shared.VerifyPassword(stu.PasswordHash, current) {
		a.showf("Current password incorrect.")
		return
	}
	next, err := a.readPassword("New password: ")
	if err != nil {
		return
	}
	if len(next) < shared.MinPasswordLength {
		a.showf("Password must be at least %d characters.", shared.MinPasswordLength)
		return
	}
	hash, err := shared.HashPassword(next)
	if err != nil {
		a.showErr(err)
		return
	}
	stu.PasswordHash = hash
	a.store.MarkDirty()
	log.Info("student password changed", logger.StudentID(stu.ID))
	a.showf("Password changed.")
}

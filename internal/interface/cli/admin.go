package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/school-hub/school-admin-hub/internal/domain/admin"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

func (a *App) runAdminMenu(adm *admin.Admin, log *logger.Logger) {
	for {
		a.showf("\n─── Admin: %s (%s) ───", adm.Name, adm.Role)
		a.showf(" 1. Students")
		a.showf(" 2. Teachers")
		a.showf(" 3. Exams")
		a.showf(" 4. Attendance")
		a.showf(" 5. Fees")
		a.showf(" 6. Reports")
		a.showf(" 7. Import / Export")
		a.showf(" 8. Save now")
		a.showf(" 9. Backup now")
		a.showf("10. Change password")
		if adm.IsSuperadmin() {
			a.showf("11. Manage admins")
		}
		a.showf(" 0. Logout")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.studentAdminMenu(log)
		case "2":
			a.teacherAdminMenu(log)
		case "3":
			a.examAdminMenu(log)
		case "4":
			a.attendanceMenu(log)
		case "5":
			a.feesMenu(log)
		case "6":
			a.reportsMenu()
		case "7":
			a.interchangeMenu(log)
		case "8":
			if a.gateway != nil {
				if err := a.gateway.Save(a.store); err != nil {
					a.showErr(err)
				} else {
					a.showf("Saved.")
				}
			}
		case "9":
			if a.gateway != nil {
				path, err := a.gateway.Backup()
				if err != nil {
					a.showErr(err)
				} else if path == "" {
					a.showf("Nothing to back up yet.")
				} else {
					a.showf("Backup written to %s", path)
				}
			}
		case "10":
			a.changeAdminPassword(adm, log)
		case "11":
			if adm.IsSuperadmin() {
				a.manageAdminsMenu(adm, log)
			}
		case "0":
			return
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Students
// ═══════════════════════════════════════════════════════════════════════════

func (a *App) studentAdminMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Students ───")
		a.showf("1. Add  2. List  3. Search  4. Update contact  5. Move class")
		a.showf("6. Rename  7. Record marks  8. Delete  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.addStudent(log)
		case "2":
			a.renderStudents(a.store.Students)
		case "3":
			keyword, err := a.prompt("Keyword: ")
			if err != nil {
				return
			}
			a.renderStudents(a.store.SearchStudents(keyword))
		case "4":
			a.updateStudentContact(log)
		case "5":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			class, err := a.prompt("New class-section: ")
			if err != nil {
				return
			}
			if err := a.store.UpdateClassSection(strings.ToUpper(id), class); err != nil {
				a.showErr(err)
			}
		case "6":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			name, err := a.prompt("New name: ")
			if err != nil {
				return
			}
			if err := a.store.RenameStudent(strings.ToUpper(id), name); err != nil {
				a.showErr(err)
			}
		case "7":
			a.recordMarks(log)
		case "8":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			ok, err := a.promptYesNo("Really delete? (y/N): ", false)
			if err != nil || !ok {
				continue
			}
			if err := a.store.DeleteStudent(strings.ToUpper(id)); err != nil {
				a.showErr(err)
			} else {
				log.Info("student deleted", logger.StudentID(strings.ToUpper(id)))
			}
		case "0":
			return
		}
	}
}

func (a *App) addStudent(log *logger.Logger) {
	name, err := a.prompt("Name: ")
	if err != nil || name == "" {
		return
	}
	class, err := a.prompt("Class-section: ")
	if err != nil {
		return
	}
	contact, err := a.promptContact()
	if err != nil {
		return
	}
	stu := a.store.AddStudent(name, contact, class)
	log.Info("student added", logger.StudentID(stu.ID), logger.ClassSection(stu.ClassSection))
	a.showf("Added %s with id %s (default password %q).", stu.Name, stu.ID, shared.DefaultStudentSecret)
}

func (a *App) promptContact() (shared.Contact, error) {
	phone, err := a.prompt("Phone (10 digits, optional): ")
	if err != nil {
		return shared.Contact{}, err
	}
	email, err := a.prompt("Email (optional): ")
	if err != nil {
		return shared.Contact{}, err
	}
	contact := shared.Contact{Phone: phone, Email: email}
	if err := contact.Validate(); err != nil {
		a.showErr(err)
		return a.promptContact()
	}
	return contact, nil
}

func (a *App) updateStudentContact(log *logger.Logger) {
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	contact, err := a.promptContact()
	if err != nil {
		return
	}
	id = strings.ToUpper(id)
	if err := a.store.UpdateStudentContact(id, contact); err != nil {
		a.showErr(err)
		return
	}
	log.Info("student contact updated", logger.StudentID(id))
}

func (a *App) recordMarks(log *logger.Logger) {
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	subject, err := a.prompt("Subject: ")
	if err != nil || subject == "" {
		return
	}
	mark, err := a.promptFloat("Marks (0-100): ", -1)
	if err != nil {
		a.showErr(err)
		return
	}
	id = strings.ToUpper(id)
	if err := a.store.RecordMarks(id, subject, mark); err != nil {
		a.showErr(err)
		return
	}
	log.Info("marks recorded", logger.StudentID(id), logger.String("subject", subject), logger.Float64("marks", mark))
}

// ═══════════════════════════════════════════════════════════════════════════
// Teachers
// ═══════════════════════════════════════════════════════════════════════════

func (a *App) teacherAdminMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Teachers ───")
		a.showf("1. Add  2. List  3. Search  4. Add subject  5. Remove subject")
		a.showf("6. Rename subject  7. Delete  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.addTeacher(log)
		case "2":
			a.renderTeachers(a.store.Teachers)
		case "3":
			keyword, err := a.prompt("Keyword: ")
			if err != nil {
				return
			}
			a.renderTeachers(a.store.SearchTeachers(keyword))
		case "4", "5", "6":
			a.teacherSubjectOp(choice, log)
		case "7":
			id, err := a.prompt("Teacher ID: ")
			if err != nil {
				return
			}
			ok, err := a.promptYesNo("Really delete? (y/N): ", false)
			if err != nil || !ok {
				continue
			}
			if err := a.store.DeleteTeacher(strings.ToUpper(id)); err != nil {
				a.showErr(err)
			} else {
				log.Info("teacher deleted", logger.TeacherID(strings.ToUpper(id)))
			}
		case "0":
			return
		}
	}
}

func (a *App) addTeacher(log *logger.Logger) {
	name, err := a.prompt("Name: ")
	if err != nil || name == "" {
		return
	}
	desc, err := a.prompt("Role description (default Teacher): ")
	if err != nil {
		return
	}
	subjectsRaw, err := a.prompt("Subjects (comma separated): ")
	if err != nil {
		return
	}
	contact, err := a.promptContact()
	if err != nil {
		return
	}
	var subjects []string
	for _, s := range strings.Split(subjectsRaw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			subjects = append(subjects, s)
		}
	}
	t := a.store.AddTeacher(name, contact, desc, subjects)
	log.Info("teacher added", logger.TeacherID(t.ID))
	a.showf("Added %s with id %s (default password %q).", t.Name, t.ID, shared.DefaultStaffSecret)
}

func (a *App) teacherSubjectOp(choice string, log *logger.Logger) {
	id, err := a.prompt("Teacher ID: ")
	if err != nil {
		return
	}
	id = strings.ToUpper(id)
	switch choice {
	case "4":
		subject, err := a.prompt("Subject to add: ")
		if err != nil {
			return
		}
		err = a.store.AddTeacherSubject(id, subject)
		if err != nil {
			a.showErr(err)
			return
		}
	case "5":
		subject, err := a.prompt("Subject to remove: ")
		if err != nil {
			return
		}
		if err := a.store.RemoveTeacherSubject(id, subject); err != nil {
			a.showErr(err)
			return
		}
	case "6":
		oldName, err := a.prompt("Current subject name: ")
		if err != nil {
			return
		}
		newName, err := a.prompt("New subject name: ")
		if err != nil {
			return
		}
		if err := a.store.RenameTeacherSubject(id, oldName, newName); err != nil {
			a.showErr(err)
			return
		}
	}
	log.Info("teacher subjects updated", logger.TeacherID(id))
}

// ═══════════════════════════════════════════════════════════════════════════
// Exams, attendance, fees
// ═══════════════════════════════════════════════════════════════════════════

func (a *App) examAdminMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Exams ───")
		a.showf("1. Schedule exam  2. List  3. Record result  4. Exam report  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.scheduleExam(log)
		case "2":
			a.renderExams(a.store.Exams)
		case "3":
			a.recordExamResult(log)
		case "4":
			id, err := a.prompt("Exam ID: ")
			if err != nil {
				return
			}
			a.renderExamReport(strings.ToUpper(id))
		case "0":
			return
		}
	}
}

func (a *App) scheduleExam(log *logger.Logger) {
	name, err := a.prompt("Exam name: ")
	if err != nil || name == "" {
		return
	}
	class, err := a.prompt("Class-section: ")
	if err != nil {
		return
	}
	subject, err := a.prompt("Subject: ")
	if err != nil {
		return
	}
	date, err := a.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return
	}
	if _, perr := time.Parse("2006-01-02", date); perr != nil {
		a.showf("Bad date %q, expected YYYY-MM-DD.", date)
		return
	}
	maxMarks, err := a.promptFloat("Max marks (default 100): ", 0)
	if err != nil {
		a.showErr(err)
		return
	}
	allowBonus, err := a.promptYesNo("Allow bonus marks? (y/N): ", false)
	if err != nil {
		return
	}
	e, err := a.store.AddExam("", name, class, subject, date, maxMarks, allowBonus)
	if err != nil {
		a.showErr(err)
		return
	}
	log.Info("exam scheduled", logger.ExamID(e.ID), logger.ClassSection(e.ClassSection))
	a.showf("Scheduled %s as %s.", e.Name, e.ID)
}

func (a *App) recordExamResult(log *logger.Logger) {
	examID, err := a.prompt("Exam ID: ")
	if err != nil {
		return
	}
	studentID, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	marks, err := a.promptFloat("Marks: ", -1)
	if err != nil {
		a.showErr(err)
		return
	}
	bonus, err := a.promptFloat("Bonus (0 if none): ", 0)
	if err != nil {
		a.showErr(err)
		return
	}
	examID, studentID = strings.ToUpper(examID), strings.ToUpper(studentID)
	if err := a.store.RecordExamResult(examID, studentID, marks, bonus); err != nil {
		a.showErr(err)
		return
	}
	log.Info("exam result recorded", logger.ExamID(examID), logger.StudentID(studentID))
}

func (a *App) attendanceMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Attendance ───")
		a.showf("1. Mark for a class  2. Mark one student  3. Student history  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.markClassAttendance(log)
		case "2":
			a.markOneAttendance(log)
		case "3":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			a.renderAttendanceHistory(strings.ToUpper(id))
		case "0":
			return
		}
	}
}

func (a *App) markClassAttendance(log *logger.Logger) {
	class, err := a.prompt("Class-section: ")
	if err != nil {
		return
	}
	date, err := a.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return
	}
	students := a.store.StudentsInClass(class)
	if len(students) == 0 {
		a.showf("No students in %s.", class)
		return
	}
	for _, stu := range students {
		raw, err := a.prompt(fmt.Sprintf("%s %s - present? (Y/n): ", stu.ID, stu.Name))
		if err != nil {
			return
		}
		status := normalizeStatusInput(raw)
		if err := a.store.MarkAttendance(date, stu.ID, status); err != nil {
			a.showErr(err)
			return
		}
	}
	log.Info("class attendance marked", logger.ClassSection(class),
		logger.String("date", date), logger.Count(len(students)))
}

func (a *App) markOneAttendance(log *logger.Logger) {
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	date, err := a.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return
	}
	raw, err := a.prompt("Present? (Y/n): ")
	if err != nil {
		return
	}
	id = strings.ToUpper(id)
	if _, ferr := a.store.FindStudent(id); ferr != nil {
		a.showErr(ferr)
		return
	}
	if err := a.store.MarkAttendance(date, id, normalizeStatusInput(raw)); err != nil {
		a.showErr(err)
		return
	}
	log.Info("attendance marked", logger.StudentID(id), logger.String("date", date))
}

func (a *App) feesMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Fees ───")
		a.showf("1. Set class fee  2. Record payment  3. Mark paid  4. Pending list  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			class, err := a.prompt("Class-section: ")
			if err != nil {
				return
			}
			amount, err := a.promptFloat("Fee amount: ", -1)
			if err != nil {
				a.showErr(err)
				continue
			}
			if err := a.store.SetClassFee(class, amount); err != nil {
				a.showErr(err)
			} else {
				log.Info("class fee set", logger.ClassSection(class), logger.Float64("amount", amount))
			}
		case "2":
			a.recordFeePayment(log)
		case "3":
			id, err := a.prompt("Student ID: ")
			if err != nil {
				return
			}
			if err := a.store.MarkFeePaid(strings.ToUpper(id)); err != nil {
				a.showErr(err)
			}
		case "4":
			a.renderPendingFees()
		case "0":
			return
		}
	}
}

func (a *App) recordFeePayment(log *logger.Logger) {
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return
	}
	amount, err := a.promptFloat("Amount: ", -1)
	if err != nil {
		a.showErr(err)
		return
	}
	date, err := a.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return
	}
	method, err := a.prompt("Method (Cash/Card/Transfer): ")
	if err != nil {
		return
	}
	id = strings.ToUpper(id)
	if err := a.store.RecordFeePayment(id, amount, date, method); err != nil {
		a.showErr(err)
		return
	}
	log.Info("fee payment recorded", logger.StudentID(id), logger.Float64("amount", amount))
}

// ═══════════════════════════════════════════════════════════════════════════
// Admin accounts
// ═══════════════════════════════════════════════════════════════════════════

func (a *App) manageAdminsMenu(current *admin.Admin, log *logger.Logger) {
	for {
		a.showf("\n─── Admin accounts ───")
		a.showf("1. Add admin  2. List  3. Change role  4. Delete  0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			a.addAdmin(log)
		case "2":
			a.renderAdmins()
		case "3":
			username, err := a.prompt("Username: ")
			if err != nil {
				return
			}
			roleRaw, err := a.prompt("New role (admin/superadmin): ")
			if err != nil {
				return
			}
			if err := a.store.ChangeAdminRole(username, admin.Role(strings.ToLower(roleRaw))); err != nil {
				a.showErr(err)
			} else {
				log.Info("admin role changed", logger.AdminUsername(username), logger.String("role", strings.ToLower(roleRaw)))
			}
		case "4":
			username, err := a.prompt("Username: ")
			if err != nil {
				return
			}
			if username == current.Username {
				a.showf("Refusing to delete the account you are logged in with.")
				continue
			}
			ok, err := a.promptYesNo("Really delete? (y/N): ", false)
			if err != nil || !ok {
				continue
			}
			if err := a.store.DeleteAdmin(username); err != nil {
				a.showErr(err)
			} else {
				log.Info("admin deleted", logger.AdminUsername(username))
			}
		case "0":
			return
		}
	}
}

func (a *App) addAdmin(log *logger.Logger) {
	name, err := a.prompt("Name: ")
	if err != nil || name == "" {
		return
	}
	username, err := a.prompt("Username: ")
	if err != nil || username == "" {
		return
	}
	secret, err := a.readPassword("Password: ")
	if err != nil {
		return
	}
	if len(secret) < shared.MinPasswordLength {
		a.showf("Password must be at least %d characters.", shared.MinPasswordLength)
		return
	}
	roleRaw, err := a.prompt("Role (admin/superadmin, default admin): ")
	if err != nil {
		return
	}
	role := admin.Role(strings.ToLower(roleRaw))
	if roleRaw == "" {
		role = admin.RoleAdmin
	}
	adm, err := a.store.AddAdmin(name, username, secret, role)
	if err != nil {
		a.showErr(err)
		return
	}
	log.Info("admin added", logger.AdminUsername(adm.Username), logger.String("role", string(adm.Role)))
	a.showf("Added admin %s (%s).", adm.Username, adm.ID)
}

func (a *App) changeAdminPassword(adm *admin.Admin, log *logger.Logger) {
	current, err := a.readPassword("Current password: ")
	if err != nil {
		return
	}
	next, err := a.readPassword("New password: ")
	if err != nil {
		return
	}
	if err := a.store.SetAdminPassword(adm.Username, current, next); err != nil {
		a.showErr(err)
		return
	}
	log.Info("admin password changed", logger.AdminUsername(adm.Username))
	a.showf("Password changed.")
}

package store

import (
	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/exam"
	"github.com/school-hub/school-admin-hub/internal/domain/fees"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/registry"
)

// AddExam creates an exam. An empty requestedID auto-generates one; a
// manually supplied id triggers a registry resync so later generated ids
// never collide with it.
func (s *Store) AddExam(requestedID, name, classSection, subject, date string, maxMarks float64, allowBonus bool) (*exam.Exam, error) {
	id := requestedID
	if id == "" {
		id = s.ids.NextID(registry.KindExam, s.hasExamID)
	} else {
		if s.hasExamID(id) {
			return nil, shared.NewDomainError("exam", "Add", shared.ErrAlreadyExists, "exam id already exists")
		}
		s.ids.Resync(registry.KindExam, []string{id})
	}
	e := exam.New(id, name, classSection, subject, date, maxMarks, allowBonus)
	s.Exams = append(s.Exams, e)
	s.dirty = true
	return e, nil
}

// AttachExam appends an already-built exam (import/load path).
func (s *Store) AttachExam(e *exam.Exam) {
	s.Exams = append(s.Exams, e)
}

// FindExam returns the exam with the given id.
func (s *Store) FindExam(id string) (*exam.Exam, error) {
	for _, e := range s.Exams {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrExamNotFound
}

// RecordExamResult stores a student's exam result, overwriting any prior
// entry. Range checks and the bonus policy live on the exam entity.
func (s *Store) RecordExamResult(examID, studentID string, marks, bonus float64) error {
	e, err := s.FindExam(examID)
	if err != nil {
		return err
	}
	if err := e.RecordResult(studentID, marks, bonus); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// ExamIDs lists every exam id.
func (s *Store) ExamIDs() []string {
	out := make([]string, len(s.Exams))
	for i, e := range s.Exams {
		out[i] = e.ID
	}
	return out
}

func (s *Store) hasExamID(id string) bool {
	_, err := s.FindExam(id)
	return err == nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Attendance and fees
// ═══════════════════════════════════════════════════════════════════════════

// MarkAttendance records a status for (date, student), creating the date
// bucket when needed. Marking the same cell again overwrites it.
func (s *Store) MarkAttendance(date, studentID string, status attendance.Status) error {
	if err := s.Attendance.Mark(date, studentID, status); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// MarkFeePaid flips a student's fee status to Paid.
func (s *Store) MarkFeePaid(studentID string) error {
	stu, err := s.FindStudent(studentID)
	if err != nil {
		return err
	}
	stu.PayFee()
	s.dirty = true
	return nil
}

// RecordFeePayment appends a transaction to the log and adds the amount to
// the student's paid total. The log itself is never reconciled backwards.
func (s *Store) RecordFeePayment(studentID string, amount float64, date, method string) error {
	if amount < 0 {
		return shared.NewDomainError("fees", "RecordPayment", shared.ErrNegativeValue, "amount cannot be negative")
	}
	stu, err := s.FindStudent(studentID)
	if err != nil {
		return err
	}
	s.FeeTransactions = append(s.FeeTransactions, fees.Transaction{
		StudentID: studentID,
		Amount:    amount,
		Date:      date,
		Method:    method,
	})
	stu.PaidAmount += amount
	s.dirty = true
	return nil
}

// AppendFeeTransaction adds a raw transaction (import path) without touching
// any student's paid amount.
func (s *Store) AppendFeeTransaction(txn fees.Transaction) {
	s.FeeTransactions = append(s.FeeTransactions, txn)
	s.dirty = true
}

// SetClassFee configures the fee amount for a class-section.
func (s *Store) SetClassFee(classSection string, amount float64) error {
	if amount < 0 {
		return shared.NewDomainError("fees", "SetClassFee", shared.ErrNegativeValue, "amount cannot be negative")
	}
	s.FeeStructure[shared.NormalizeClassSection(classSection)] = amount
	s.dirty = true
	return nil
}

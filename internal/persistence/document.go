package persistence

import (
	"strconv"
	"strings"

	"github.com/school-hub/school-admin-hub/internal/domain/admin"
	"github.com/school-hub/school-admin-hub/internal/domain/attendance"
	"github.com/school-hub/school-admin-hub/internal/domain/exam"
	"github.com/school-hub/school-admin-hub/internal/domain/faculty"
	"github.com/school-hub/school-admin-hub/internal/domain/fees"
	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/domain/student"
	"github.com/school-hub/school-admin-hub/internal/registry"
	"github.com/school-hub/school-admin-hub/internal/store"
)

// document is the on-disk shape of the main data file. Records use
// map[string]any because hand-edited and legacy files carry variant key
// spellings and loosely typed values; normalization happens in the
// record decoders below.
type document struct {
	LastStudentID int `json:"last_student_id"`
	LastTeacherID int `json:"last_teacher_id"`
	LastAdminID   int `json:"last_admin_id"`
	LastExamID    int `json:"last_exam_id"`

	Students        []map[string]any   `json:"students"`
	Teachers        []map[string]any   `json:"teachers"`
	Admins          []map[string]any   `json:"admins"`
	Exams           []map[string]any   `json:"exams"`
	FeeStructure    map[string]any     `json:"fee_structure"`
	FeeTransactions []fees.Transaction `json:"fee_transactions"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Loose-value coercion
// ═══════════════════════════════════════════════════════════════════════════

// pick returns the first present, non-nil value among the given keys.
// Legacy files spell some keys differently between generations.
func pick(rec map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes" || s == "1"
	case float64:
		return t != 0
	}
	return false
}

// asStringList accepts a JSON list, a comma-separated string, or a single
// scalar and returns trimmed non-empty entries.
func asStringList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			raw = append(raw, asString(item))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{asString(v)}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringField(rec map[string]any, keys ...string) string {
	if v, ok := pick(rec, keys...); ok {
		return strings.TrimSpace(asString(v))
	}
	return ""
}

func floatField(rec map[string]any, fallback float64, keys ...string) float64 {
	if v, ok := pick(rec, keys...); ok {
		if f, good := asFloat(v); good {
			return f
		}
	}
	return fallback
}

func contactField(rec map[string]any) shared.Contact {
	v, ok := pick(rec, "contact")
	if !ok {
		return shared.Contact{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return shared.Contact{}
	}
	return shared.Contact{
		Phone: stringField(m, "Phone", "phone"),
		Email: stringField(m, "Email", "email"),
	}
}

// passwordField falls back to hashing the given default secret when the
// record carries no usable password hash.
func passwordField(rec map[string]any, defaultSecret string) string {
	if h := stringField(rec, "password"); h != "" {
		return h
	}
	return shared.MustHashPassword(defaultSecret)
}

// ═══════════════════════════════════════════════════════════════════════════
// Record decoders
// ═══════════════════════════════════════════════════════════════════════════

func decodeStudent(rec map[string]any) *student.Student {
	stu := &student.Student{
		ID:           stringField(rec, "student_id"),
		Name:         stringField(rec, "name"),
		Contact:      contactField(rec),
		ClassSection: shared.NormalizeClassSection(stringField(rec, "class_section", "class")),
		Marks:        make(map[string]float64),
		FeeStatus:    student.FeePending,
		PaidAmount:   floatField(rec, 0, "paid_amount"),
		PasswordHash: passwordField(rec, shared.DefaultStudentSecret),
	}
	if v, ok := pick(rec, "marks"); ok {
		if m, good := v.(map[string]any); good {
			for subject, mark := range m {
				if f, fok := asFloat(mark); fok {
					stu.Marks[subject] = f
				}
			}
		}
	}
	if fs := student.FeeStatus(stringField(rec, "fee_status")); fs.IsValid() {
		stu.FeeStatus = fs
	}
	return stu
}

func encodeStudent(stu *student.Student) map[string]any {
	return map[string]any{
		"student_id":    stu.ID,
		"name":          stu.Name,
		"contact":       stu.Contact,
		"role":          "student",
		"marks":         stu.Marks,
		"fee_status":    stu.FeeStatus,
		"paid_amount":   stu.PaidAmount,
		"class_section": stu.ClassSection,
		"password":      stu.PasswordHash,
	}
}

func decodeTeacher(rec map[string]any) *faculty.Teacher {
	t := &faculty.Teacher{
		ID:              stringField(rec, "teacher_id"),
		Name:            stringField(rec, "name"),
		Contact:         contactField(rec),
		RoleDescription: stringField(rec, "role-description", "role_description"),
		Subjects:        make([]string, 0),
		PasswordHash:    passwordField(rec, shared.DefaultStaffSecret),
	}
	if t.RoleDescription == "" {
		t.RoleDescription = "Teacher"
	}
	if v, ok := pick(rec, "subjects"); ok {
		for _, s := range asStringList(v) {
			t.AddSubject(s)
		}
	}
	return t
}

func encodeTeacher(t *faculty.Teacher) map[string]any {
	return map[string]any{
		"teacher_id":       t.ID,
		"name":             t.Name,
		"contact":          t.Contact,
		"role":             "teacher",
		"role-description": t.RoleDescription,
		"subjects":         t.Subjects,
		"password":         t.PasswordHash,
	}
}

func decodeAdmin(rec map[string]any) *admin.Admin {
	a := &admin.Admin{
		ID:           stringField(rec, "admin_id", "admin-id"),
		Name:         stringField(rec, "name"),
		Username:     stringField(rec, "username"),
		PasswordHash: passwordField(rec, shared.DefaultStaffSecret),
		Role:         admin.Role(strings.ToLower(stringField(rec, "role"))),
	}
	if !a.Role.IsValid() {
		a.Role = admin.RoleAdmin
	}
	return a
}

func encodeAdmin(a *admin.Admin) map[string]any {
	return map[string]any{
		"admin_id": a.ID,
		"name":     a.Name,
		"username": a.Username,
		"password": a.PasswordHash,
		"role":     a.Role,
	}
}

func decodeExam(rec map[string]any) *exam.Exam {
	subject := ""
	if v, ok := pick(rec, "subject", "subjects"); ok {
		// Legacy multi-subject exams collapse to the first entry.
		if list := asStringList(v); len(list) > 0 {
			subject = list[0]
		}
	}
	e := &exam.Exam{
		ID:           stringField(rec, "exam_id", "examId"),
		Name:         stringField(rec, "exam_name", "examName", "name"),
		ClassSection: shared.NormalizeClassSection(stringField(rec, "class", "class_section")),
		Subject:      subject,
		Date:         stringField(rec, "date"),
		MaxMarks:     floatField(rec, exam.DefaultMaxMarks, "max_marks", "maxMark"),
		AllowBonus:   false,
		Results:      make(map[string]exam.Result),
	}
	if e.MaxMarks <= 0 {
		e.MaxMarks = exam.DefaultMaxMarks
	}
	if v, ok := pick(rec, "allow_bonus", "allowBonus"); ok {
		e.AllowBonus = asBool(v)
	}
	if v, ok := pick(rec, "results"); ok {
		if m, good := v.(map[string]any); good {
			for sid, raw := range m {
				cell, cellOK := raw.(map[string]any)
				if !cellOK {
					continue
				}
				e.Results[sid] = exam.Result{
					Marks: floatField(cell, 0, "marks"),
					Bonus: floatField(cell, 0, "bonus"),
				}
			}
		}
	}
	return e
}

func encodeExam(e *exam.Exam) map[string]any {
	return map[string]any{
		"exam_id":     e.ID,
		"exam_name":   e.Name,
		"class":       e.ClassSection,
		"subject":     e.Subject,
		"date":        e.Date,
		"max_marks":   e.MaxMarks,
		"allow_bonus": e.AllowBonus,
		"results":     e.Results,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Document ↔ store
// ═══════════════════════════════════════════════════════════════════════════

// decodeDocument materializes a store from a parsed document. Records with
// missing ids get fresh ones after the counters are restored; a final resync
// guards against counters lower than the ids actually present.
func decodeDocument(doc *document) *store.Store {
	ids := registry.New()
	ids.SetCounter(registry.KindStudent, doc.LastStudentID)
	ids.SetCounter(registry.KindTeacher, doc.LastTeacherID)
	ids.SetCounter(registry.KindAdmin, doc.LastAdminID)
	ids.SetCounter(registry.KindExam, doc.LastExamID)
	s := store.New(ids)

	for _, rec := range doc.Students {
		s.AttachStudent(decodeStudent(rec))
	}
	for _, rec := range doc.Teachers {
		s.AttachTeacher(decodeTeacher(rec))
	}
	for _, rec := range doc.Admins {
		s.AttachAdmin(decodeAdmin(rec))
	}
	for _, rec := range doc.Exams {
		s.AttachExam(decodeExam(rec))
	}
	for class, v := range doc.FeeStructure {
		if f, ok := asFloat(v); ok && f >= 0 {
			s.FeeStructure[shared.NormalizeClassSection(class)] = f
		}
	}
	s.FeeTransactions = append(s.FeeTransactions, doc.FeeTransactions...)

	s.ResyncIDs()
	repairMissingIDs(s)
	return s
}

// repairMissingIDs assigns fresh identifiers to records loaded without one.
func repairMissingIDs(s *store.Store) {
	for _, stu := range s.Students {
		if stu.ID == "" {
			stu.ID = s.Registry().NextID(registry.KindStudent, func(id string) bool {
				_, err := s.FindStudent(id)
				return err == nil
			})
			s.MarkDirty()
		}
	}
	for _, t := range s.Teachers {
		if t.ID == "" {
			t.ID = s.Registry().NextID(registry.KindTeacher, func(id string) bool {
				_, err := s.FindTeacher(id)
				return err == nil
			})
			s.MarkDirty()
		}
	}
	for _, e := range s.Exams {
		if e.ID == "" {
			e.ID = s.Registry().NextID(registry.KindExam, func(id string) bool {
				for _, other := range s.Exams {
					if other.ID == id {
						return true
					}
				}
				return false
			})
			s.MarkDirty()
		}
	}
}

// encodeDocument renders the store back into the on-disk shape.
func encodeDocument(s *store.Store) *document {
	doc := &document{
		LastStudentID:   s.Registry().Counter(registry.KindStudent),
		LastTeacherID:   s.Registry().Counter(registry.KindTeacher),
		LastAdminID:     s.Registry().Counter(registry.KindAdmin),
		LastExamID:      s.Registry().Counter(registry.KindExam),
		Students:        make([]map[string]any, 0, len(s.Students)),
		Teachers:        make([]map[string]any, 0, len(s.Teachers)),
		Admins:          make([]map[string]any, 0, len(s.Admins)),
		Exams:           make([]map[string]any, 0, len(s.Exams)),
		FeeStructure:    make(map[string]any, len(s.FeeStructure)),
		FeeTransactions: s.FeeTransactions,
	}
	for _, stu := range s.Students {
		doc.Students = append(doc.Students, encodeStudent(stu))
	}
	for _, t := range s.Teachers {
		doc.Teachers = append(doc.Teachers, encodeTeacher(t))
	}
	for _, a := range s.Admins {
		doc.Admins = append(doc.Admins, encodeAdmin(a))
	}
	for _, e := range s.Exams {
		doc.Exams = append(doc.Exams, encodeExam(e))
	}
	for class, amount := range s.FeeStructure {
		doc.FeeStructure[class] = amount
	}
	if doc.FeeTransactions == nil {
		doc.FeeTransactions = make([]fees.Transaction, 0)
	}
	return doc
}

// attendanceDocument is the on-disk shape of the attendance file:
// date → student id → status.
type attendanceDocument map[string]map[string]string

func decodeAttendance(doc attendanceDocument) attendance.Sheet {
	sheet := attendance.NewSheet()
	for date, cells := range doc {
		for sid, raw := range cells {
			status := normalizeStatus(raw)
			if !status.IsValid() {
				continue
			}
			// Mark also re-validates the date; malformed buckets are dropped.
			_ = sheet.Mark(date, sid, status)
		}
	}
	return sheet
}

func encodeAttendance(sheet attendance.Sheet) attendanceDocument {
	doc := make(attendanceDocument, len(sheet))
	for date, bucket := range sheet {
		cells := make(map[string]string, len(bucket))
		for sid, status := range bucket {
			cells[sid] = string(status)
		}
		doc[date] = cells
	}
	return doc
}

// normalizeStatus maps loosely spelled statuses onto the two known values.
func normalizeStatus(raw string) attendance.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "p":
		return attendance.Present
	case "absent", "a":
		return attendance.Absent
	}
	return attendance.Status(raw)
}

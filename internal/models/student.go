package models

// Canonical three-year grade labels. Cohort grades ("2025级") are also
// accepted on students but never act as statistics filters.
const (
	GradeOne   = "高一"
	GradeTwo   = "高二"
	GradeThree = "高三"
)

// CanonicalGrades in school order.
var CanonicalGrades = []string{GradeOne, GradeTwo, GradeThree}

// IsCanonicalGrade reports whether the value is one of the three year labels.
func IsCanonicalGrade(grade string) bool {
	return grade == GradeOne || grade == GradeTwo || grade == GradeThree
}

// Disciplinary status ladder, mildest first.
var StudentStatuses = []string{
	"正常", "警告", "严重警告", "记过", "留校察看", "勒令退学", "开除学籍",
}

// IsValidStatus reports whether the value is one of the seven statuses.
func IsValidStatus(status string) bool {
	for _, s := range StudentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Student is one enrolled student.
type Student struct {
	ID               int64  `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	StudentID        string `db:"student_id" json:"student_id"`
	Grade            string `db:"grade" json:"grade"`
	Class            string `db:"class" json:"class"`
	Teacher          string `db:"teacher" json:"teacher"`
	PhotoURL         string `db:"photo_url" json:"photo_url"`
	Address          string `db:"address" json:"address"`
	EmergencyContact string `db:"emergency_contact" json:"emergency_contact"`
	EmergencyPhone   string `db:"emergency_phone" json:"emergency_phone"`
	Notes            string `db:"notes" json:"notes"`
	Status           string `db:"status" json:"status"`
}

// BatchDeleteResult summarises a roster batch delete.
type BatchDeleteResult struct {
	Message      string                 `json:"message"`
	DeletedCount int64                  `json:"deletedCount"`
	Details      BatchDeleteResultStats `json:"details"`
}

// BatchDeleteResultStats itemises the batch outcome.
type BatchDeleteResultStats struct {
	Total        int      `json:"total"`
	Success      int64    `json:"success"`
	StudentNames []string `json:"studentNames"`
}

// ImportResult summarises a roster spreadsheet import.
type ImportResult struct {
	Message string   `json:"message"`
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

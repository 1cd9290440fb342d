package models

// Behavior categories: negative-scored violations and positive-scored
// commendations.
const (
	CategoryViolation = "违纪"
	CategoryExcellent = "优秀"
)

// BehaviorType is a named, scored template for student behavior events.
// The score sign always agrees with the category (violations negative,
// excellent positive).
type BehaviorType struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"description"`
	Score       int    `db:"score" json:"score"`
}

// Behavior is a logged event tying one student to one behavior type.
// Dates are kept as localtime strings, matching the stored representation
// and the string-comparison filter semantics.
type Behavior struct {
	ID            int64  `db:"id" json:"id"`
	StudentID     int64  `db:"student_id" json:"student_id"`
	BehaviorType  string `db:"behavior_type" json:"behavior_type"`
	Description   string `db:"description" json:"description"`
	Date          string `db:"date" json:"date"`
	ImageURL      string `db:"image_url" json:"image_url"`
	ProcessResult string `db:"process_result" json:"process_result"`

	// Joined from students for list/detail responses.
	StudentName string `db:"student_name" json:"student_name,omitempty"`
	Grade       string `db:"grade" json:"grade,omitempty"`
	Class       string `db:"class" json:"class,omitempty"`
}

// BehaviorFilter narrows behavior listings.
type BehaviorFilter struct {
	StudentID    int64  `form:"student_id"`
	BehaviorType string `form:"behavior_type"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
}

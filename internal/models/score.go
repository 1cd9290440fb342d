package models

// Score item categories for teacher-directed scoring.
const (
	CategoryBonus     = "加分"
	CategoryDeduction = "减分"
)

// ScoreItem is a scored template for teacher behavior events, the
// teacher-side analogue of BehaviorType. Bonus scores are positive,
// deduction scores negative.
type ScoreItem struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Category    string  `db:"category" json:"category"`
	Score       float64 `db:"score" json:"score"`
	Description string  `db:"description" json:"description"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
}

// TeacherBehavior is a scored event against a teacher identity string of
// the form "<grade><n>班" (e.g. "高二7班"), from which the (grade, n)
// class-score ledger key is derived.
type TeacherBehavior struct {
	ID            int64   `db:"id" json:"id"`
	TeacherName   string  `db:"teacher_name" json:"teacher_name"`
	BehaviorType  string  `db:"behavior_type" json:"behavior_type"`
	Description   string  `db:"description" json:"description"`
	Date          string  `db:"date" json:"date"`
	ProcessResult string  `db:"process_result" json:"process_result"`
	Score         float64 `db:"score" json:"score"`
	ScoreItemID   *int64  `db:"score_item_id" json:"score_item_id"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at"`
}

// ClassKey identifies one (grade, class-number) ledger bucket.
type ClassKey struct {
	Grade string
	Class string
}

// ClassScore is the running per-class total maintained in lockstep with
// teacher behavior mutations.
type ClassScore struct {
	ID         int64   `db:"id" json:"id"`
	Grade      string  `db:"grade" json:"grade"`
	Class      string  `db:"class" json:"class"`
	TotalScore float64 `db:"total_score" json:"total_score"`
	UpdatedAt  string  `db:"updated_at" json:"updated_at"`
}

package models

// StatsFilter is the shared filter tuple for the statistics endpoints.
// Values are applied verbatim: invalid dates or grades are logged by the
// service layer and still bound as literal comparison values.
type StatsFilter struct {
	StartDate string
	EndDate   string
	Grade     string
	Class     string
}

// CategoryStat aggregates behavior counts for one category; Percentage is
// relative to the student population in scope.
type CategoryStat struct {
	Category     string  `db:"category" json:"category"`
	TotalCount   int     `db:"total_count" json:"total_count"`
	StudentCount int     `db:"student_count" json:"student_count"`
	Percentage   float64 `db:"percentage" json:"percentage"`
}

// ItemStyle carries the chart color assigned to a distribution slice.
type ItemStyle struct {
	Color string `json:"color"`
}

// TypeDistribution is one behavior type's share within its category.
// Percentage is pre-formatted with a trailing % for the chart tooltip.
type TypeDistribution struct {
	Name       string    `db:"name" json:"name"`
	Category   string    `db:"category" json:"category"`
	Value      int       `db:"value" json:"value"`
	Percentage string    `json:"percentage"`
	ItemStyle  ItemStyle `json:"itemStyle"`

	RawPercentage float64 `db:"percentage" json:"-"`
}

// ClassRanking is one row of the violation-count class leaderboard.
type ClassRanking struct {
	Grade        string `db:"grade" json:"grade"`
	Class        string `db:"class" json:"class"`
	Count        int    `db:"count" json:"count"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

// TrendPoint is a daily behavior count for one category.
type TrendPoint struct {
	Date     string `db:"date" json:"date"`
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// RecentViolation is one row of the latest-violations ticker.
type RecentViolation struct {
	Date         string `db:"date" json:"date"`
	StudentName  string `db:"student_name" json:"student_name"`
	Grade        string `db:"grade" json:"grade"`
	Class        string `db:"class" json:"class"`
	BehaviorType string `db:"behavior_type" json:"behavior_type"`
	Description  string `db:"description" json:"description"`
}

// Overview is the dashboard headline block.
type Overview struct {
	TotalStudents     int            `json:"total_students"`
	TotalBehaviors    int            `json:"total_behaviors"`
	BehaviorStats     []CategoryStat `json:"behavior_stats"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// DashboardStats composes the full dashboard payload.
type DashboardStats struct {
	Overview         Overview           `json:"overview"`
	ClassRanking     []ClassRanking     `json:"class_ranking"`
	Trend            []TrendPoint       `json:"trend"`
	RecentViolations []RecentViolation  `json:"recent_violations"`
	TypeDistribution []TypeDistribution `json:"type_distribution"`
}

// BehaviorTypeStat is a per-type event count.
type BehaviorTypeStat struct {
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// ClassStat is a per-class, per-category event count.
type ClassStat struct {
	Grade    string `db:"grade" json:"grade"`
	Class    string `db:"class" json:"class"`
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// StudentStat is a per-type count for a single student.
type StudentStat struct {
	Name         string `db:"name" json:"name"`
	Grade        string `db:"grade" json:"grade"`
	Class        string `db:"class" json:"class"`
	BehaviorType string `db:"behavior_type" json:"behavior_type"`
	Category     string `db:"category" json:"category"`
	Count        int    `db:"count" json:"count"`
}

// Summary is the compact totals payload.
type Summary struct {
	TotalStudents      int        `json:"total_students"`
	TotalBehaviors     int        `json:"total_behaviors"`
	TotalBehaviorTypes int        `json:"total_behavior_types"`
	RecentBehaviors    []Behavior `json:"recent_behaviors"`
}

// ViolationRate is distinct violating students over students in scope,
// as a percentage rounded to two decimals (0 when the scope is empty).
type ViolationRate struct {
	Grade             string  `db:"grade" json:"grade"`
	TotalStudents     int     `db:"total_students" json:"total_students"`
	ViolationStudents int     `db:"violation_students" json:"violation_students"`
	ViolationRate     float64 `db:"violation_rate" json:"violation_rate"`
}

// MonthlyViolationRate is the same computation bucketed per calendar month.
type MonthlyViolationRate struct {
	Month             string  `db:"month" json:"month"`
	TotalStudents     int     `db:"total_students" json:"total_students"`
	ViolationStudents int     `db:"violation_students" json:"violation_students"`
	ViolationRate     float64 `db:"violation_rate" json:"violation_rate"`
}

// FrequencyBucket groups students by how often they violated: 0..4 plus a
// collapsed "5+" bucket. Percentage is of the filtered student population.
type FrequencyBucket struct {
	Violations string  `json:"violations"`
	Students   int     `json:"students"`
	Percentage float64 `json:"percentage"`
}

// TimePeriodStat is a violation count for a time-of-day bucket.
type TimePeriodStat struct {
	Period string `db:"period" json:"period"`
	Count  int    `db:"count" json:"count"`
}

// TopReason is a behavior type ranked by violation frequency.
type TopReason struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// TypeShare is one type's percentage share of all violations in scope.
type TypeShare struct {
	Name       string  `db:"name" json:"name"`
	Count      int     `db:"count" json:"count"`
	Percentage float64 `db:"percentage" json:"percentage"`
}

// Analysis composes the violation-rate analysis payload. Sections degrade
// to empty independently when their underlying query fails.
type Analysis struct {
	TotalStudents          int                    `json:"totalStudents"`
	TotalViolationStudents int                    `json:"totalViolationStudents"`
	TotalViolationRate     float64                `json:"totalViolationRate"`
	GradeViolationRates    []ViolationRate        `json:"gradeViolationRates"`
	MonthlyTrends          []MonthlyViolationRate `json:"monthlyTrends"`
	FrequencyDistribution  []FrequencyBucket      `json:"frequencyDistribution"`
	TimeDistribution       []TimePeriodStat       `json:"timeDistribution"`
	TopReasons             []TopReason            `json:"topReasons"`
	TypeShares             []TypeShare            `json:"typeShares"`
}

// Risk tiers for the early-warning list.
const (
	RiskHigh   = "高"
	RiskMedium = "中"
	RiskLow    = "低"
)

// RiskStudent is one flagged student with UI colors keyed by tier.
type RiskStudent struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	StudentID      string `db:"student_id" json:"student_id"`
	Grade          string `db:"grade" json:"grade"`
	Class          string `db:"class" json:"class"`
	ViolationCount int    `db:"violation_count" json:"violation_count"`
	LastViolation  string `db:"last_violation" json:"last_violation"`
	RiskLevel      string `json:"risk_level"`
	Color          string `json:"color"`
	Background     string `json:"background"`
}

// RiskWarning is the early-warning payload.
type RiskWarning struct {
	Days      int           `json:"days"`
	Threshold int           `json:"threshold"`
	Students  []RiskStudent `json:"students"`
}

// ClassInfo is one distinct (grade, class) combination among enrolled
// students.
type ClassInfo struct {
	Grade string `db:"grade" json:"grade"`
	Class string `db:"class" json:"class"`
}

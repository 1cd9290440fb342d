package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// StatisticsRepository runs the aggregate queries behind the dashboard,
// analysis and early-warning endpoints. Filters are bound verbatim; the
// service layer decides what reaches this point.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new instance of StatisticsRepository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// behaviorScope builds WHERE fragments against the behaviors/students join
// (aliases b and s).
func behaviorScope(f models.StatsFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if f.StartDate != "" {
		conditions = append(conditions, "b.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		conditions = append(conditions, "b.date <= ?")
		args = append(args, f.EndDate)
	}
	if f.Grade != "" {
		conditions = append(conditions, "s.grade = ?")
		args = append(args, f.Grade)
	}
	if f.Class != "" {
		conditions = append(conditions, "s.class = ?")
		args = append(args, f.Class)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conditions, " AND "), args
}

// studentScope builds WHERE fragments against the students table alone.
func studentScope(f models.StatsFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if f.Grade != "" {
		conditions = append(conditions, "s.grade = ?")
		args = append(args, f.Grade)
	}
	if f.Class != "" {
		conditions = append(conditions, "s.class = ?")
		args = append(args, f.Class)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conditions, " AND "), args
}

// CountStudents returns the size of the student population in scope.
func (r *StatisticsRepository) CountStudents(ctx context.Context, f models.StatsFilter) (int, error) {
	scope, args := studentScope(f)
	query := `SELECT COUNT(*) FROM students s WHERE 1=1` + scope
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// CountBehaviors returns the number of behavior events in scope.
func (r *StatisticsRepository) CountBehaviors(ctx context.Context, f models.StatsFilter) (int, error) {
	scope, args := behaviorScope(f)
	query := `SELECT COUNT(*) FROM behaviors b JOIN students s ON s.id = b.student_id WHERE 1=1` + scope
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count behaviors: %w", err)
	}
	return total, nil
}

// CountBehaviorTypes returns the number of configured behavior types.
func (r *StatisticsRepository) CountBehaviorTypes(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM behavior_types`); err != nil {
		return 0, fmt.Errorf("count behavior types: %w", err)
	}
	return total, nil
}

// CategoryStats returns event and distinct-student counts per category.
// Percentage is filled by the caller against the population in scope.
func (r *StatisticsRepository) CategoryStats(ctx context.Context, f models.StatsFilter) ([]models.CategoryStat, error) {
	scope, args := behaviorScope(f)
	query := `SELECT bt.category,
			COUNT(b.id) AS total_count,
			COUNT(DISTINCT b.student_id) AS student_count,
			0 AS percentage
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE 1=1` + scope + `
		GROUP BY bt.category`
	var stats []models.CategoryStat
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return stats, nil
}

type gradeCount struct {
	Grade string `db:"grade"`
	Count int    `db:"count"`
}

// GradeDistribution returns student headcounts per grade label.
func (r *StatisticsRepository) GradeDistribution(ctx context.Context, f models.StatsFilter) (map[string]int, error) {
	scope, args := studentScope(f)
	query := `SELECT s.grade, COUNT(*) AS count FROM students s WHERE 1=1` + scope + ` GROUP BY s.grade`
	var rows []gradeCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("grade distribution: %w", err)
	}
	dist := make(map[string]int, len(rows))
	for _, row := range rows {
		dist[row.Grade] = row.Count
	}
	return dist, nil
}

// ClassRanking returns classes ranked by violation count.
func (r *StatisticsRepository) ClassRanking(ctx context.Context, f models.StatsFilter, limit int) ([]models.ClassRanking, error) {
	if limit <= 0 {
		limit = 10
	}
	scope, args := behaviorScope(f)
	query := fmt.Sprintf(`SELECT s.grade, s.class,
			COUNT(b.id) AS count,
			COUNT(DISTINCT b.student_id) AS student_count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'%s
		GROUP BY s.grade, s.class
		ORDER BY count DESC
		LIMIT %d`, scope, limit)
	var ranking []models.ClassRanking
	if err := r.db.SelectContext(ctx, &ranking, query, args...); err != nil {
		return nil, fmt.Errorf("class ranking: %w", err)
	}
	return ranking, nil
}

// Trend returns daily event counts per category.
func (r *StatisticsRepository) Trend(ctx context.Context, f models.StatsFilter) ([]models.TrendPoint, error) {
	scope, args := behaviorScope(f)
	query := `SELECT date(b.date) AS date, bt.category, COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE 1=1` + scope + `
		GROUP BY date(b.date), bt.category
		ORDER BY date(b.date)`
	var trend []models.TrendPoint
	if err := r.db.SelectContext(ctx, &trend, query, args...); err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	return trend, nil
}

// RecentViolations returns the latest violation events.
func (r *StatisticsRepository) RecentViolations(ctx context.Context, f models.StatsFilter, limit int) ([]models.RecentViolation, error) {
	if limit <= 0 {
		limit = 10
	}
	scope, args := behaviorScope(f)
	query := fmt.Sprintf(`SELECT b.date, s.name AS student_name, s.grade, s.class,
			b.behavior_type, COALESCE(b.description, '') AS description
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'%s
		ORDER BY b.date DESC
		LIMIT %d`, scope, limit)
	var recent []models.RecentViolation
	if err := r.db.SelectContext(ctx, &recent, query, args...); err != nil {
		return nil, fmt.Errorf("recent violations: %w", err)
	}
	return recent, nil
}

// TypeDistribution returns per-type event counts with their category.
// Percentage strings and colors are assigned by the caller.
func (r *StatisticsRepository) TypeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TypeDistribution, error) {
	scope, args := behaviorScope(f)
	query := `SELECT b.behavior_type AS name, bt.category, COUNT(b.id) AS value, 0 AS percentage
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE 1=1` + scope + `
		GROUP BY b.behavior_type, bt.category
		ORDER BY bt.category, value DESC`
	var dist []models.TypeDistribution
	if err := r.db.SelectContext(ctx, &dist, query, args...); err != nil {
		return nil, fmt.Errorf("type distribution: %w", err)
	}
	return dist, nil
}

// CountViolationStudents returns how many distinct students have at least
// one violation in scope.
func (r *StatisticsRepository) CountViolationStudents(ctx context.Context, f models.StatsFilter) (int, error) {
	scope, args := behaviorScope(f)
	query := `SELECT COUNT(DISTINCT b.student_id)
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'` + scope
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count violation students: %w", err)
	}
	return total, nil
}

// GradeViolationRates returns, per grade, the population and distinct
// violating students. Rates are computed by the caller.
func (r *StatisticsRepository) GradeViolationRates(ctx context.Context, f models.StatsFilter) ([]models.ViolationRate, error) {
	var dateConds []string
	var args []interface{}
	if f.StartDate != "" {
		dateConds = append(dateConds, "b.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		dateConds = append(dateConds, "b.date <= ?")
		args = append(args, f.EndDate)
	}
	joinScope := ""
	if len(dateConds) > 0 {
		joinScope = " AND " + strings.Join(dateConds, " AND ")
	}
	studScope, studArgs := studentScope(f)
	args = append(args, studArgs...)

	query := `SELECT s.grade,
			COUNT(DISTINCT s.id) AS total_students,
			COUNT(DISTINCT CASE WHEN b.id IS NOT NULL THEN s.id END) AS violation_students,
			0 AS violation_rate
		FROM students s
		LEFT JOIN behaviors b ON b.student_id = s.id
			AND b.behavior_type IN (SELECT name FROM behavior_types WHERE category = '违纪')` + joinScope + `
		WHERE 1=1` + studScope + `
		GROUP BY s.grade
		ORDER BY s.grade`
	var rates []models.ViolationRate
	if err := r.db.SelectContext(ctx, &rates, query, args...); err != nil {
		return nil, fmt.Errorf("grade violation rates: %w", err)
	}
	return rates, nil
}

// MonthlyViolations returns, per calendar month, distinct violating
// students in scope. Rates are computed by the caller against the fixed
// population.
func (r *StatisticsRepository) MonthlyViolations(ctx context.Context, f models.StatsFilter) ([]models.MonthlyViolationRate, error) {
	scope, args := behaviorScope(f)
	query := `SELECT strftime('%Y-%m', b.date) AS month,
			0 AS total_students,
			COUNT(DISTINCT b.student_id) AS violation_students,
			0 AS violation_rate
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'` + scope + `
		GROUP BY strftime('%Y-%m', b.date)
		ORDER BY month`
	var months []models.MonthlyViolationRate
	if err := r.db.SelectContext(ctx, &months, query, args...); err != nil {
		return nil, fmt.Errorf("monthly violations: %w", err)
	}
	return months, nil
}

// ViolationCountsPerStudent returns one violation count per student in
// scope, zeroes included, for frequency bucketing.
func (r *StatisticsRepository) ViolationCountsPerStudent(ctx context.Context, f models.StatsFilter) ([]int, error) {
	var dateConds []string
	var args []interface{}
	if f.StartDate != "" {
		dateConds = append(dateConds, "b.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		dateConds = append(dateConds, "b.date <= ?")
		args = append(args, f.EndDate)
	}
	joinScope := ""
	if len(dateConds) > 0 {
		joinScope = " AND " + strings.Join(dateConds, " AND ")
	}
	studScope, studArgs := studentScope(f)
	args = append(args, studArgs...)

	query := `SELECT COUNT(b.id)
		FROM students s
		LEFT JOIN behaviors b ON b.student_id = s.id
			AND b.behavior_type IN (SELECT name FROM behavior_types WHERE category = '违纪')` + joinScope + `
		WHERE 1=1` + studScope + `
		GROUP BY s.id`
	var counts []int
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("violation counts per student: %w", err)
	}
	return counts, nil
}

// TimeDistribution buckets violations into morning (06-11), afternoon
// (12-17) and evening (everything else, small hours included) by the hour
// component of their localtime date.
func (r *StatisticsRepository) TimeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TimePeriodStat, error) {
	scope, args := behaviorScope(f)
	query := `SELECT CASE
			WHEN CAST(strftime('%H', b.date) AS INTEGER) BETWEEN 6 AND 11 THEN '上午'
			WHEN CAST(strftime('%H', b.date) AS INTEGER) BETWEEN 12 AND 17 THEN '下午'
			ELSE '晚上'
		END AS period,
		COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'` + scope + `
		GROUP BY period
		ORDER BY count DESC`
	var periods []models.TimePeriodStat
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("time distribution: %w", err)
	}
	return periods, nil
}

// TopReasons returns behavior types ranked by violation frequency.
func (r *StatisticsRepository) TopReasons(ctx context.Context, f models.StatsFilter, limit int) ([]models.TopReason, error) {
	if limit <= 0 {
		limit = 5
	}
	scope, args := behaviorScope(f)
	query := fmt.Sprintf(`SELECT b.behavior_type AS name, COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'%s
		GROUP BY b.behavior_type
		ORDER BY count DESC
		LIMIT %d`, scope, limit)
	var reasons []models.TopReason
	if err := r.db.SelectContext(ctx, &reasons, query, args...); err != nil {
		return nil, fmt.Errorf("top reasons: %w", err)
	}
	return reasons, nil
}

// TypeShares returns per-type violation counts. Percentage shares are
// computed by the caller.
func (r *StatisticsRepository) TypeShares(ctx context.Context, f models.StatsFilter) ([]models.TypeShare, error) {
	scope, args := behaviorScope(f)
	query := `SELECT b.behavior_type AS name, COUNT(b.id) AS count, 0 AS percentage
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'` + scope + `
		GROUP BY b.behavior_type
		ORDER BY count DESC`
	var shares []models.TypeShare
	if err := r.db.SelectContext(ctx, &shares, query, args...); err != nil {
		return nil, fmt.Errorf("type shares: %w", err)
	}
	return shares, nil
}

// RiskStudents returns students whose violation count within the last
// `days` days reaches the threshold, most violations first. Risk tiers and
// colors are assigned by the caller.
func (r *StatisticsRepository) RiskStudents(ctx context.Context, days, threshold int) ([]models.RiskStudent, error) {
	query := fmt.Sprintf(`SELECT s.id, s.name, s.student_id, s.grade, s.class,
			COUNT(b.id) AS violation_count,
			MAX(b.date) AS last_violation
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE bt.category = '违纪'
			AND b.date >= datetime(CURRENT_TIMESTAMP, 'localtime', '-%d days')
		GROUP BY s.id
		HAVING COUNT(b.id) >= %d
		ORDER BY violation_count DESC, last_violation DESC`, days, threshold)
	var students []models.RiskStudent
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("risk students: %w", err)
	}
	return students, nil
}

// ClassInfo returns every distinct (grade, class) pair with enrolled
// students. Ordering is refined by the caller.
func (r *StatisticsRepository) ClassInfo(ctx context.Context) ([]models.ClassInfo, error) {
	const query = `SELECT DISTINCT grade, class FROM students
		WHERE class IS NOT NULL AND class != ''
		ORDER BY grade, class`
	var classes []models.ClassInfo
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("class info: %w", err)
	}
	return classes, nil
}

// BehaviorTypeStats returns event counts per behavior type.
func (r *StatisticsRepository) BehaviorTypeStats(ctx context.Context, f models.StatsFilter) ([]models.BehaviorTypeStat, error) {
	scope, args := behaviorScope(f)
	query := `SELECT b.behavior_type AS name, bt.category, COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE 1=1` + scope + `
		GROUP BY b.behavior_type, bt.category
		ORDER BY count DESC`
	var stats []models.BehaviorTypeStat
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("behavior type stats: %w", err)
	}
	return stats, nil
}

// ClassStats returns per-class, per-category event counts.
func (r *StatisticsRepository) ClassStats(ctx context.Context, f models.StatsFilter) ([]models.ClassStat, error) {
	scope, args := behaviorScope(f)
	query := `SELECT s.grade, s.class, bt.category, COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE 1=1` + scope + `
		GROUP BY s.grade, s.class, bt.category
		ORDER BY s.grade, s.class, bt.category`
	var stats []models.ClassStat
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("class stats: %w", err)
	}
	return stats, nil
}

// StudentStats returns per-type event counts for one student.
func (r *StatisticsRepository) StudentStats(ctx context.Context, studentID int64) ([]models.StudentStat, error) {
	const query = `SELECT s.name, s.grade, s.class, b.behavior_type, bt.category, COUNT(b.id) AS count
		FROM behaviors b
		JOIN students s ON s.id = b.student_id
		JOIN behavior_types bt ON bt.name = b.behavior_type
		WHERE b.student_id = ?
		GROUP BY b.behavior_type, bt.category
		ORDER BY count DESC`
	var stats []models.StudentStat
	if err := r.db.SelectContext(ctx, &stats, query, studentID); err != nil {
		return nil, fmt.Errorf("student stats: %w", err)
	}
	return stats, nil
}

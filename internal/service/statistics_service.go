package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type statisticsRepository interface {
	CountStudents(ctx context.Context, f models.StatsFilter) (int, error)
	CountBehaviors(ctx context.Context, f models.StatsFilter) (int, error)
	CountBehaviorTypes(ctx context.Context) (int, error)
	CategoryStats(ctx context.Context, f models.StatsFilter) ([]models.CategoryStat, error)
	GradeDistribution(ctx context.Context, f models.StatsFilter) (map[string]int, error)
	ClassRanking(ctx context.Context, f models.StatsFilter, limit int) ([]models.ClassRanking, error)
	Trend(ctx context.Context, f models.StatsFilter) ([]models.TrendPoint, error)
	RecentViolations(ctx context.Context, f models.StatsFilter, limit int) ([]models.RecentViolation, error)
	TypeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TypeDistribution, error)
	CountViolationStudents(ctx context.Context, f models.StatsFilter) (int, error)
	GradeViolationRates(ctx context.Context, f models.StatsFilter) ([]models.ViolationRate, error)
	MonthlyViolations(ctx context.Context, f models.StatsFilter) ([]models.MonthlyViolationRate, error)
	ViolationCountsPerStudent(ctx context.Context, f models.StatsFilter) ([]int, error)
	TimeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TimePeriodStat, error)
	TopReasons(ctx context.Context, f models.StatsFilter, limit int) ([]models.TopReason, error)
	TypeShares(ctx context.Context, f models.StatsFilter) ([]models.TypeShare, error)
	RiskStudents(ctx context.Context, days, threshold int) ([]models.RiskStudent, error)
	ClassInfo(ctx context.Context) ([]models.ClassInfo, error)
	BehaviorTypeStats(ctx context.Context, f models.StatsFilter) ([]models.BehaviorTypeStat, error)
	ClassStats(ctx context.Context, f models.StatsFilter) ([]models.ClassStat, error)
	StudentStats(ctx context.Context, studentID int64) ([]models.StudentStat, error)
}

type recentBehaviorLookup interface {
	ListRecent(ctx context.Context, limit int) ([]models.Behavior, error)
}

// Chart palettes, cycled per category slice.
var (
	violationPalette = []string{"#FF6B6B", "#FF8787", "#FFA5A5", "#FF9F43", "#FFC069", "#FFE0B2"}
	excellentPalette = []string{"#4ECDC4", "#45B7D1", "#96CEB4", "#52C41A", "#73D13D", "#95DE64"}
)

var riskColors = map[string][2]string{
	models.RiskHigh:   {"#f5222d", "#fff1f0"},
	models.RiskMedium: {"#fa8c16", "#fff7e6"},
	models.RiskLow:    {"#52c41a", "#f6ffed"},
}

var looseDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// StatisticsService aggregates behavior data for the dashboard, analysis
// and early-warning endpoints.
type StatisticsService struct {
	repo      statisticsRepository
	behaviors recentBehaviorLookup
	cache     *CacheService
	logger    *zap.Logger
}

// NewStatisticsService constructs a StatisticsService instance.
func NewStatisticsService(repo statisticsRepository, behaviors recentBehaviorLookup, cache *CacheService, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{repo: repo, behaviors: behaviors, cache: cache, logger: logger}
}

// checkFilter logs suspicious filter values. Values are still applied
// verbatim: a malformed date or unknown grade simply matches nothing, it
// never rejects the request.
func (s *StatisticsService) checkFilter(f models.StatsFilter) {
	if f.StartDate != "" && !looseDate.MatchString(f.StartDate) {
		s.logger.Warn("stats filter start_date not a date, applying verbatim", zap.String("start_date", f.StartDate))
	}
	if f.EndDate != "" && !looseDate.MatchString(f.EndDate) {
		s.logger.Warn("stats filter end_date not a date, applying verbatim", zap.String("end_date", f.EndDate))
	}
	if f.Grade != "" && !models.IsCanonicalGrade(f.Grade) {
		s.logger.Warn("stats filter grade not canonical, applying verbatim", zap.String("grade", f.Grade))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio returns a two-decimal percentage; an empty denominator yields 0.
func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(whole))
}

func cacheKey(section string, f models.StatsFilter) string {
	return fmt.Sprintf("stats:%s:%s|%s|%s|%s", section, f.StartDate, f.EndDate, f.Grade, f.Class)
}

// Dashboard builds the headline dashboard payload.
func (s *StatisticsService) Dashboard(ctx context.Context, f models.StatsFilter) (*models.DashboardStats, error) {
	s.checkFilter(f)

	key := cacheKey("dashboard", f)
	var cached models.DashboardStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	totalStudents, err := s.repo.CountStudents(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}
	totalBehaviors, err := s.repo.CountBehaviors(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}

	categoryStats, err := s.repo.CategoryStats(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}
	for i := range categoryStats {
		categoryStats[i].Percentage = ratio(categoryStats[i].TotalCount, totalStudents)
	}
	if categoryStats == nil {
		categoryStats = []models.CategoryStat{}
	}

	gradeDist, err := s.repo.GradeDistribution(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}

	ranking, err := s.repo.ClassRanking(ctx, f, 10)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}
	if ranking == nil {
		ranking = []models.ClassRanking{}
	}

	trend, err := s.repo.Trend(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}
	if trend == nil {
		trend = []models.TrendPoint{}
	}

	recent, err := s.repo.RecentViolations(ctx, f, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计数据失败")
	}
	if recent == nil {
		recent = []models.RecentViolation{}
	}

	types, err := s.TypeDistribution(ctx, f)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		Overview: models.Overview{
			TotalStudents:     totalStudents,
			TotalBehaviors:    totalBehaviors,
			BehaviorStats:     categoryStats,
			GradeDistribution: gradeDist,
		},
		ClassRanking:     ranking,
		Trend:            trend,
		RecentViolations: recent,
		TypeDistribution: types,
	}

	_ = s.cache.Set(ctx, key, stats, 0)
	return stats, nil
}

// TypeDistribution returns per-type counts with colors cycled from the
// category palette and percentage shares within each category.
func (s *StatisticsService) TypeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TypeDistribution, error) {
	s.checkFilter(f)

	dist, err := s.repo.TypeDistribution(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取类型分布失败")
	}

	categoryTotals := map[string]int{}
	for _, d := range dist {
		categoryTotals[d.Category] += d.Value
	}
	categoryIndex := map[string]int{}
	for i := range dist {
		palette := excellentPalette
		if dist[i].Category == models.CategoryViolation {
			palette = violationPalette
		}
		idx := categoryIndex[dist[i].Category]
		categoryIndex[dist[i].Category]++
		dist[i].ItemStyle = models.ItemStyle{Color: palette[idx%len(palette)]}
		dist[i].RawPercentage = ratio(dist[i].Value, categoryTotals[dist[i].Category])
		dist[i].Percentage = fmt.Sprintf("%.2f%%", dist[i].RawPercentage)
	}
	if dist == nil {
		dist = []models.TypeDistribution{}
	}
	return dist, nil
}

// Analysis builds the violation-rate payload. Each section runs
// concurrently and degrades to empty on failure so one broken aggregate
// never blanks the whole page.
func (s *StatisticsService) Analysis(ctx context.Context, f models.StatsFilter) (*models.Analysis, error) {
	s.checkFilter(f)

	key := cacheKey("analysis", f)
	var cached models.Analysis
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	totalStudents, err := s.repo.CountStudents(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取分析数据失败")
	}

	result := &models.Analysis{
		TotalStudents:         totalStudents,
		GradeViolationRates:   []models.ViolationRate{},
		MonthlyTrends:         []models.MonthlyViolationRate{},
		FrequencyDistribution: []models.FrequencyBucket{},
		TimeDistribution:      []models.TimePeriodStat{},
		TopReasons:            []models.TopReason{},
		TypeShares:            []models.TypeShare{},
	}

	var wg sync.WaitGroup
	section := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Warn("analysis section failed", zap.String("section", name), zap.Error(err))
			}
		}()
	}

	section("totals", func() error {
		violating, err := s.repo.CountViolationStudents(ctx, f)
		if err != nil {
			return err
		}
		result.TotalViolationStudents = violating
		result.TotalViolationRate = ratio(violating, totalStudents)
		return nil
	})

	section("grade_rates", func() error {
		rates, err := s.repo.GradeViolationRates(ctx, f)
		if err != nil {
			return err
		}
		for i := range rates {
			rates[i].ViolationRate = ratio(rates[i].ViolationStudents, rates[i].TotalStudents)
		}
		if rates != nil {
			result.GradeViolationRates = rates
		}
		return nil
	})

	section("monthly", func() error {
		months, err := s.repo.MonthlyViolations(ctx, f)
		if err != nil {
			return err
		}
		for i := range months {
			months[i].TotalStudents = totalStudents
			months[i].ViolationRate = ratio(months[i].ViolationStudents, totalStudents)
		}
		if months != nil {
			result.MonthlyTrends = months
		}
		return nil
	})

	section("frequency", func() error {
		counts, err := s.repo.ViolationCountsPerStudent(ctx, f)
		if err != nil {
			return err
		}
		result.FrequencyDistribution = bucketFrequencies(counts)
		return nil
	})

	section("time_of_day", func() error {
		periods, err := s.repo.TimeDistribution(ctx, f)
		if err != nil {
			return err
		}
		if periods != nil {
			result.TimeDistribution = periods
		}
		return nil
	})

	section("top_reasons", func() error {
		reasons, err := s.repo.TopReasons(ctx, f, 10)
		if err != nil {
			return err
		}
		if reasons != nil {
			result.TopReasons = reasons
		}
		return nil
	})

	section("type_shares", func() error {
		shares, err := s.repo.TypeShares(ctx, f)
		if err != nil {
			return err
		}
		total := 0
		for _, sh := range shares {
			total += sh.Count
		}
		for i := range shares {
			shares[i].Percentage = ratio(shares[i].Count, total)
		}
		if shares != nil {
			result.TypeShares = shares
		}
		return nil
	})

	wg.Wait()

	_ = s.cache.Set(ctx, key, result, 0)
	return result, nil
}

// bucketFrequencies folds per-student violation counts into the fixed
// 0..4 and 5+ buckets.
func bucketFrequencies(counts []int) []models.FrequencyBucket {
	labels := []string{"0", "1", "2", "3", "4", "5+"}
	totals := make([]int, len(labels))
	for _, c := range counts {
		if c >= 5 {
			totals[5]++
		} else {
			totals[c]++
		}
	}
	buckets := make([]models.FrequencyBucket, len(labels))
	for i, label := range labels {
		buckets[i] = models.FrequencyBucket{
			Violations: label,
			Students:   totals[i],
			Percentage: ratio(totals[i], len(counts)),
		}
	}
	return buckets
}

// RiskWarning flags students accumulating violations within the window,
// the 20 highest counts first. The monthly window uses its own thresholds;
// every other window shares the weekly ones.
func (s *StatisticsService) RiskWarning(ctx context.Context, days int) (*models.RiskWarning, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	threshold, mediumAt, highAt := 2, 3, 5
	if days == 30 {
		threshold, mediumAt, highAt = 10, 15, 20
	}

	students, err := s.repo.RiskStudents(ctx, days, threshold)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取预警数据失败")
	}
	for i := range students {
		level := models.RiskLow
		switch {
		case students[i].ViolationCount >= highAt:
			level = models.RiskHigh
		case students[i].ViolationCount >= mediumAt:
			level = models.RiskMedium
		}
		students[i].RiskLevel = level
		colors := riskColors[level]
		students[i].Color = colors[0]
		students[i].Background = colors[1]
	}
	if len(students) > 20 {
		students = students[:20]
	}
	if students == nil {
		students = []models.RiskStudent{}
	}
	return &models.RiskWarning{Days: days, Threshold: threshold, Students: students}, nil
}

// gradeRank orders the three year labels first, anything else after.
func gradeRank(grade string) int {
	switch grade {
	case models.GradeOne:
		return 0
	case models.GradeTwo:
		return 1
	case models.GradeThree:
		return 2
	default:
		return 3
	}
}

// classRank places the combined-honors class first, then numbered classes
// ascending, then everything else.
func classRank(class string) (int, int) {
	if class == "双优" {
		return 0, 0
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(class, "班")); err == nil {
		return 1, n
	}
	return 2, 0
}

// ClassInfo returns every (grade, class) combination in school order.
func (s *StatisticsService) ClassInfo(ctx context.Context) ([]models.ClassInfo, error) {
	classes, err := s.repo.ClassInfo(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取班级信息失败")
	}
	sort.SliceStable(classes, func(i, j int) bool {
		gi, gj := gradeRank(classes[i].Grade), gradeRank(classes[j].Grade)
		if gi != gj {
			return gi < gj
		}
		if gi == 3 && classes[i].Grade != classes[j].Grade {
			return classes[i].Grade < classes[j].Grade
		}
		bi, ni := classRank(classes[i].Class)
		bj, nj := classRank(classes[j].Class)
		if bi != bj {
			return bi < bj
		}
		if ni != nj {
			return ni < nj
		}
		return classes[i].Class < classes[j].Class
	})
	if classes == nil {
		classes = []models.ClassInfo{}
	}
	return classes, nil
}

// BehaviorTypeStats returns per-type event counts.
func (s *StatisticsService) BehaviorTypeStats(ctx context.Context, f models.StatsFilter) ([]models.BehaviorTypeStat, error) {
	s.checkFilter(f)
	stats, err := s.repo.BehaviorTypeStats(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取行为类型统计失败")
	}
	if stats == nil {
		stats = []models.BehaviorTypeStat{}
	}
	return stats, nil
}

// ClassStats returns per-class, per-category event counts.
func (s *StatisticsService) ClassStats(ctx context.Context, f models.StatsFilter) ([]models.ClassStat, error) {
	s.checkFilter(f)
	stats, err := s.repo.ClassStats(ctx, f)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取班级统计失败")
	}
	if stats == nil {
		stats = []models.ClassStat{}
	}
	return stats, nil
}

// StudentStats returns per-type counts for one student. A student with no
// recorded behaviors yields a 404.
func (s *StatisticsService) StudentStats(ctx context.Context, studentID int64) ([]models.StudentStat, error) {
	stats, err := s.repo.StudentStats(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取学生统计失败")
	}
	if len(stats) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "该学生暂无行为记录")
	}
	return stats, nil
}

// Summary returns compact totals with the latest events attached.
func (s *StatisticsService) Summary(ctx context.Context) (*models.Summary, error) {
	students, err := s.repo.CountStudents(ctx, models.StatsFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计摘要失败")
	}
	behaviors, err := s.repo.CountBehaviors(ctx, models.StatsFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计摘要失败")
	}
	types, err := s.repo.CountBehaviorTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取统计摘要失败")
	}
	recent, err := s.behaviors.ListRecent(ctx, 5)
	if err != nil {
		s.logger.Warn("recent behaviors lookup failed", zap.Error(err))
		recent = []models.Behavior{}
	}
	if recent == nil {
		recent = []models.Behavior{}
	}
	return &models.Summary{
		TotalStudents:      students,
		TotalBehaviors:     behaviors,
		TotalBehaviorTypes: types,
		RecentBehaviors:    recent,
	}, nil
}

// InvalidateCache drops cached statistics after a behavior mutation.
func (s *StatisticsService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "stats:*"); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

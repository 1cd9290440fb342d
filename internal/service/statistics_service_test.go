package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

type mockStatsRepo struct {
	students          int
	behaviors         int
	behaviorTypes     int
	categoryStats     []models.CategoryStat
	gradeDist         map[string]int
	ranking           []models.ClassRanking
	trend             []models.TrendPoint
	recent            []models.RecentViolation
	typeDist          []models.TypeDistribution
	violationStudents int
	gradeRates        []models.ViolationRate
	monthly           []models.MonthlyViolationRate
	perStudent        []int
	timeDist          []models.TimePeriodStat
	topReasons        []models.TopReason
	typeShares        []models.TypeShare
	riskStudents      []models.RiskStudent
	classes           []models.ClassInfo

	gradeRatesErr error
	monthlyErr    error

	recentLimit     int
	topReasonsLimit int
}

func (m *mockStatsRepo) CountStudents(ctx context.Context, f models.StatsFilter) (int, error) {
	return m.students, nil
}
func (m *mockStatsRepo) CountBehaviors(ctx context.Context, f models.StatsFilter) (int, error) {
	return m.behaviors, nil
}
func (m *mockStatsRepo) CountBehaviorTypes(ctx context.Context) (int, error) {
	return m.behaviorTypes, nil
}
func (m *mockStatsRepo) CategoryStats(ctx context.Context, f models.StatsFilter) ([]models.CategoryStat, error) {
	return m.categoryStats, nil
}
func (m *mockStatsRepo) GradeDistribution(ctx context.Context, f models.StatsFilter) (map[string]int, error) {
	return m.gradeDist, nil
}
func (m *mockStatsRepo) ClassRanking(ctx context.Context, f models.StatsFilter, limit int) ([]models.ClassRanking, error) {
	return m.ranking, nil
}
func (m *mockStatsRepo) Trend(ctx context.Context, f models.StatsFilter) ([]models.TrendPoint, error) {
	return m.trend, nil
}
func (m *mockStatsRepo) RecentViolations(ctx context.Context, f models.StatsFilter, limit int) ([]models.RecentViolation, error) {
	m.recentLimit = limit
	return m.recent, nil
}
func (m *mockStatsRepo) TypeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TypeDistribution, error) {
	return m.typeDist, nil
}
func (m *mockStatsRepo) CountViolationStudents(ctx context.Context, f models.StatsFilter) (int, error) {
	return m.violationStudents, nil
}
func (m *mockStatsRepo) GradeViolationRates(ctx context.Context, f models.StatsFilter) ([]models.ViolationRate, error) {
	return m.gradeRates, m.gradeRatesErr
}
func (m *mockStatsRepo) MonthlyViolations(ctx context.Context, f models.StatsFilter) ([]models.MonthlyViolationRate, error) {
	return m.monthly, m.monthlyErr
}
func (m *mockStatsRepo) ViolationCountsPerStudent(ctx context.Context, f models.StatsFilter) ([]int, error) {
	return m.perStudent, nil
}
func (m *mockStatsRepo) TimeDistribution(ctx context.Context, f models.StatsFilter) ([]models.TimePeriodStat, error) {
	return m.timeDist, nil
}
func (m *mockStatsRepo) TopReasons(ctx context.Context, f models.StatsFilter, limit int) ([]models.TopReason, error) {
	m.topReasonsLimit = limit
	return m.topReasons, nil
}
func (m *mockStatsRepo) TypeShares(ctx context.Context, f models.StatsFilter) ([]models.TypeShare, error) {
	return m.typeShares, nil
}
func (m *mockStatsRepo) RiskStudents(ctx context.Context, days, threshold int) ([]models.RiskStudent, error) {
	return m.riskStudents, nil
}
func (m *mockStatsRepo) ClassInfo(ctx context.Context) ([]models.ClassInfo, error) {
	return m.classes, nil
}
func (m *mockStatsRepo) BehaviorTypeStats(ctx context.Context, f models.StatsFilter) ([]models.BehaviorTypeStat, error) {
	return nil, nil
}
func (m *mockStatsRepo) ClassStats(ctx context.Context, f models.StatsFilter) ([]models.ClassStat, error) {
	return nil, nil
}
func (m *mockStatsRepo) StudentStats(ctx context.Context, studentID int64) ([]models.StudentStat, error) {
	return nil, nil
}

type mockRecentLookup struct {
	recent []models.Behavior
}

func (m *mockRecentLookup) ListRecent(ctx context.Context, limit int) ([]models.Behavior, error) {
	return m.recent, nil
}

func newStatsService(repo *mockStatsRepo) *StatisticsService {
	return NewStatisticsService(repo, &mockRecentLookup{}, nil, nil)
}

func TestBucketFrequencies(t *testing.T) {
	buckets := bucketFrequencies([]int{0, 0, 1, 2, 5, 9})
	require.Len(t, buckets, 6)
	assert.Equal(t, "0", buckets[0].Violations)
	assert.Equal(t, 2, buckets[0].Students)
	assert.Equal(t, 1, buckets[1].Students)
	assert.Equal(t, 1, buckets[2].Students)
	assert.Equal(t, 0, buckets[3].Students)
	assert.Equal(t, "5+", buckets[5].Violations)
	assert.Equal(t, 2, buckets[5].Students)
	assert.Equal(t, 33.33, buckets[0].Percentage)
}

func TestBucketFrequenciesEmptyPopulation(t *testing.T) {
	buckets := bucketFrequencies(nil)
	require.Len(t, buckets, 6)
	for _, b := range buckets {
		assert.Zero(t, b.Students)
		assert.Zero(t, b.Percentage)
	}
}

func TestTypeDistributionColorsAndShares(t *testing.T) {
	repo := &mockStatsRepo{typeDist: []models.TypeDistribution{
		{Name: "迟到", Category: models.CategoryViolation, Value: 30},
		{Name: "打架", Category: models.CategoryViolation, Value: 10},
		{Name: "获奖", Category: models.CategoryExcellent, Value: 5},
	}}
	svc := newStatsService(repo)

	dist, err := svc.TypeDistribution(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, dist, 3)

	assert.Equal(t, "#FF6B6B", dist[0].ItemStyle.Color)
	assert.Equal(t, "#FF8787", dist[1].ItemStyle.Color)
	assert.Equal(t, "#4ECDC4", dist[2].ItemStyle.Color)

	assert.Equal(t, "75.00%", dist[0].Percentage)
	assert.Equal(t, "25.00%", dist[1].Percentage)
	assert.Equal(t, "100.00%", dist[2].Percentage)
}

func TestRiskWarningShortWindowTiers(t *testing.T) {
	repo := &mockStatsRepo{riskStudents: []models.RiskStudent{
		{ID: 1, Name: "甲", ViolationCount: 6},
		{ID: 2, Name: "乙", ViolationCount: 3},
		{ID: 3, Name: "丙", ViolationCount: 2},
	}}
	svc := newStatsService(repo)

	warning, err := svc.RiskWarning(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, warning.Days)
	assert.Equal(t, 2, warning.Threshold)
	assert.Equal(t, models.RiskHigh, warning.Students[0].RiskLevel)
	assert.Equal(t, models.RiskMedium, warning.Students[1].RiskLevel)
	assert.Equal(t, models.RiskLow, warning.Students[2].RiskLevel)
	assert.Equal(t, "#f5222d", warning.Students[0].Color)
	assert.Equal(t, "#f6ffed", warning.Students[2].Background)
}

func TestRiskWarningLongWindowTiers(t *testing.T) {
	repo := &mockStatsRepo{riskStudents: []models.RiskStudent{
		{ID: 1, ViolationCount: 25},
		{ID: 2, ViolationCount: 16},
		{ID: 3, ViolationCount: 11},
	}}
	svc := newStatsService(repo)

	warning, err := svc.RiskWarning(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 10, warning.Threshold)
	assert.Equal(t, models.RiskHigh, warning.Students[0].RiskLevel)
	assert.Equal(t, models.RiskMedium, warning.Students[1].RiskLevel)
	assert.Equal(t, models.RiskLow, warning.Students[2].RiskLevel)
}

func TestRiskWarningDefaultsDays(t *testing.T) {
	svc := newStatsService(&mockStatsRepo{})

	warning, err := svc.RiskWarning(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, warning.Days)
	assert.Equal(t, 10, warning.Threshold)
	assert.Empty(t, warning.Students)
}

func TestRiskWarningMidWindowUsesBaseThreshold(t *testing.T) {
	repo := &mockStatsRepo{riskStudents: []models.RiskStudent{
		{ID: 1, ViolationCount: 6},
		{ID: 2, ViolationCount: 2},
	}}
	svc := newStatsService(repo)

	warning, err := svc.RiskWarning(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, 14, warning.Days)
	assert.Equal(t, 2, warning.Threshold)
	assert.Equal(t, models.RiskHigh, warning.Students[0].RiskLevel)
	assert.Equal(t, models.RiskLow, warning.Students[1].RiskLevel)
}

func TestRiskWarningCapsAtTwenty(t *testing.T) {
	students := make([]models.RiskStudent, 25)
	for i := range students {
		students[i] = models.RiskStudent{ID: int64(i + 1), ViolationCount: 30 - i}
	}
	svc := newStatsService(&mockStatsRepo{riskStudents: students})

	warning, err := svc.RiskWarning(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, warning.Students, 20)
	assert.Equal(t, int64(1), warning.Students[0].ID)
	assert.Equal(t, int64(20), warning.Students[19].ID)
}

func TestClassInfoOrdering(t *testing.T) {
	repo := &mockStatsRepo{classes: []models.ClassInfo{
		{Grade: "高三", Class: "2班"},
		{Grade: "高一", Class: "10班"},
		{Grade: "高一", Class: "双优"},
		{Grade: "高一", Class: "2班"},
		{Grade: "2026级", Class: "1班"},
		{Grade: "高二", Class: "1班"},
	}}
	svc := newStatsService(repo)

	classes, err := svc.ClassInfo(context.Background())
	require.NoError(t, err)

	got := make([][2]string, 0, len(classes))
	for _, c := range classes {
		got = append(got, [2]string{c.Grade, c.Class})
	}
	want := [][2]string{
		{"高一", "双优"},
		{"高一", "2班"},
		{"高一", "10班"},
		{"高二", "1班"},
		{"高三", "2班"},
		{"2026级", "1班"},
	}
	assert.Equal(t, want, got)
}

func TestAnalysisComputesRates(t *testing.T) {
	repo := &mockStatsRepo{
		students:          200,
		violationStudents: 30,
		gradeRates: []models.ViolationRate{
			{Grade: "高一", TotalStudents: 100, ViolationStudents: 8},
			{Grade: "高二", TotalStudents: 0, ViolationStudents: 0},
		},
		monthly: []models.MonthlyViolationRate{
			{Month: "2026-03", ViolationStudents: 10},
		},
		perStudent: []int{0, 1, 5},
	}
	svc := newStatsService(repo)

	analysis, err := svc.Analysis(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 200, analysis.TotalStudents)
	assert.Equal(t, 30, analysis.TotalViolationStudents)
	assert.Equal(t, 15.0, analysis.TotalViolationRate)

	require.Len(t, analysis.GradeViolationRates, 2)
	assert.Equal(t, 8.0, analysis.GradeViolationRates[0].ViolationRate)
	assert.Zero(t, analysis.GradeViolationRates[1].ViolationRate)

	require.Len(t, analysis.MonthlyTrends, 1)
	assert.Equal(t, 200, analysis.MonthlyTrends[0].TotalStudents)
	assert.Equal(t, 5.0, analysis.MonthlyTrends[0].ViolationRate)

	require.Len(t, analysis.FrequencyDistribution, 6)
}

func TestAnalysisSectionDegradesToEmpty(t *testing.T) {
	repo := &mockStatsRepo{
		students:      100,
		gradeRatesErr: errors.New("boom"),
		monthlyErr:    errors.New("boom"),
	}
	svc := newStatsService(repo)

	analysis, err := svc.Analysis(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, analysis.GradeViolationRates)
	assert.Empty(t, analysis.MonthlyTrends)
	assert.NotNil(t, analysis.FrequencyDistribution)
}

func TestDashboardPercentagesAgainstPopulation(t *testing.T) {
	repo := &mockStatsRepo{
		students:  50,
		behaviors: 80,
		categoryStats: []models.CategoryStat{
			{Category: models.CategoryViolation, TotalCount: 60, StudentCount: 10},
		},
		gradeDist: map[string]int{"高一": 50},
	}
	svc := newStatsService(repo)

	stats, err := svc.Dashboard(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Overview.TotalStudents)
	require.Len(t, stats.Overview.BehaviorStats, 1)
	assert.Equal(t, 120.0, stats.Overview.BehaviorStats[0].Percentage)
	assert.NotNil(t, stats.ClassRanking)
	assert.NotNil(t, stats.TypeDistribution)
}

func TestDashboardAndAnalysisListSizes(t *testing.T) {
	repo := &mockStatsRepo{students: 10}
	svc := newStatsService(repo)

	_, err := svc.Dashboard(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.recentLimit)

	_, err = svc.Analysis(context.Background(), models.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.topReasonsLimit)
}

func TestSummaryTotals(t *testing.T) {
	repo := &mockStatsRepo{students: 10, behaviors: 4, behaviorTypes: 6}
	svc := newStatsService(repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalStudents)
	assert.Equal(t, 4, summary.TotalBehaviors)
	assert.Equal(t, 6, summary.TotalBehaviorTypes)
	assert.NotNil(t, summary.RecentBehaviors)
}

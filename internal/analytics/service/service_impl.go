package service

import (
	"context"
	"sort"

	"github.com/talenthq/hireline/internal/analytics/domain"
	appdomain "github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Apps appdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	apps appdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("analytics.service"),
		apps: p.Apps,
	}
}

// Summary aggregates in memory. The collection is human-sized (a hiring
// pipeline, not an event stream), so there is no need to push the math into
// dialect-specific SQL.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	apps, err := s.apps.List(ctx, s.db, appdomain.ListFilter{}, pagination.Pagination{})
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		ApplicationsByStatus:   map[string]int{},
		ApplicationsByPosition: map[string]int{},
		ApplicationTrends:      []domain.TrendPoint{},
	}
	for _, status := range appdomain.Statuses() {
		summary.ApplicationsByStatus[status.String()] = 0
	}

	trend := map[string]int{}
	var shortlisted int
	var processingDays float64

	for _, app := range apps {
		if app == nil {
			continue
		}
		summary.TotalApplications++
		summary.ApplicationsByStatus[app.Status.String()]++
		summary.ApplicationsByPosition[app.Position]++
		trend[app.ApplicationDate]++

		if app.Status == appdomain.StatusShortlisted {
			shortlisted++
			processingDays += app.UpdatedAt.Sub(app.CreatedAt).Hours() / 24
		}
	}

	if summary.TotalApplications > 0 {
		summary.ApprovalRate = float64(shortlisted) / float64(summary.TotalApplications)
	}
	if shortlisted > 0 {
		summary.AverageProcessingDays = processingDays / float64(shortlisted)
	}

	dates := make([]string, 0, len(trend))
	for date := range trend {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		summary.ApplicationTrends = append(summary.ApplicationTrends, domain.TrendPoint{
			Date:  date,
			Count: trend[date],
		})
	}

	return summary, nil
}

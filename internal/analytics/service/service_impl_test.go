package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talenthq/hireline/internal/analytics/domain"
	appdomain "github.com/talenthq/hireline/internal/application/domain"
	apprepository "github.com/talenthq/hireline/internal/application/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&appdomain.Application{}, &appdomain.Note{}))

	svc := New(Params{
		DB:   db,
		Log:  zaptest.NewLogger(t),
		Apps: apprepository.Provide(),
	})
	return svc, db
}

func seedApplication(t *testing.T, db *gorm.DB, id int64, position string, status appdomain.Status, date string, createdAt, updatedAt time.Time) {
	t.Helper()
	app := appdomain.Application{
		ID:              snowflake.ID(id),
		FirstName:       "Seed",
		LastName:        fmt.Sprintf("Candidate%d", id),
		Email:           fmt.Sprintf("seed%d@example.com", id),
		Position:        position,
		ApplicationDate: date,
		Status:          status,
		Skills:          []string{},
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	require.NoError(t, db.Create(&app).Error)
}

func TestSummary(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	seedApplication(t, db, 1, "Backend Engineer", appdomain.StatusSubmitted, "2025-06-01", base, base)
	seedApplication(t, db, 2, "Backend Engineer", appdomain.StatusInterview, "2025-06-01", base.Add(time.Minute), base.Add(24*time.Hour))
	seedApplication(t, db, 3, "Frontend Engineer", appdomain.StatusShortlisted, "2025-06-02", base, base.Add(2*24*time.Hour))
	seedApplication(t, db, 4, "Frontend Engineer", appdomain.StatusShortlisted, "2025-06-03", base, base.Add(4*24*time.Hour))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalApplications)
	assert.Equal(t, 1, summary.ApplicationsByStatus["submitted"])
	assert.Equal(t, 1, summary.ApplicationsByStatus["interview"])
	assert.Equal(t, 2, summary.ApplicationsByStatus["shortlisted"])
	assert.Equal(t, 2, summary.ApplicationsByPosition["Backend Engineer"])
	assert.Equal(t, 2, summary.ApplicationsByPosition["Frontend Engineer"])

	assert.InDelta(t, 0.5, summary.ApprovalRate, 1e-9)
	assert.InDelta(t, 3.0, summary.AverageProcessingDays, 1e-6)

	require.Len(t, summary.ApplicationTrends, 3)
	assert.Equal(t, domain.TrendPoint{Date: "2025-06-01", Count: 2}, summary.ApplicationTrends[0])
	assert.Equal(t, domain.TrendPoint{Date: "2025-06-02", Count: 1}, summary.ApplicationTrends[1])
	assert.Equal(t, domain.TrendPoint{Date: "2025-06-03", Count: 1}, summary.ApplicationTrends[2])
}

func TestSummaryEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalApplications)
	assert.Zero(t, summary.ApprovalRate)
	assert.Zero(t, summary.AverageProcessingDays)
	assert.Empty(t, summary.ApplicationTrends)
	assert.Equal(t, 0, summary.ApplicationsByStatus["submitted"])
}

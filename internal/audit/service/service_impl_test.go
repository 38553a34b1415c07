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
	"github.com/talenthq/hireline/internal/audit/domain"
	"github.com/talenthq/hireline/internal/audit/repository"
	"github.com/talenthq/hireline/internal/clock"
	"github.com/talenthq/hireline/internal/reqcontext"
	"github.com/talenthq/hireline/pkg/db/pagination"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, fake, db
}

func TestAuditLog(t *testing.T) {
	svc, _, db := newTestService(t)

	t.Run("resolves actor from context", func(t *testing.T) {
		ctx := reqcontext.WithActor(context.Background(), reqcontext.Actor{
			Type: "user",
			ID:   "42",
			Name: "Reviewer",
		})
		ctx = reqcontext.WithRequestID(ctx, "req-123")

		targetID := "100"
		err := svc.AuditLog(ctx, "", nil, "application.set_status", "application", &targetID, map[string]any{
			"status": "interview",
		})
		require.NoError(t, err)

		var entry domain.AuditLog
		require.NoError(t, db.Where("action = ?", "application.set_status").First(&entry).Error)
		assert.Equal(t, "user", entry.ActorType)
		require.NotNil(t, entry.ActorID)
		assert.Equal(t, "42", *entry.ActorID)
		assert.Equal(t, "req-123", entry.Metadata["request_id"])
		assert.Equal(t, "interview", entry.Metadata["status"])
	})

	t.Run("falls back to anonymous", func(t *testing.T) {
		err := svc.AuditLog(context.Background(), "", nil, "application.create", "application", nil, nil)
		require.NoError(t, err)

		var entry domain.AuditLog
		require.NoError(t, db.Where("action = ?", "application.create").First(&entry).Error)
		assert.Equal(t, "anonymous", entry.ActorType)
	})

	t.Run("rejects blank action", func(t *testing.T) {
		err := svc.AuditLog(context.Background(), "user", nil, "   ", "application", nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidAction)
	})
}

func TestListAuditLogs(t *testing.T) {
	svc, fake, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		action := "application.create"
		if i%2 == 1 {
			action = "application.set_status"
		}
		require.NoError(t, svc.AuditLog(ctx, "user", nil, action, "application", nil, nil))
		fake.Advance(time.Minute)
	}

	t.Run("newest first with cursor", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListAuditLogRequest{})
		require.NoError(t, err)
		require.Len(t, page.AuditLogs, 5)
		assert.True(t, page.AuditLogs[0].CreatedAt.After(page.AuditLogs[4].CreatedAt))
	})

	t.Run("paginates", func(t *testing.T) {
		first, err := svc.List(ctx, domain.ListAuditLogRequest{
			Pagination: pagination.Pagination{PageSize: 2},
		})
		require.NoError(t, err)
		require.Len(t, first.AuditLogs, 2)
		assert.True(t, first.HasMore)

		rest, err := svc.List(ctx, domain.ListAuditLogRequest{
			Pagination: pagination.Pagination{PageSize: 10, PageToken: first.NextPageToken},
		})
		require.NoError(t, err)
		assert.Len(t, rest.AuditLogs, 3)
		assert.False(t, rest.HasMore)
	})

	t.Run("filters by action", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListAuditLogRequest{Action: "application.set_status"})
		require.NoError(t, err)
		assert.Len(t, page.AuditLogs, 2)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		start := fake.Now()
		end := start.Add(-time.Hour)
		_, err := svc.List(ctx, domain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	})

	t.Run("rejects garbage page token", func(t *testing.T) {
		_, err := svc.List(ctx, domain.ListAuditLogRequest{
			Pagination: pagination.Pagination{PageSize: 10, PageToken: "zzz"},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
	})
}

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
	"github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/internal/application/repository"
	"github.com/talenthq/hireline/internal/clock"
	"github.com/talenthq/hireline/internal/config"
	"github.com/talenthq/hireline/internal/reference"
	referencedomain "github.com/talenthq/hireline/internal/reference/domain"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Application{},
		&domain.Note{},
		&referencedomain.Position{},
	))

	require.NoError(t, db.Create(&referencedomain.Position{
		Slug: "backend-engineer",
		Name: "Backend Engineer",
	}).Error)
	require.NoError(t, db.Create(&referencedomain.Position{
		Slug: "frontend-engineer",
		Name: "Frontend Engineer",
	}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		Positions: reference.Provide(),
		Pipeline:  config.NewStaticPipelineConfigHolder(config.DefaultPipelineConfig()),
	})

	return svc, fake, db
}

func createApplication(t *testing.T, svc domain.Service, firstName string) domain.Application {
	t.Helper()
	app, err := svc.Create(context.Background(), domain.CreateApplicationRequest{
		FirstName: firstName,
		LastName:  "Candidate",
		Email:     fmt.Sprintf("%s@example.com", firstName),
		Position:  "Backend Engineer",
		Skills:    []string{"Go"},
	})
	require.NoError(t, err)
	return app
}

func TestCreate(t *testing.T) {
	svc, fake, _ := newTestService(t)
	ctx := context.Background()

	t.Run("forces submitted status", func(t *testing.T) {
		app, err := svc.Create(ctx, domain.CreateApplicationRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Position:  "Backend Engineer",
			Skills:    []string{"Go", "  ", "PostgreSQL"},
		})
		require.NoError(t, err)

		assert.NotZero(t, app.ID)
		assert.Equal(t, domain.StatusSubmitted, app.Status)
		assert.Equal(t, fake.Now().Format("2006-01-02"), app.ApplicationDate)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(app.Skills))

		got, err := svc.GetByID(ctx, domain.GetApplicationRequest{ID: app.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, got.Status)
	})

	t.Run("rejects unknown position", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateApplicationRequest{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Position:  "Data Scientist",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateApplicationRequest{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "not-an-email",
			Position:  "Backend Engineer",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("rejects missing names", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateApplicationRequest{
			FirstName: "   ",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Position:  "Backend Engineer",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidFirstName)
	})
}

func TestSetStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("forward move without reason leaves no note", func(t *testing.T) {
		app := createApplication(t, svc, "forwarda")

		updated, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "interview",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInterview, updated.Status)
		assert.Empty(t, updated.Notes)
	})

	t.Run("forward move with reason appends system note", func(t *testing.T) {
		app := createApplication(t, svc, "forwardb")

		updated, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "interview",
			Reason: "strong phone screen",
		})
		require.NoError(t, err)
		require.Len(t, updated.Notes, 1)

		note := updated.Notes[0]
		assert.Equal(t, domain.SystemAuthorID, note.AuthorID)
		assert.Equal(t, "Status changed from submitted to interview: strong phone screen", note.Content)
	})

	t.Run("backward move requires reason", func(t *testing.T) {
		app := createApplication(t, svc, "backwarda")

		_, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "interview",
		})
		require.NoError(t, err)

		_, err = svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "submitted",
		})
		assert.ErrorIs(t, err, domain.ErrReasonRequired)

		updated, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "submitted",
			Reason: "missing portfolio",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, updated.Status)
		require.Len(t, updated.Notes, 1)
		assert.Equal(t, "Status changed from interview to submitted: missing portfolio", updated.Notes[0].Content)
	})

	t.Run("rejects disallowed transition", func(t *testing.T) {
		app := createApplication(t, svc, "stucka")

		_, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "submitted",
			Reason: "noop",
		})
		var tErr *domain.TransitionError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, domain.StatusSubmitted, tErr.Current)
		assert.Equal(t, domain.StatusSubmitted, tErr.Requested)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		app := createApplication(t, svc, "unknowner")

		_, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     app.ID.String(),
			Status: "hired",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("missing application", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     "123456789",
			Status: "interview",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddNote(t *testing.T) {
	svc, fake, _ := newTestService(t)
	ctx := context.Background()

	t.Run("appends note and touches updated_at", func(t *testing.T) {
		app := createApplication(t, svc, "noted")
		fake.Advance(time.Hour)

		note, err := svc.AddNote(ctx, domain.AddNoteRequest{
			ID:         app.ID.String(),
			AuthorID:   "42",
			AuthorName: "Reviewer",
			Content:    "  solid take-home  ",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, note.ID)
		assert.Equal(t, "solid take-home", note.Content)

		got, err := svc.GetByID(ctx, domain.GetApplicationRequest{ID: app.ID.String()})
		require.NoError(t, err)
		require.Len(t, got.Notes, 1)
		assert.True(t, got.UpdatedAt.After(app.UpdatedAt))
	})

	t.Run("defaults author to system", func(t *testing.T) {
		app := createApplication(t, svc, "anonnote")

		note, err := svc.AddNote(ctx, domain.AddNoteRequest{
			ID:      app.ID.String(),
			Content: "from intake",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SystemAuthorID, note.AuthorID)
		assert.Equal(t, domain.SystemAuthorName, note.AuthorName)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		app := createApplication(t, svc, "emptynote")

		_, err := svc.AddNote(ctx, domain.AddNoteRequest{
			ID:      app.ID.String(),
			Content: "   ",
		})
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})

	t.Run("missing application", func(t *testing.T) {
		_, err := svc.AddNote(ctx, domain.AddNoteRequest{
			ID:      "987654321",
			Content: "orphan",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBulkSetStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := svc.BulkSetStatus(ctx, domain.BulkSetStatusRequest{Status: "interview"})
		assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	})

	t.Run("rejects unknown status up front", func(t *testing.T) {
		_, err := svc.BulkSetStatus(ctx, domain.BulkSetStatusRequest{
			IDs:    []string{"1"},
			Status: "hired",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("partial success reports per item", func(t *testing.T) {
		first := createApplication(t, svc, "bulka")
		second := createApplication(t, svc, "bulkb")

		// Move the second one ahead so the bulk transition fails for it.
		_, err := svc.SetStatus(ctx, domain.SetStatusRequest{
			ID:     second.ID.String(),
			Status: "interview",
		})
		require.NoError(t, err)

		results, err := svc.BulkSetStatus(ctx, domain.BulkSetStatusRequest{
			IDs:    []string{first.ID.String(), "111222333", second.ID.String()},
			Status: "interview",
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].OK)
		require.NotNil(t, results[0].Application)
		assert.Equal(t, domain.StatusInterview, results[0].Application.Status)

		assert.False(t, results[1].OK)
		assert.Equal(t, domain.BulkCodeNotFound, results[1].Code)

		assert.False(t, results[2].OK)
		assert.Equal(t, domain.BulkCodeInvalidTransition, results[2].Code)

		// The failed items never roll back the successful one.
		got, err := svc.GetByID(ctx, domain.GetApplicationRequest{ID: first.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInterview, got.Status)
	})
}

func TestList(t *testing.T) {
	svc, fake, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, name := range names {
		createApplication(t, svc, name)
		fake.Advance(time.Minute)
	}

	t.Run("paginates with cursor", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListApplicationsRequest{PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Applications, 2)
		assert.True(t, page.HasMore)
		require.NotEmpty(t, page.NextPageToken)
		assert.Equal(t, "alpha", page.Applications[0].FirstName)

		rest, err := svc.List(ctx, domain.ListApplicationsRequest{
			PageSize:  10,
			PageToken: page.NextPageToken,
		})
		require.NoError(t, err)
		require.Len(t, rest.Applications, 3)
		assert.False(t, rest.HasMore)
		assert.Equal(t, "charlie", rest.Applications[0].FirstName)
	})

	t.Run("filters by status", func(t *testing.T) {
		apps, err := svc.List(ctx, domain.ListApplicationsRequest{Statuses: []string{"submitted"}})
		require.NoError(t, err)
		assert.Len(t, apps.Applications, 5)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		_, err := svc.List(ctx, domain.ListApplicationsRequest{Statuses: []string{"hired"}})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("searches case-insensitively", func(t *testing.T) {
		apps, err := svc.List(ctx, domain.ListApplicationsRequest{Search: "CHARLIE@"})
		require.NoError(t, err)
		require.Len(t, apps.Applications, 1)
		assert.Equal(t, "charlie", apps.Applications[0].FirstName)
	})
}

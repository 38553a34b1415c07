package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/internal/clock"
	"github.com/talenthq/hireline/internal/config"
	referencedomain "github.com/talenthq/hireline/internal/reference/domain"
	"github.com/talenthq/hireline/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Positions referencedomain.Repository
	Pipeline  *config.PipelineConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	positions referencedomain.Repository
	pipeline  *config.PipelineConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("application.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		positions: p.Positions,
		pipeline:  p.Pipeline,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateApplicationRequest) (domain.Application, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return domain.Application{}, domain.ErrInvalidFirstName
	}

	lastName := strings.TrimSpace(req.LastName)
	if lastName == "" {
		return domain.Application{}, domain.ErrInvalidLastName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return domain.Application{}, domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Application{}, domain.ErrInvalidEmail
	}

	position := strings.TrimSpace(req.Position)
	if position == "" {
		return domain.Application{}, domain.ErrInvalidPosition
	}
	known, err := s.positions.ExistsByName(ctx, s.db, position)
	if err != nil {
		return domain.Application{}, err
	}
	if !known {
		return domain.Application{}, domain.ErrInvalidPosition
	}

	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}

	// The requested status is never client-settable: every application
	// enters the pipeline as submitted.
	now := s.clock.Now()
	app := domain.Application{
		ID:                 s.genID.Generate(),
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		Phone:              strings.TrimSpace(req.Phone),
		Position:           position,
		ApplicationDate:    now.Format("2006-01-02"),
		Status:             domain.StatusSubmitted,
		Experience:         strings.TrimSpace(req.Experience),
		Education:          strings.TrimSpace(req.Education),
		Skills:             skills,
		ResumeURL:          strings.TrimSpace(req.ResumeURL),
		PortfolioURL:       strings.TrimSpace(req.PortfolioURL),
		CoverLetter:        strings.TrimSpace(req.CoverLetter),
		ExpectedSalary:     strings.TrimSpace(req.ExpectedSalary),
		AvailableStartDate: strings.TrimSpace(req.AvailableStartDate),
		Notes:              []domain.Note{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &app); err != nil {
		return domain.Application{}, err
	}

	return app, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetApplicationRequest) (domain.Application, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Application{}, err
	}

	app, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Application{}, err
	}
	if app == nil {
		return domain.Application{}, domain.ErrNotFound
	}

	return *app, nil
}

func (s *Service) List(ctx context.Context, req domain.ListApplicationsRequest) (domain.ListApplicationsResponse, error) {
	statuses := make([]domain.Status, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.ListApplicationsResponse{}, err
		}
		statuses = append(statuses, status)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	search := strings.TrimSpace(req.Search)
	filter := domain.ListFilter{
		Statuses:  statuses,
		Positions: trimAll(req.Positions),
		Reviewers: trimAll(req.Reviewers),
	}

	// With a free-text term the page must be cut after the in-memory
	// filter, otherwise matching rows beyond the SQL page would be lost.
	repoPage := pagination.Pagination{PageToken: req.PageToken, PageSize: pageSize}
	if search != "" {
		repoPage.PageSize = 0
	}

	items, err := s.repo.List(ctx, s.db, filter, repoPage)
	if err != nil {
		return domain.ListApplicationsResponse{}, err
	}

	if search != "" {
		items = domain.Filter{Search: search}.Apply(items)
		if len(items) > pageSize+1 {
			items = items[:pageSize+1]
		}
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(app *domain.Application) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        app.ID.String(),
			CreatedAt: app.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	apps := make([]domain.Application, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		apps = append(apps, *item)
	}

	resp := domain.ListApplicationsResponse{Applications: apps}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) SetStatus(ctx context.Context, req domain.SetStatusRequest) (domain.Application, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Application{}, err
	}

	requested, err := domain.ParseStatus(req.Status)
	if err != nil {
		return domain.Application{}, err
	}

	reason := strings.TrimSpace(req.Reason)

	var updated domain.Application
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so concurrent writers are
		// validated against the row they actually mutate.
		app, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}

		direction, err := s.table().Validate(app.Status, requested)
		if err != nil {
			return err
		}
		if direction == domain.DirectionBackward && reason == "" {
			return domain.ErrReasonRequired
		}

		now := s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, id, requested, now); err != nil {
			return err
		}

		if reason != "" {
			note := domain.Note{
				ID:            ulid.Make().String(),
				ApplicationID: id,
				AuthorID:      domain.SystemAuthorID,
				AuthorName:    domain.SystemAuthorName,
				Content:       fmt.Sprintf("Status changed from %s to %s: %s", app.Status, requested, reason),
				IsInternal:    true,
				CreatedAt:     now,
			}
			if err := s.repo.InsertNote(ctx, tx, &note); err != nil {
				return err
			}
			app.Notes = append(app.Notes, note)
		}

		app.Status = requested
		app.UpdatedAt = now
		updated = *app
		return nil
	})
	if err != nil {
		return domain.Application{}, err
	}

	return updated, nil
}

func (s *Service) AddNote(ctx context.Context, req domain.AddNoteRequest) (domain.Note, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Note{}, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.Note{}, domain.ErrEmptyContent
	}

	authorID := strings.TrimSpace(req.AuthorID)
	if authorID == "" {
		authorID = domain.SystemAuthorID
	}
	authorName := strings.TrimSpace(req.AuthorName)
	if authorName == "" {
		authorName = domain.SystemAuthorName
	}

	var note domain.Note
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}

		now := s.clock.Now()
		note = domain.Note{
			ID:            ulid.Make().String(),
			ApplicationID: id,
			AuthorID:      authorID,
			AuthorName:    authorName,
			Content:       content,
			IsInternal:    true,
			CreatedAt:     now,
		}
		if err := s.repo.InsertNote(ctx, tx, &note); err != nil {
			return err
		}
		return s.repo.TouchUpdatedAt(ctx, tx, id, now)
	})
	if err != nil {
		return domain.Note{}, err
	}

	return note, nil
}

// BulkSetStatus applies the status change to each id independently. Partial
// success is the contract: one id failing never blocks or rolls back the
// others, and every id gets its own result entry.
func (s *Service) BulkSetStatus(ctx context.Context, req domain.BulkSetStatusRequest) ([]domain.BulkItemResult, error) {
	if len(req.IDs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if _, err := domain.ParseStatus(req.Status); err != nil {
		return nil, err
	}

	results := make([]domain.BulkItemResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		app, err := s.SetStatus(ctx, domain.SetStatusRequest{
			ID:     id,
			Status: req.Status,
			Reason: req.Reason,
		})
		if err != nil {
			results = append(results, bulkFailure(id, err))
			continue
		}
		results = append(results, domain.BulkItemResult{
			ID:          id,
			OK:          true,
			Application: &app,
		})
	}

	return results, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) table() domain.TransitionTable {
	cfg := s.pipeline.Get()
	table, err := domain.NewTransitionTable(cfg.Forward, cfg.Backward)
	if err != nil {
		s.log.Warn("invalid pipeline config, falling back to defaults", zap.Error(err))
		return domain.DefaultTransitionTable()
	}
	return table
}

func bulkFailure(id string, err error) domain.BulkItemResult {
	result := domain.BulkItemResult{ID: id, Message: err.Error()}

	var transitionErr *domain.TransitionError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		result.Code = domain.BulkCodeNotFound
	case errors.Is(err, domain.ErrReasonRequired), errors.Is(err, domain.ErrInvalidStatus):
		result.Code = domain.BulkCodeInvalidRequest
	case errors.As(err, &transitionErr):
		result.Code = domain.BulkCodeInvalidTransition
	default:
		result.Code = domain.BulkCodeInternal
	}
	return result
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

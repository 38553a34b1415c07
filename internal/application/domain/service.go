package domain

import (
	"context"
	"errors"

	"github.com/talenthq/hireline/pkg/db/pagination"
)

type CreateApplicationRequest struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Position           string
	Experience         string
	Education          string
	Skills             []string
	ResumeURL          string
	PortfolioURL       string
	CoverLetter        string
	ExpectedSalary     string
	AvailableStartDate string
}

type GetApplicationRequest struct {
	ID string
}

type ListApplicationsRequest struct {
	PageToken string
	PageSize  int
	Statuses  []string
	Positions []string
	Reviewers []string
	Search    string
}

type ListApplicationsResponse struct {
	pagination.PageInfo
	Applications []Application `json:"applications"`
}

type SetStatusRequest struct {
	ID     string
	Status string
	Reason string
}

type AddNoteRequest struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
}

type BulkSetStatusRequest struct {
	IDs    []string
	Status string
	Reason string
}

// BulkItemResult reports the outcome for one id of a bulk status change.
// Items succeed or fail independently; a failed item never rolls back the
// others.
type BulkItemResult struct {
	ID          string       `json:"id"`
	OK          bool         `json:"ok"`
	Code        string       `json:"code,omitempty"`
	Message     string       `json:"message,omitempty"`
	Application *Application `json:"application,omitempty"`
}

const (
	BulkCodeNotFound          = "not_found"
	BulkCodeInvalidTransition = "invalid_transition"
	BulkCodeInvalidRequest    = "invalid_request"
	BulkCodeInternal          = "internal_error"
)

type Service interface {
	Create(ctx context.Context, req CreateApplicationRequest) (Application, error)
	GetByID(ctx context.Context, req GetApplicationRequest) (Application, error)
	List(ctx context.Context, req ListApplicationsRequest) (ListApplicationsResponse, error)
	SetStatus(ctx context.Context, req SetStatusRequest) (Application, error)
	AddNote(ctx context.Context, req AddNoteRequest) (Note, error)
	BulkSetStatus(ctx context.Context, req BulkSetStatusRequest) ([]BulkItemResult, error)
}

var (
	ErrInvalidFirstName = errors.New("invalid_first_name")
	ErrInvalidLastName  = errors.New("invalid_last_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidPosition  = errors.New("invalid_position")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrEmptyContent     = errors.New("empty_content")
	ErrReasonRequired   = errors.New("reason_required")
	ErrEmptyBatch       = errors.New("empty_batch")
)

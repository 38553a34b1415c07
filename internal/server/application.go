package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	applicationdomain "github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/internal/reqcontext"
)

type createApplicationRequest struct {
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Position           string   `json:"position"`
	Experience         string   `json:"experience"`
	Education          string   `json:"education"`
	Skills             []string `json:"skills"`
	ResumeURL          string   `json:"resume_url"`
	PortfolioURL       string   `json:"portfolio_url"`
	CoverLetter        string   `json:"cover_letter"`
	ExpectedSalary     string   `json:"expected_salary"`
	AvailableStartDate string   `json:"available_start_date"`
}

func (s *Server) CreateApplication(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.Create(c.Request.Context(), applicationdomain.CreateApplicationRequest{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Position:           strings.TrimSpace(req.Position),
		Experience:         req.Experience,
		Education:          req.Education,
		Skills:             req.Skills,
		ResumeURL:          strings.TrimSpace(req.ResumeURL),
		PortfolioURL:       strings.TrimSpace(req.PortfolioURL),
		CoverLetter:        req.CoverLetter,
		ExpectedSalary:     strings.TrimSpace(req.ExpectedSalary),
		AvailableStartDate: strings.TrimSpace(req.AvailableStartDate),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "application.create", "application", resp.ID.String(), map[string]any{
		"applicant": resp.ApplicantName(),
		"position":  resp.Position,
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListApplications(c *gin.Context) {
	var query struct {
		PageToken string   `form:"page_token"`
		PageSize  int      `form:"page_size"`
		Status    []string `form:"status"`
		Position  []string `form:"position"`
		Reviewer  []string `form:"reviewer"`
		Search    string   `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.List(c.Request.Context(), applicationdomain.ListApplicationsRequest{
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
		Statuses:  splitMulti(query.Status),
		Positions: splitMulti(query.Position),
		Reviewers: splitMulti(query.Reviewer),
		Search:    strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Applications, "page_info": resp.PageInfo})
}

func (s *Server) GetApplicationByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.appSvc.GetByID(c.Request.Context(), applicationdomain.GetApplicationRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (s *Server) SetApplicationStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appSvc.SetStatus(c.Request.Context(), applicationdomain.SetStatusRequest{
		ID:     id,
		Status: strings.TrimSpace(req.Status),
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "application.set_status", "application", resp.ID.String(), map[string]any{
		"status": resp.Status.String(),
		"reason": strings.TrimSpace(req.Reason),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addNoteRequest struct {
	Content string `json:"content"`
}

func (s *Server) AddApplicationNote(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor, _ := reqcontext.ActorFromContext(c.Request.Context())

	resp, err := s.appSvc.AddNote(c.Request.Context(), applicationdomain.AddNoteRequest{
		ID:         id,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Content:    req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "application.add_note", "application", id, map[string]any{
		"note_id": resp.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

type bulkSetStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
	Reason string   `json:"reason"`
}

func (s *Server) BulkSetApplicationStatus(c *gin.Context) {
	var req bulkSetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	results, err := s.appSvc.BulkSetStatus(c.Request.Context(), applicationdomain.BulkSetStatusRequest{
		IDs:    req.IDs,
		Status: strings.TrimSpace(req.Status),
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	succeeded := 0
	for _, item := range results {
		if item.OK {
			succeeded++
		}
	}
	s.audit(c, "application.bulk_set_status", "application", "", map[string]any{
		"status":    strings.TrimSpace(req.Status),
		"requested": len(req.IDs),
		"succeeded": succeeded,
	})

	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (s *Server) audit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	ctx := c.Request.Context()
	actor, _ := reqcontext.ActorFromContext(ctx)
	actorType := actor.Type
	if actorType == "" {
		actorType = "anonymous"
	}
	var actorID *string
	if actor.ID != "" {
		id := actor.ID
		actorID = &id
	}
	var target *string
	if targetID != "" {
		target = &targetID
	}
	_ = s.auditSvc.AuditLog(ctx, actorType, actorID, action, targetType, target, metadata)
}

// splitMulti accepts both repeated query params and comma-separated values.
func splitMulti(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

package domain

import "context"

// Summary mirrors what the analytics dashboard renders: totals, simple
// breakdowns and a daily submission trend. Nothing here is more than
// counting.
type Summary struct {
	TotalApplications      int            `json:"total_applications"`
	ApplicationsByStatus   map[string]int `json:"applications_by_status"`
	ApplicationsByPosition map[string]int `json:"applications_by_position"`
	AverageProcessingDays  float64        `json:"average_processing_days"`
	ApprovalRate           float64        `json:"approval_rate"`
	ApplicationTrends      []TrendPoint   `json:"application_trends"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func sampleApplications() []*Application {
	return []*Application{
		{
			ID:               snowflake.ID(1),
			FirstName:        "Ada",
			LastName:         "Lovelace",
			Email:            "ada@example.com",
			Position:         "Backend Engineer",
			Status:           StatusSubmitted,
			Skills:           []string{"Go", "PostgreSQL"},
			Experience:       "5 years of distributed systems",
			AssignedReviewer: "reviewer-1",
		},
		{
			ID:        snowflake.ID(2),
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Position:  "Frontend Engineer",
			Status:    StatusInterview,
			Skills:    []string{"TypeScript", "React"},
			Education: "PhD Mathematics",
		},
		{
			ID:               snowflake.ID(3),
			FirstName:        "Alan",
			LastName:         "Turing",
			Email:            "alan@example.com",
			Position:         "Backend Engineer",
			Status:           StatusShortlisted,
			Skills:           []string{"Go", "Kubernetes"},
			AssignedReviewer: "reviewer-2",
		},
	}
}

func ids(apps []*Application) []int64 {
	out := make([]int64, 0, len(apps))
	for _, app := range apps {
		out = append(out, int64(app.ID))
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	apps := sampleApplications()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"empty filter returns everything", Filter{}, []int64{1, 2, 3}},
		{"single status", Filter{Statuses: []Status{StatusInterview}}, []int64{2}},
		{"statuses are ORed", Filter{Statuses: []Status{StatusSubmitted, StatusShortlisted}}, []int64{1, 3}},
		{"position", Filter{Positions: []string{"Backend Engineer"}}, []int64{1, 3}},
		{"dimensions are ANDed", Filter{Statuses: []Status{StatusShortlisted}, Positions: []string{"Backend Engineer"}}, []int64{3}},
		{"reviewer", Filter{Reviewers: []string{"reviewer-1"}}, []int64{1}},
		{"unassigned never matches reviewer", Filter{Reviewers: []string{""}}, nil},
		{"no match across dimensions", Filter{Statuses: []Status{StatusSubmitted}, Positions: []string{"Frontend Engineer"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(apps)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_Search(t *testing.T) {
	apps := sampleApplications()

	tests := []struct {
		name   string
		search string
		want   []int64
	}{
		{"matches name case-insensitively", "ADA", []int64{1}},
		{"matches email", "grace@", []int64{2}},
		{"matches position", "backend", []int64{1, 3}},
		{"matches skills", "kubernetes", []int64{3}},
		{"matches experience", "distributed", []int64{1}},
		{"matches education", "mathematics", []int64{2}},
		{"no match", "rust", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter{Search: tt.search}.Apply(apps)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_ApplyPreservesOrder(t *testing.T) {
	apps := sampleApplications()
	got := Filter{Positions: []string{"Backend Engineer"}}.Apply(apps)
	assert.Equal(t, []int64{1, 3}, ids(got))
}

package domain

import "strings"

// Filter is the read-side predicate over applications. Absent or empty
// dimensions impose no constraint; provided dimensions are ANDed together
// and values within a dimension are ORed.
type Filter struct {
	Statuses  []Status
	Positions []string
	Reviewers []string
	Search    string
}

func (f Filter) Empty() bool {
	return len(f.Statuses) == 0 &&
		len(f.Positions) == 0 &&
		len(f.Reviewers) == 0 &&
		strings.TrimSpace(f.Search) == ""
}

// Matches reports whether a single application satisfies every provided
// dimension.
func (f Filter) Matches(app *Application) bool {
	if app == nil {
		return false
	}

	if len(f.Statuses) > 0 && !statusIn(f.Statuses, app.Status) {
		return false
	}

	if len(f.Positions) > 0 && !stringIn(f.Positions, app.Position) {
		return false
	}

	if len(f.Reviewers) > 0 {
		// An unassigned application never matches a reviewer filter.
		if app.AssignedReviewer == "" || !stringIn(f.Reviewers, app.AssignedReviewer) {
			return false
		}
	}

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(searchText(app), term) {
			return false
		}
	}

	return true
}

// Apply filters a slice in place-order: matching applications keep their
// original relative order, nothing is re-sorted.
func (f Filter) Apply(apps []*Application) []*Application {
	if f.Empty() {
		return apps
	}
	matched := make([]*Application, 0, len(apps))
	for _, app := range apps {
		if f.Matches(app) {
			matched = append(matched, app)
		}
	}
	return matched
}

// searchText synthesizes the free-text haystack: name, email, position,
// joined skills, experience and education.
func searchText(app *Application) string {
	parts := []string{
		app.ApplicantName(),
		app.Email,
		app.Position,
		strings.Join(app.Skills, " "),
		app.Experience,
		app.Education,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func statusIn(set []Status, s Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func stringIn(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

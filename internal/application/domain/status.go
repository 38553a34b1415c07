package domain

import "strings"

// Status is the application's position in the three-stage review pipeline.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusInterview   Status = "interview"
	StatusShortlisted Status = "shortlisted"
)

// Statuses lists every legal status in pipeline order.
func Statuses() []Status {
	return []Status{StatusSubmitted, StatusInterview, StatusShortlisted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInterview, StatusShortlisted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus normalizes and validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

package domain

import "fmt"

// Direction classifies a legal transition. Forward moves are the normal
// advance flow; backward moves come from the reason-driven decision flow and
// always require a justification.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// TransitionTable enumerates every legal status change, both directions, in
// one place. There is deliberately no second rule set anywhere else.
type TransitionTable struct {
	forward  map[Status][]Status
	backward map[Status][]Status
}

// NewTransitionTable builds a table from raw status-name maps, rejecting
// unknown statuses and self-loops.
func NewTransitionTable(forward, backward map[string][]string) (TransitionTable, error) {
	fwd, err := parseEdges(forward)
	if err != nil {
		return TransitionTable{}, err
	}
	bwd, err := parseEdges(backward)
	if err != nil {
		return TransitionTable{}, err
	}
	return TransitionTable{forward: fwd, backward: bwd}, nil
}

// DefaultTransitionTable returns the shipped pipeline rules:
// submitted -> interview|shortlisted, interview -> shortlisted, and the
// decision-flow reversals interview -> submitted, shortlisted -> interview.
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		forward: map[Status][]Status{
			StatusSubmitted:   {StatusInterview, StatusShortlisted},
			StatusInterview:   {StatusShortlisted},
			StatusShortlisted: {},
		},
		backward: map[Status][]Status{
			StatusInterview:   {StatusSubmitted},
			StatusShortlisted: {StatusInterview},
		},
	}
}

// Validate is the single entry point deciding whether a status change is
// legal. It is a pure function of the two statuses; requesting the current
// status is always rejected.
func (t TransitionTable) Validate(current, requested Status) (Direction, error) {
	if !current.Valid() {
		return "", ErrInvalidStatus
	}
	if !requested.Valid() {
		return "", ErrInvalidStatus
	}
	if contains(t.forward[current], requested) {
		return DirectionForward, nil
	}
	if contains(t.backward[current], requested) {
		return DirectionBackward, nil
	}
	return "", &TransitionError{Current: current, Requested: requested}
}

// TransitionError reports a disallowed status change with both statuses so
// the caller can explain the rejection without guessing.
type TransitionError struct {
	Current   Status `json:"current"`
	Requested Status `json:"requested"`
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not allowed", e.Current, e.Requested)
}

func parseEdges(raw map[string][]string) (map[Status][]Status, error) {
	edges := make(map[Status][]Status, len(raw))
	for from, targets := range raw {
		fromStatus, err := ParseStatus(from)
		if err != nil {
			return nil, fmt.Errorf("unknown status %q in transition table", from)
		}
		parsed := make([]Status, 0, len(targets))
		for _, to := range targets {
			toStatus, err := ParseStatus(to)
			if err != nil {
				return nil, fmt.Errorf("unknown status %q in transition table", to)
			}
			if toStatus == fromStatus {
				return nil, fmt.Errorf("self-transition %s -> %s in transition table", from, to)
			}
			parsed = append(parsed, toStatus)
		}
		edges[fromStatus] = parsed
	}
	return edges, nil
}

func contains(targets []Status, s Status) bool {
	for _, t := range targets {
		if t == s {
			return true
		}
	}
	return false
}

package lifecycle

// Status is a ride request's lifecycle state. Values are stored in the
// ride_requests.status column exactly as spelled here.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In_progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// AllowedTransitions is the request state flow as code. Completed and
// Cancelled are terminal and have no outgoing edges.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the five lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether a request in state s can no longer change.
func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Editable reports whether a student may still change pickup fields.
func Editable(s Status) bool {
	return s == StatusPending || s == StatusAssigned
}

package planning

// ConsistencyLevel grades a presence declaration against the resolved plan.
type ConsistencyLevel string

const (
	ConsistencyOK      ConsistencyLevel = "consistent"
	ConsistencyWarning ConsistencyLevel = "warning"
	ConsistencyError   ConsistencyLevel = "error"
)

// Consistency is the outcome of comparing a declaration with the resolver.
type Consistency struct {
	Level  ConsistencyLevel `json:"level"`
	Reason string           `json:"reason,omitempty"`
}

// CheckPresence compares a self-declared presence against the resolver's
// expected status. Declaring present against a validated absence contradicts
// an administrative decision and is a hard error that blocks the save.
// Declaring present while not scheduled or merely available is allowed but
// flagged, since it may be an undeclared office day.
func CheckPresence(declaredPresent bool, status SlotStatus) Consistency {
	if !declaredPresent {
		return Consistency{Level: ConsistencyOK}
	}
	switch status {
	case StatusAbsent:
		return Consistency{Level: ConsistencyError, Reason: "declared present during a validated absence"}
	case StatusNotScheduled:
		return Consistency{Level: ConsistencyWarning, Reason: "declared present without any expected involvement"}
	case StatusAvailable:
		return Consistency{Level: ConsistencyWarning, Reason: "declared present while available but not placed"}
	default:
		return Consistency{Level: ConsistencyOK}
	}
}

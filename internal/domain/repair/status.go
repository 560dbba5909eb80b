package repair

// Status is the stage of a service order
type Status string

const (
	StatusReceived         Status = "received"
	StatusDiagnosing       Status = "diagnosing"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusApproved         Status = "approved"
	StatusInRepair         Status = "in_repair"
	StatusReady            Status = "ready"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

// Workflow is the fixed forward sequence of a service order
var Workflow = []Status{
	StatusReceived,
	StatusDiagnosing,
	StatusAwaitingApproval,
	StatusApproved,
	StatusInRepair,
	StatusReady,
	StatusDelivered,
}

func (s Status) IsValid() bool {
	return s == StatusCancelled || s.position() >= 0
}

// IsTerminal reports whether no transition leaves the status
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsOpen reports whether the order is still in the shop
func (s Status) IsOpen() bool {
	return !s.IsTerminal()
}

func (s Status) position() int {
	for i, w := range Workflow {
		if w == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows one step forward, any number of steps back (rework)
// and cancellation from any open status
func (s Status) CanTransitionTo(to Status) bool {
	if s.IsTerminal() || !to.IsValid() || s == to {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	from, target := s.position(), to.position()
	return target == from+1 || target < from
}

// NextStatuses lists the statuses reachable from s
func (s Status) NextStatuses() []Status {
	var out []Status
	for _, w := range append(append([]Status{}, Workflow...), StatusCancelled) {
		if s.CanTransitionTo(w) {
			out = append(out, w)
		}
	}
	return out
}

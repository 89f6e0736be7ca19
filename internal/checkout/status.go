package checkout

// Checkout states. A session moves strictly forward; once completed or
// cancelled it never changes again.
const (
	StateActive    = "active"
	StatePending   = "pending"
	StateCompleted = "completed"
	StateCancelled = "cancelled"
)

var transitions = map[string][]string{
	StateActive:  {StatePending, StateCancelled},
	StatePending: {StateCompleted, StateCancelled},
}

// CanTransition reports whether moving a session from one state to
// another is legal.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist.
func IsTerminal(state string) bool {
	return len(transitions[state]) == 0
}

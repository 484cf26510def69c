package reconcile

// State is the lifecycle of the remote-backed hike collection.
type State int

// States. Loading is entered by every refresh and mutation; Fallback is
// held while the fallback chain runs.
const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFallback
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

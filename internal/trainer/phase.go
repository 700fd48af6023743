package trainer

// Phase is the lifecycle stage of a session.
//
//	Idle → Training → Testing → Done
type Phase int

// Session phases.
const (
	Idle Phase = iota
	Training
	Testing
	Done
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Training:
		return "training"
	case Testing:
		return "testing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

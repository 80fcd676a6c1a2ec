package orchestrator

// OutcomeKind classifies how a download request terminated.
type OutcomeKind int

const (
	// Delivered means the file was extracted, passed policy, and was handed
	// to the delivery callback successfully.
	Delivered OutcomeKind = iota
	// Busy means the session already had a download in flight (or the worker
	// pool was saturated); the request was rejected without queueing.
	Busy
	// Rejected means the file violated resource policy (too large).
	Rejected
	// Failed means extraction or delivery failed.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Delivered:
		return "delivered"
	case Busy:
		return "busy"
	case Rejected:
		return "rejected"
	default:
		return "failed"
	}
}

// Outcome is the terminal result of one download request. Title and Size are
// set on Delivered; Size and Limit are set on Rejected so the caller can show
// the measured size against the configured maximum; Err is set on Failed.
type Outcome struct {
	Kind  OutcomeKind
	Title string
	Size  int64
	Limit int64
	Err   error
}

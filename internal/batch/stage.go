package batch

// Stage is the state of one invoice in a batch. An invoice moves through the
// stages in order and stops at the first failure.
type Stage int

const (
	ComputingHours Stage = iota
	AllocatingNumber
	RequestingPayment
	Rendering
	Written
)

func (s Stage) String() string {
	switch s {
	case ComputingHours:
		return "computing hours"
	case AllocatingNumber:
		return "allocating number"
	case RequestingPayment:
		return "requesting payment"
	case Rendering:
		return "rendering"
	case Written:
		return "written"
	default:
		return "unknown"
	}
}

package counter

// Well-known counter namespaces.
const (
	NamespaceUserID        = "userId"
	NamespaceExpenseNumber = "expenseNumber"
)

// Counter is one named sequence row. Sequence is non-decreasing over the
// counter's lifetime: values are never reused and never decremented. A
// counter is created lazily on first allocation with Sequence = 0.
type Counter struct {
	Name     string `json:"name"`
	Sequence int64  `json:"sequence"`
}

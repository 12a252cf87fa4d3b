package enum

// BudgetStatus represents the lifecycle state of a budget.
//
// draft -> sent -> accepted, or draft/sent -> rejected (automatic on
// expiry). An accepted budget that gets converted into an invoice is moved
// back to "sent", which doubles as the converted marker.
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusSent     BudgetStatus = "sent"
	BudgetStatusAccepted BudgetStatus = "accepted"
	BudgetStatusRejected BudgetStatus = "rejected"
)

// Valid reports whether the value is a known budget status.
func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusSent, BudgetStatusAccepted, BudgetStatusRejected:
		return true
	}
	return false
}

// Expirable reports whether a budget in this state is still subject to the
// automatic rejection once its validity date passes.
func (s BudgetStatus) Expirable() bool {
	return s != BudgetStatusAccepted && s != BudgetStatusRejected
}

package enum

// InvoiceStatus represents the lifecycle state of an invoice.
//
// pending -> partial -> paid, with pending/partial moving to overdue
// automatically once the due date passes and to void by explicit action.
// Overdue invoices can still receive payments; paid and void are final.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Valid reports whether the value is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusVoid:
		return true
	}
	return false
}

// Overduable reports whether an invoice in this state still becomes overdue
// when the due date elapses.
func (s InvoiceStatus) Overduable() bool {
	return s != InvoiceStatusPaid && s != InvoiceStatusVoid
}

package enum

// PaymentMethod is the instrument used to settle (part of) an invoice.
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodMobile   PaymentMethod = "mobile"
)

// Valid reports whether the value is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCash, PaymentMethodMobile:
		return true
	}
	return false
}

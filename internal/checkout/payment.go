package checkout

// PaymentMethod selects the commit strategy: COD commits stock immediately,
// online methods defer it to payment confirmation.
type PaymentMethod string

const (
	MethodCOD  PaymentMethod = "COD"
	MethodUPI  PaymentMethod = "UPI"
	MethodGPay PaymentMethod = "GPay"
	MethodCard PaymentMethod = "Card"
)

// NormalizePaymentMethod maps raw input onto a supported method.
// Unrecognized values fall back to COD; this field never rejects an order.
func NormalizePaymentMethod(raw string) PaymentMethod {
	switch PaymentMethod(raw) {
	case MethodUPI, MethodGPay, MethodCard, MethodCOD:
		return PaymentMethod(raw)
	default:
		return MethodCOD
	}
}

// Online reports whether payment is confirmed out-of-band, which defers
// stock reservation and cart clearing past order creation.
func (m PaymentMethod) Online() bool {
	return m != MethodCOD
}

func (m PaymentMethod) strategy() CommitStrategy {
	if m.Online() {
		return deferredReserve{}
	}
	return immediateReserve{}
}

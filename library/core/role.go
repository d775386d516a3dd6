package core

// Role is the kind of organization an owner account runs.
// It decides whether lending is recorded as a borrow or as a rental.
type Role string

const (
	RoleLibrary   Role = "Library"
	RoleBookStore Role = "Book Store"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleLibrary || r == RoleBookStore
}

// LendingPaymentMethod returns the payment method recorded for a borrow checkout.
func (r Role) LendingPaymentMethod() PaymentMethod {
	if r == RoleBookStore {
		return PaymentMethodRent
	}

	return PaymentMethodBorrow
}

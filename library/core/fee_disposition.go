package core

// FeeDisposition is what staff decided about a late fee at return or settlement time.
type FeeDisposition string

const (
	FeeDispositionNone   FeeDisposition = "none"
	FeeDispositionPaid   FeeDisposition = "paid"
	FeeDispositionWaived FeeDisposition = "waived"
)

// IsValid reports whether d is a known disposition.
func (d FeeDisposition) IsValid() bool {
	return d == FeeDispositionNone || d == FeeDispositionPaid || d == FeeDispositionWaived
}

// CheckFeeDisposition is the gate a caller applies before submitting a return:
// a nonzero fee needs a disposition other than none.
// ReturnBook itself accepts FeeDispositionNone and leaves the fee outstanding.
func CheckFeeDisposition(fee Money, d FeeDisposition) error {
	if !d.IsValid() {
		return ErrInvalidFeeDisposition
	}

	if fee.IsPositive() && d == FeeDispositionNone {
		return FeePaymentRequired(fee)
	}

	return nil
}

package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

func Test_MaximumRenewalsReached_Message(t *testing.T) {
	err := core.MaximumRenewalsReached(2)

	assert.EqualError(t, err, "Maximum renewals reached (2)")
	assert.ErrorIs(t, err, core.ErrMaxRenewalsReached)
	assert.Equal(t, core.CodeMaxRenewalsReached, core.Code(err))
}

func Test_BusinessError_MatchesThroughWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("checkout failed"), core.OutOfStock("Dune"))

	assert.ErrorIs(t, wrapped, core.ErrOutOfStock)
	assert.NotErrorIs(t, wrapped, core.ErrAlreadyBorrowed)
	assert.Equal(t, core.CodeOutOfStock, core.Code(wrapped))
	assert.True(t, core.IsBusinessError(wrapped))
}

func Test_Code_PlainError(t *testing.T) {
	assert.Equal(t, core.ErrCode(""), core.Code(errors.New("plain")))
	assert.False(t, core.IsBusinessError(errors.New("plain")))
}

func Test_CheckFeeDisposition(t *testing.T) {
	fee := core.MoneyFromString("3.50")

	assert.NoError(t, core.CheckFeeDisposition(core.Zero, core.FeeDispositionNone))
	assert.NoError(t, core.CheckFeeDisposition(fee, core.FeeDispositionPaid))
	assert.NoError(t, core.CheckFeeDisposition(fee, core.FeeDispositionWaived))

	err := core.CheckFeeDisposition(fee, core.FeeDispositionNone)
	assert.ErrorIs(t, err, core.ErrFeePaymentRequired)
	assert.EqualError(t, err, "a late fee of 3.50 must be paid or waived")

	assert.ErrorIs(t, core.CheckFeeDisposition(fee, core.FeeDisposition("later")), core.ErrInvalidFeeDisposition)
}

func Test_LibrarySettings_Validate(t *testing.T) {
	valid := core.DefaultLibrarySettings()
	assert.NoError(t, valid.Validate())

	negativeRate := core.DefaultLibrarySettings()
	negativeRate.DailyLateFeeRate = core.MoneyFromString("-0.10")
	assert.ErrorIs(t, negativeRate.Validate(), core.ErrInvalidSettings)

	noBorrowing := core.DefaultLibrarySettings()
	noBorrowing.BorrowingLimit = 0
	assert.ErrorIs(t, noBorrowing.Validate(), core.ErrInvalidSettings)

	noLoanDays := core.DefaultLibrarySettings()
	noLoanDays.DefaultLoanDays = 0
	assert.ErrorIs(t, noLoanDays.Validate(), core.ErrInvalidSettings)

	subCentRate := core.DefaultLibrarySettings()
	subCentRate.DailyLateFeeRate = core.MoneyFromString("0.125")
	assert.ErrorIs(t, subCentRate.Validate(), core.ErrInvalidSettings)

	subCentCap := core.DefaultLibrarySettings()
	subCentCap.MaxLateFeeCap = core.MoneyFromString("10.001")
	assert.ErrorIs(t, subCentCap.Validate(), core.ErrInvalidSettings)

	trailingZeros := core.DefaultLibrarySettings()
	trailingZeros.DailyLateFeeRate = core.MoneyFromString("0.2500")
	assert.NoError(t, trailingZeros.Validate())
}

func Test_LibrarySettings_SameRulesAs(t *testing.T) {
	a := core.DefaultLibrarySettings()
	b := core.DefaultLibrarySettings()
	b.DailyLateFeeRate = core.MoneyFromString("0.5")

	assert.True(t, a.SameRulesAs(b), "decimal equality ignores trailing zeros")

	b.MaxRenewalsPerLoan = 3
	assert.False(t, a.SameRulesAs(b))
}

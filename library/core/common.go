package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instead of full value objects, a few alias types and helpers are used here ...

// OccurredAt represents when something happened.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision,
// which is the precision Postgres stores timestamps with.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// Money is a decimal amount in the owner's currency.
type Money = decimal.Decimal

// MoneyFromString parses an amount like "0.50". It panics on malformed input
// and is meant for literals in defaults and tests.
func MoneyFromString(s string) Money {
	return decimal.RequireFromString(s)
}

// Zero is the zero amount.
var Zero = decimal.Zero

// MoneyPlaces is the number of decimal places amounts are kept with.
const MoneyPlaces = 2

func hasSubCentPrecision(m Money) bool {
	return !m.Equal(m.Round(MoneyPlaces))
}

const hoursPerDay = 24

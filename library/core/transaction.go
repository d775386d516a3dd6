package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod classifies a transaction.
type PaymentMethod string

const (
	PaymentMethodBorrow  PaymentMethod = "Borrow"
	PaymentMethodRent    PaymentMethod = "Rent"
	PaymentMethodCash    PaymentMethod = "Cash"
	PaymentMethodReturn  PaymentMethod = "Return"
	PaymentMethodLateFee PaymentMethod = "LateFee"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "Completed"
)

// TransactionItem is one book line of a transaction.
type TransactionItem struct {
	BookID uuid.UUID
	Price  Money
}

// Transaction is the ledger record of a checkout, purchase, return or fee payment.
// LoanID links return and late fee transactions to the loan they belong to.
type Transaction struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	MemberID      uuid.UUID
	LoanID        *uuid.UUID
	Status        TransactionStatus
	PaymentMethod PaymentMethod
	TotalAmount   Money
	CreatedAt     time.Time
	Items         []TransactionItem
}

// Transactions is a list of transactions.
type Transactions []Transaction

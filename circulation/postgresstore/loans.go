package postgresstore

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	operationLoadLoan                = "load_loan"
	operationLoadOpenLoansByMember   = "load_open_loans_by_member"
	operationLoadLoansByMember       = "load_loans_by_member"
	operationLoadOverdueLoans        = "load_overdue_loans"
	operationLoadTransactionsForLoan = "load_transactions_for_loan"

	colMemberID      = "member_id"
	colLoanID        = "loan_id"
	colDueDate       = "due_date"
	colCheckoutDate  = "checkout_date"
	colLateFeeAmount = "late_fee_amount"
	colFeePaid       = "fee_paid"
	colFeeWaived     = "fee_waived"
	colCreatedAt     = "created_at"
)

var loanColumns = []any{
	"id", "owner_id", "book_id", "member_id", "checkout_date", "due_date", "return_date", "status",
	"renewal_count", "return_condition", "condition_notes", "flagged_for_review",
	"late_fee_amount", "fee_paid", "fee_waived", "version",
}

var transactionWithItemColumns = []any{
	goqu.I("t.id"), goqu.I("t.owner_id"), goqu.I("t.member_id"), goqu.I("t.loan_id"), goqu.I("t.status"),
	goqu.I("t.payment_method"), goqu.I("t.total_amount"), goqu.I("t.created_at"),
	goqu.I("ti.book_id"), goqu.I("ti.price"),
}

// LoadLoan returns a loan, circulation.ErrNotFound if there is none with that id for the owner.
func (s Store) LoadLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Loan, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadLoan, ownerID)

	loans, err := s.selectLoans(ctx, goqu.C(colOwnerID).Eq(ownerID.String()), goqu.C(colID).Eq(loanID.String()))
	if err != nil {
		observer.failure(err)
		return core.Loan{}, err
	}

	if len(loans) == 0 {
		observer.failure(circulation.ErrNotFound)
		return core.Loan{}, circulation.ErrNotFound
	}

	observer.success(1)

	return loans[0], nil
}

// LoadOpenLoansByMember returns the loans a borrowing decision depends on:
// active loans and returned loans whose fee is neither paid nor waived.
func (s Store) LoadOpenLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadOpenLoansByMember, ownerID)

	loans, err := s.selectLoans(
		ctx,
		goqu.C(colOwnerID).Eq(ownerID.String()),
		goqu.C(colMemberID).Eq(memberID.String()),
		goqu.Or(
			goqu.C(colStatus).Eq(string(core.LoanStatusBorrowed)),
			goqu.And(
				goqu.C(colLateFeeAmount).Gt(0),
				goqu.C(colFeePaid).IsFalse(),
				goqu.C(colFeeWaived).IsFalse(),
			),
		),
	)
	if err != nil {
		observer.failure(err)
		return nil, err
	}

	observer.success(len(loans))

	return loans, nil
}

// LoadLoansByMember returns every loan of a member, newest checkout first.
func (s Store) LoadLoansByMember(ctx context.Context, ownerID, memberID uuid.UUID) (core.Loans, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadLoansByMember, ownerID)

	loans, err := s.selectLoansOrdered(
		ctx,
		goqu.C(colCheckoutDate).Desc(),
		goqu.C(colOwnerID).Eq(ownerID.String()),
		goqu.C(colMemberID).Eq(memberID.String()),
	)
	if err != nil {
		observer.failure(err)
		return nil, err
	}

	observer.success(len(loans))

	return loans, nil
}

// LoadOverdueLoans returns the owner's active loans that were due before now, oldest due date first.
func (s Store) LoadOverdueLoans(ctx context.Context, ownerID uuid.UUID, now time.Time) (core.Loans, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadOverdueLoans, ownerID)

	loans, err := s.selectLoansOrdered(
		ctx,
		goqu.C(colDueDate).Asc(),
		goqu.C(colOwnerID).Eq(ownerID.String()),
		goqu.C(colStatus).Eq(string(core.LoanStatusBorrowed)),
		goqu.C(colDueDate).Lt(now.UTC()),
	)
	if err != nil {
		observer.failure(err)
		return nil, err
	}

	observer.success(len(loans))

	return loans, nil
}

// LoadTransactionsForLoan returns the transactions linked to a loan, with their items, oldest first.
func (s Store) LoadTransactionsForLoan(ctx context.Context, ownerID, loanID uuid.UUID) (core.Transactions, error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadTransactionsForLoan, ownerID)

	selectStmt := dialect().
		From(goqu.T(tableTransactions).As("t")).
		LeftJoin(
			goqu.T(tableTransactionItems).As("ti"),
			goqu.On(goqu.I("ti.transaction_id").Eq(goqu.I("t.id"))),
		).
		Select(transactionWithItemColumns...).
		Where(
			goqu.I("t."+colOwnerID).Eq(ownerID.String()),
			goqu.I("t."+colLoanID).Eq(loanID.String()),
		).
		Order(goqu.I("t."+colCreatedAt).Asc(), goqu.I("t."+colID).Asc())

	transactions := core.Transactions{}
	positions := map[uuid.UUID]int{}

	_, err := s.query(ctx, s.db, tableTransactions, selectStmt, func(rows adapters.DBRows) error {
		tx, item, err := scanTransactionWithItem(rows)
		if err != nil {
			return err
		}

		pos, seen := positions[tx.ID]
		if !seen {
			pos = len(transactions)
			positions[tx.ID] = pos
			transactions = append(transactions, tx)
		}

		if item != nil {
			transactions[pos].Items = append(transactions[pos].Items, *item)
		}

		return nil
	})
	if err != nil {
		observer.failure(err)
		return nil, err
	}

	observer.success(len(transactions))

	return transactions, nil
}

func (s Store) selectLoans(ctx context.Context, where ...exp.Expression) (core.Loans, error) {
	return s.selectLoansOrdered(ctx, goqu.C(colID).Asc(), where...)
}

func (s Store) selectLoansOrdered(
	ctx context.Context,
	order exp.OrderedExpression,
	where ...exp.Expression,
) (core.Loans, error) {
	selectStmt := dialect().
		From(tableLoans).
		Select(loanColumns...).
		Where(where...).
		Order(order)

	loans := core.Loans{}

	_, err := s.query(ctx, s.db, tableLoans, selectStmt, func(rows adapters.DBRows) error {
		loan, err := scanLoan(rows)
		if err != nil {
			return err
		}

		loans = append(loans, loan)

		return nil
	})

	return loans, err
}

func scanLoan(rows adapters.DBRows) (core.Loan, error) {
	var loan core.Loan
	var status, condition string

	err := rows.Scan(
		&loan.ID, &loan.OwnerID, &loan.BookID, &loan.MemberID, &loan.CheckoutDate, &loan.DueDate,
		&loan.ReturnDate, &status, &loan.RenewalCount, &condition, &loan.ConditionNotes,
		&loan.FlaggedForReview, &loan.LateFeeAmount, &loan.FeePaid, &loan.FeeWaived, &loan.Version,
	)
	loan.Status = core.LoanStatus(status)
	loan.ReturnCondition = core.ReturnCondition(condition)

	return loan, err
}

func scanTransactionWithItem(rows adapters.DBRows) (core.Transaction, *core.TransactionItem, error) {
	var tx core.Transaction
	var loanID, itemBookID uuid.NullUUID
	var itemPrice decimal.NullDecimal
	var status, paymentMethod string

	err := rows.Scan(
		&tx.ID, &tx.OwnerID, &tx.MemberID, &loanID, &status, &paymentMethod,
		&tx.TotalAmount, &tx.CreatedAt, &itemBookID, &itemPrice,
	)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	tx.Status = core.TransactionStatus(status)
	tx.PaymentMethod = core.PaymentMethod(paymentMethod)

	if loanID.Valid {
		id := loanID.UUID
		tx.LoanID = &id
	}

	if !itemBookID.Valid {
		return tx, nil, nil
	}

	item := core.TransactionItem{BookID: itemBookID.UUID, Price: core.Zero}
	if itemPrice.Valid {
		item.Price = itemPrice.Decimal
	}

	return tx, &item, nil
}

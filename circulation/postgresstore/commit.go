package postgresstore

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const operationCommit = "commit"

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// statement is one write of a changeset. guarded statements must affect exactly one row.
type statement struct {
	table   string
	builder sqlBuilder
	guarded bool
}

// Commit writes a changeset in one database transaction.
//
// Updates carry the version that was loaded and bump it. If any of them matches no row,
// or an insert hits a unique index, the transaction is rolled back and
// circulation.ErrConcurrencyConflict is returned. Nothing of a failed changeset persists.
func (s Store) Commit(ctx context.Context, changeset core.Changeset) error {
	observer, ctx := s.startOperation(ctx, spanNameCommit, operationCommit, changeset.OwnerID)

	if changeset.IsEmpty() {
		observer.failure(circulation.ErrEmptyChangeset)
		return circulation.ErrEmptyChangeset
	}

	start := time.Now()

	if err := s.commitChangeset(ctx, changeset); err != nil {
		observer.failure(err)
		return err
	}

	observer.success(changeset.StatementCount())

	s.logOperation(
		ctx,
		logMsgChangesetCommitted,
		logAttrOwnerID, changeset.OwnerID.String(),
		logAttrStatementCount, changeset.StatementCount(),
		logAttrDurationMS, toMilliseconds(time.Since(start)),
	)

	return nil
}

func (s Store) commitChangeset(ctx context.Context, changeset core.Changeset) (err error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		s.logError(ctx, logMsgBeginTxFailed, err)
		return errors.Join(circulation.ErrBeginningTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			s.logError(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}()

	for _, stmt := range buildStatements(changeset) {
		if err := s.execStatement(ctx, tx, stmt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.logError(ctx, logMsgCommitFailed, err)
		return errors.Join(circulation.ErrCommittingTransactionFailed, err)
	}
	committed = true

	return nil
}

func (s Store) execStatement(ctx context.Context, tx execer, stmt statement) error {
	sqlQuery, args, err := stmt.builder.ToSQL()
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrTable, stmt.table)
		return errors.Join(circulation.ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	result, err := tx.Exec(ctx, sqlQuery, args...)
	if err != nil {
		if adapters.IsUniqueViolation(err) {
			s.logOperation(ctx, logMsgConcurrencyConflict, logAttrTable, stmt.table, logAttrError, err.Error())
			return errors.Join(circulation.ErrConcurrencyConflict, err)
		}

		s.logError(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return errors.Join(circulation.ErrExecutingStatementFailed, err)
	}

	s.logQueryWithDuration(ctx, sqlQuery, stmt.table, time.Since(start))

	if !stmt.guarded {
		return nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, err)
		return errors.Join(circulation.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < 1 {
		s.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrTable, stmt.table,
			logAttrExpectedRowsAffected, 1,
			logAttrRowsAffected, rowsAffected,
		)

		return circulation.ErrConcurrencyConflict
	}

	return nil
}

// buildStatements orders the writes so that referenced rows exist before the rows pointing at them.
func buildStatements(cs core.Changeset) []statement {
	statements := make([]statement, 0, cs.StatementCount()+len(cs.TransactionInserts))

	for _, book := range cs.BookInserts {
		statements = append(statements, statement{table: tableBooks, builder: insertBook(book)})
	}

	for _, member := range cs.MemberInserts {
		statements = append(statements, statement{table: tableMembers, builder: insertMember(member)})
	}

	for _, book := range cs.BookUpdates {
		statements = append(statements, statement{table: tableBooks, builder: updateBook(cs, book), guarded: true})
	}

	for _, member := range cs.MemberTouches {
		statements = append(statements, statement{table: tableMembers, builder: touchMember(cs, member), guarded: true})
	}

	for _, loan := range cs.LoanInserts {
		statements = append(statements, statement{table: tableLoans, builder: insertLoan(loan)})
	}

	for _, loan := range cs.LoanUpdates {
		statements = append(statements, statement{table: tableLoans, builder: updateLoan(cs, loan), guarded: true})
	}

	for _, transaction := range cs.TransactionInserts {
		statements = append(statements, statement{table: tableTransactions, builder: insertTransaction(transaction)})

		if len(transaction.Items) > 0 {
			statements = append(statements, statement{
				table:   tableTransactionItems,
				builder: insertTransactionItems(transaction),
			})
		}
	}

	for _, audit := range cs.AuditInserts {
		statements = append(statements, statement{table: tableOverrideAudits, builder: insertAudit(audit)})
	}

	for _, settings := range cs.SettingsUpserts {
		statements = append(statements, statement{table: tableLibrarySettings, builder: upsertSettings(settings)})
	}

	return statements
}

func insertBook(book core.Book) sqlBuilder {
	return dialect().Insert(tableBooks).Rows(goqu.Record{
		"id":         book.ID.String(),
		"owner_id":   book.OwnerID.String(),
		"title":      book.Title,
		"author":     book.Author,
		"isbn":       book.ISBN,
		"category":   book.Category,
		"stock":      book.Stock,
		"status":     string(book.Status),
		"price":      book.Price.String(),
		"version":    book.Version,
		"created_at": book.CreatedAt.UTC(),
		"updated_at": book.UpdatedAt.UTC(),
	}).Prepared(true)
}

func updateBook(cs core.Changeset, book core.Book) sqlBuilder {
	return dialect().Update(tableBooks).
		Set(goqu.Record{
			"stock":      book.Stock,
			"status":     string(book.Status),
			"updated_at": book.UpdatedAt.UTC(),
			colVersion:   goqu.L(exprVersionIncrement),
		}).
		Where(versionGuard(cs, book.ID.String(), book.Version)...).
		Prepared(true)
}

func insertMember(member core.Member) sqlBuilder {
	return dialect().Insert(tableMembers).Rows(goqu.Record{
		"id":         member.ID.String(),
		"owner_id":   member.OwnerID.String(),
		"name":       member.Name,
		"email":      member.Email,
		"status":     string(member.Status),
		"version":    member.Version,
		"created_at": member.CreatedAt.UTC(),
	}).Prepared(true)
}

// touchMember bumps the member version so that concurrent decisions about the same member conflict.
func touchMember(cs core.Changeset, member core.Member) sqlBuilder {
	return dialect().Update(tableMembers).
		Set(goqu.Record{colVersion: goqu.L(exprVersionIncrement)}).
		Where(versionGuard(cs, member.ID.String(), member.Version)...).
		Prepared(true)
}

func insertLoan(loan core.Loan) sqlBuilder {
	return dialect().Insert(tableLoans).Rows(goqu.Record{
		"id":                 loan.ID.String(),
		"owner_id":           loan.OwnerID.String(),
		"book_id":            loan.BookID.String(),
		"member_id":          loan.MemberID.String(),
		"checkout_date":      loan.CheckoutDate.UTC(),
		"due_date":           loan.DueDate.UTC(),
		"return_date":        nullableTime(loan.ReturnDate),
		"status":             string(loan.Status),
		"renewal_count":      loan.RenewalCount,
		"return_condition":   string(loan.ReturnCondition),
		"condition_notes":    loan.ConditionNotes,
		"flagged_for_review": loan.FlaggedForReview,
		"late_fee_amount":    loan.LateFeeAmount.String(),
		"fee_paid":           loan.FeePaid,
		"fee_waived":         loan.FeeWaived,
		"version":            loan.Version,
	}).Prepared(true)
}

func updateLoan(cs core.Changeset, loan core.Loan) sqlBuilder {
	return dialect().Update(tableLoans).
		Set(goqu.Record{
			"due_date":           loan.DueDate.UTC(),
			"return_date":        nullableTime(loan.ReturnDate),
			"status":             string(loan.Status),
			"renewal_count":      loan.RenewalCount,
			"return_condition":   string(loan.ReturnCondition),
			"condition_notes":    loan.ConditionNotes,
			"flagged_for_review": loan.FlaggedForReview,
			"late_fee_amount":    loan.LateFeeAmount.String(),
			"fee_paid":           loan.FeePaid,
			"fee_waived":         loan.FeeWaived,
			colVersion:           goqu.L(exprVersionIncrement),
		}).
		Where(versionGuard(cs, loan.ID.String(), loan.Version)...).
		Prepared(true)
}

func insertTransaction(transaction core.Transaction) sqlBuilder {
	var loanID any
	if transaction.LoanID != nil {
		loanID = transaction.LoanID.String()
	}

	return dialect().Insert(tableTransactions).Rows(goqu.Record{
		"id":             transaction.ID.String(),
		"owner_id":       transaction.OwnerID.String(),
		"member_id":      transaction.MemberID.String(),
		"loan_id":        loanID,
		"status":         string(transaction.Status),
		"payment_method": string(transaction.PaymentMethod),
		"total_amount":   transaction.TotalAmount.String(),
		"created_at":     transaction.CreatedAt.UTC(),
	}).Prepared(true)
}

func insertTransactionItems(transaction core.Transaction) sqlBuilder {
	rows := make([]any, 0, len(transaction.Items))
	for _, item := range transaction.Items {
		rows = append(rows, goqu.Record{
			"transaction_id": transaction.ID.String(),
			"book_id":        item.BookID.String(),
			"price":          item.Price.String(),
		})
	}

	return dialect().Insert(tableTransactionItems).Rows(rows...).Prepared(true)
}

func insertAudit(audit core.OverrideAudit) sqlBuilder {
	return dialect().Insert(tableOverrideAudits).Rows(goqu.Record{
		"id":           audit.ID.String(),
		"owner_id":     audit.OwnerID.String(),
		"actor":        audit.Actor,
		"reason":       audit.Reason,
		"command_type": audit.CommandType,
		"member_id":    audit.MemberID.String(),
		"subject_id":   audit.SubjectID.String(),
		"occurred_at":  audit.OccurredAt.UTC(),
	}).Prepared(true)
}

func upsertSettings(settings core.LibrarySettings) sqlBuilder {
	return dialect().Insert(tableLibrarySettings).
		Rows(goqu.Record{
			"owner_id":              settings.OwnerID.String(),
			"daily_late_fee_rate":   settings.DailyLateFeeRate.String(),
			"grace_period_days":     settings.GracePeriodDays,
			"max_late_fee_cap":      settings.MaxLateFeeCap.String(),
			"max_renewals_per_loan": settings.MaxRenewalsPerLoan,
			"borrowing_limit":       settings.BorrowingLimit,
			"unpaid_fee_loan_limit": settings.UnpaidFeeLoanLimit,
			"default_loan_days":     settings.DefaultLoanDays,
			"updated_at":            settings.UpdatedAt.UTC(),
		}).
		OnConflict(goqu.DoUpdate(colOwnerID, goqu.Record{
			"daily_late_fee_rate":   goqu.L("EXCLUDED.daily_late_fee_rate"),
			"grace_period_days":     goqu.L("EXCLUDED.grace_period_days"),
			"max_late_fee_cap":      goqu.L("EXCLUDED.max_late_fee_cap"),
			"max_renewals_per_loan": goqu.L("EXCLUDED.max_renewals_per_loan"),
			"borrowing_limit":       goqu.L("EXCLUDED.borrowing_limit"),
			"unpaid_fee_loan_limit": goqu.L("EXCLUDED.unpaid_fee_loan_limit"),
			"default_loan_days":     goqu.L("EXCLUDED.default_loan_days"),
			"updated_at":            goqu.L("EXCLUDED.updated_at"),
		})).
		Prepared(true)
}

func versionGuard(cs core.Changeset, id string, version int64) []exp.Expression {
	return []exp.Expression{
		goqu.C(colOwnerID).Eq(cs.OwnerID.String()),
		goqu.C(colID).Eq(id),
		goqu.C(colVersion).Eq(version),
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.UTC()
}

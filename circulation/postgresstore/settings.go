package postgresstore

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/postgresstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const operationLoadSettings = "load_settings"

var settingsColumns = []any{
	"owner_id", "daily_late_fee_rate", "grace_period_days", "max_late_fee_cap", "max_renewals_per_loan",
	"borrowing_limit", "unpaid_fee_loan_limit", "default_loan_days", "updated_at",
}

// LoadSettings returns the settings an owner saved. found is false when there are none,
// in which case the caller applies core.DefaultLibrarySettings.
func (s Store) LoadSettings(ctx context.Context, ownerID uuid.UUID) (settings core.LibrarySettings, found bool, err error) {
	observer, ctx := s.startOperation(ctx, spanNameLoad, operationLoadSettings, ownerID)

	selectStmt := dialect().
		From(tableLibrarySettings).
		Select(settingsColumns...).
		Where(goqu.C(colOwnerID).Eq(ownerID.String()))

	count, err := s.query(ctx, s.db, tableLibrarySettings, selectStmt, func(rows adapters.DBRows) error {
		return rows.Scan(
			&settings.OwnerID, &settings.DailyLateFeeRate, &settings.GracePeriodDays, &settings.MaxLateFeeCap,
			&settings.MaxRenewalsPerLoan, &settings.BorrowingLimit, &settings.UnpaidFeeLoanLimit,
			&settings.DefaultLoanDays, &settings.UpdatedAt,
		)
	})
	if err != nil {
		observer.failure(err)
		return core.LibrarySettings{}, false, err
	}

	observer.success(count)

	return settings, count > 0, nil
}

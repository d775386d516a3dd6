package postgresstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	metricOperationDuration    = "circulationstore_operation_duration_seconds"
	metricRowsLoaded           = "circulationstore_rows_loaded"
	metricStatementsCommitted  = "circulationstore_statements_committed"
	metricConcurrencyConflicts = "circulationstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "circulationstore_database_errors_total"

	spanNameLoad   = "circulationstore.load"
	spanNameCommit = "circulationstore.commit"

	spanAttrOperation   = "operation"
	spanAttrOwnerID     = "owner_id"
	spanAttrConsistency = "consistency"
	spanAttrRowCount    = "row_count"
	spanAttrErrorType   = "error_type"
	spanAttrDurationMS  = "duration_ms"
	labelStatus         = "status"
	labelConflictType   = "conflict_type"
	conflictTypeVersion = "version"

	statusSuccess             = "success"
	statusError               = "error"
	statusNotFound            = "not_found"
	statusConcurrencyConflict = "concurrency_conflict"
	statusCanceled            = "canceled"
	statusTimeout             = "timeout"

	errorTypeBuildQuery   = "build_query"
	errorTypeQuery        = "query"
	errorTypeScan         = "scan"
	errorTypeBeginTx      = "begin_tx"
	errorTypeExec         = "exec"
	errorTypeRowsAffected = "rows_affected"
	errorTypeCommit       = "commit"
	errorTypeOther        = "other"
)

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration))
	}
}

// logOperation logs operational information at info level.
func (s Store) logOperation(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logError logs error information at error level.
func (s Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (s Store) recordDuration(ctx context.Context, duration time.Duration, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (s Store) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}

func (s Store) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextual, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

// operationObserver tracks one load or commit: its span, its duration and its outcome.
type operationObserver struct {
	store     Store
	ctx       context.Context
	span      circulation.SpanContext
	operation string
	rowMetric string
	start     time.Time
}

func (s Store) startOperation(
	ctx context.Context,
	spanName string,
	operation string,
	ownerID uuid.UUID,
) (*operationObserver, context.Context) {
	var span circulation.SpanContext

	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanName, map[string]string{
			spanAttrOperation:   operation,
			spanAttrOwnerID:     ownerID.String(),
			spanAttrConsistency: circulation.GetConsistencyLevel(ctx).String(),
		})
	}

	rowMetric := metricRowsLoaded
	if spanName == spanNameCommit {
		rowMetric = metricStatementsCommitted
	}

	return &operationObserver{
		store:     s,
		ctx:       ctx,
		span:      span,
		operation: operation,
		rowMetric: rowMetric,
		start:     time.Now(),
	}, ctx
}

func (o *operationObserver) success(rowCount int) {
	duration := time.Since(o.start)
	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: statusSuccess}

	o.store.recordDuration(o.ctx, duration, labels)
	o.store.recordValue(o.ctx, o.rowMetric, float64(rowCount), labels)

	o.finishSpan(statusSuccess, map[string]string{
		spanAttrRowCount:   strconv.Itoa(rowCount),
		spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
}

func (o *operationObserver) failure(err error) {
	duration := time.Since(o.start)
	status, errorType := classifyStoreError(err)
	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: status}

	o.store.recordDuration(o.ctx, duration, labels)

	switch status {
	case statusConcurrencyConflict:
		o.store.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{
			spanAttrOperation: o.operation,
			labelConflictType: conflictTypeVersion,
		})
	case statusError:
		o.store.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
			spanAttrOperation: o.operation,
			labelStatus:       statusError,
			spanAttrErrorType: errorType,
		})
	}

	o.finishSpan(status, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
}

func (o *operationObserver) finishSpan(status string, attrs map[string]string) {
	if o.store.tracingCollector == nil || o.span == nil {
		return
	}

	o.store.tracingCollector.FinishSpan(o.span, status, attrs)
}

// classifyStoreError maps an error to a status and an error type for metrics and spans.
func classifyStoreError(err error) (status, errorType string) {
	switch {
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return statusConcurrencyConflict, statusConcurrencyConflict
	case errors.Is(err, circulation.ErrNotFound):
		return statusNotFound, statusNotFound
	case errors.Is(err, context.Canceled):
		return statusCanceled, statusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return statusTimeout, statusTimeout
	case errors.Is(err, circulation.ErrBuildingQueryFailed):
		return statusError, errorTypeBuildQuery
	case errors.Is(err, circulation.ErrScanningDBRowFailed):
		return statusError, errorTypeScan
	case errors.Is(err, circulation.ErrQueryingFailed):
		return statusError, errorTypeQuery
	case errors.Is(err, circulation.ErrBeginningTransactionFailed):
		return statusError, errorTypeBeginTx
	case errors.Is(err, circulation.ErrExecutingStatementFailed):
		return statusError, errorTypeExec
	case errors.Is(err, circulation.ErrGettingRowsAffectedFailed):
		return statusError, errorTypeRowsAffected
	case errors.Is(err, circulation.ErrCommittingTransactionFailed):
		return statusError, errorTypeCommit
	default:
		return statusError, errorTypeOther
	}
}

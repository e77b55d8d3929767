package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics counts CRM events: tier changes, imported customers,
// login attempts and created orders.
type BusinessMetrics struct {
	logger *zap.Logger

	tierChangesTotal   *Counter
	customerImportRows *Counter
	loginAttemptsTotal *Counter
	orderCreatedTotal  *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// Outcome values of the outcome attribute
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeImported = "imported"
	OutcomeRejected = "rejected"
)

// NewBusinessMetrics creates the CRM business instruments.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error
	if bm.tierChangesTotal, err = NewCounter(cfg.Meter, "crm_customer_tier_changes_total",
		"Total number of customer tier changes", "{change}"); err != nil {
		return nil, err
	}
	if bm.customerImportRows, err = NewCounter(cfg.Meter, "crm_customer_import_rows_total",
		"Total number of customer rows processed by imports, by outcome", "{row}"); err != nil {
		return nil, err
	}
	if bm.loginAttemptsTotal, err = NewCounter(cfg.Meter, "crm_login_attempts_total",
		"Total number of login attempts, by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if bm.orderCreatedTotal, err = NewCounter(cfg.Meter, "crm_order_created_total",
		"Total number of orders created", "{order}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordTierChange counts one customer moving from one tier to another.
func (bm *BusinessMetrics) RecordTierChange(ctx context.Context, from, to string) {
	bm.tierChangesTotal.Inc(ctx, AttrTierFrom.String(from), AttrTierTo.String(to))
}

// RecordCustomerImport counts the rows of one import run.
func (bm *BusinessMetrics) RecordCustomerImport(ctx context.Context, imported, rejected int) {
	if imported > 0 {
		bm.customerImportRows.Add(ctx, int64(imported), AttrOutcome.String(OutcomeImported))
	}
	if rejected > 0 {
		bm.customerImportRows.Add(ctx, int64(rejected), AttrOutcome.String(OutcomeRejected))
	}
}

// RecordLogin counts a login attempt.
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, success bool) {
	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}
	bm.loginAttemptsTotal.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordOrderCreated counts one created order.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context) {
	bm.orderCreatedTotal.Inc(ctx)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TierService keeps the stored customer tier in line with the customer's orders
type TierService struct {
	customerRepo partner.CustomerRepository
	spend        partner.SpendReader
	logger       *zap.Logger
	metrics      *telemetry.BusinessMetrics
}

// NewTierService creates a new TierService
func NewTierService(customerRepo partner.CustomerRepository, spend partner.SpendReader, logger *zap.Logger) *TierService {
	return &TierService{
		customerRepo: customerRepo,
		spend:        spend,
		logger:       logger,
	}
}

// SetBusinessMetrics enables counting of tier changes.
func (s *TierService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// RecomputeTier sums the customer's order totals and stores the resulting tier.
// The tier is written even when it matches the one read.
// A customer that no longer exists is skipped without error.
func (s *TierService) RecomputeTier(ctx context.Context, customerID int64) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "recompute_tier",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	total, err := s.spend.SumOrderTotals(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to sum orders of customer %d: %w", customerID, err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	previous := customer.Tier
	changed := customer.ApplySpend(total)

	if err := s.customerRepo.UpdateTier(ctx, customer.ID, customer.Tier); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !changed {
		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordTierChange(ctx, string(previous), string(customer.Tier))
	}

	telemetry.AddEvent(span, "tier_changed", "from", string(previous), "to", string(customer.Tier))
	s.logger.Info("Customer tier changed",
		zap.Int64("customer_id", customer.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(customer.Tier)),
		zap.String("order_total", total.String()))
	return nil
}

package partner

import (
	"context"

	"github.com/shopspring/decimal"
)

// Tier is the customer classification derived from lifetime spend
type Tier string

const (
	TierNew Tier = "New"
	TierVIP Tier = "VIP"
)

// VIPThreshold is the lifetime order total at which a customer becomes VIP
var VIPThreshold = decimal.NewFromInt(80_000_000)

// TierFor classifies a lifetime order total. The threshold itself counts as VIP.
func TierFor(total decimal.Decimal) Tier {
	if total.GreaterThanOrEqual(VIPThreshold) {
		return TierVIP
	}
	return TierNew
}

// IsValid reports whether t is a known tier
func (t Tier) IsValid() bool {
	return t == TierNew || t == TierVIP
}

// SpendReader sums the order totals of a customer
type SpendReader interface {
	SumOrderTotals(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

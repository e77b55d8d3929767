// Package report holds the read models behind the dashboard statistics.
package report

import (
	"context"
)

// Entity identifies a countable table
type Entity string

const (
	EntityCustomer         Entity = "customer"
	EntityOrder            Entity = "order"
	EntityOrderLineItem    Entity = "order_line_item"
	EntityOrderStatusEvent Entity = "order_status_event"
	EntityService          Entity = "service"
	EntityServiceRating    Entity = "service_rating"
	EntityContact          Entity = "contact"
	EntityAccount          Entity = "account"
)

// ContactOutcome is the number of contacts per channel and outcome
type ContactOutcome struct {
	Channel string `json:"channel"`
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}

// Histogram counts scores; index 0 holds score 1
type Histogram [5]int64

// Add increments the bucket of a score, ignoring out-of-range values
func (h *Histogram) Add(score int, n int64) {
	if score < 1 || score > 5 {
		return
	}
	h[score-1] += n
}

// Total returns the number of scores recorded
func (h Histogram) Total() int64 {
	var sum int64
	for _, n := range h {
		sum += n
	}
	return sum
}

// Plus returns the bucket-wise sum of two histograms
func (h Histogram) Plus(o Histogram) Histogram {
	var out Histogram
	for i := range h {
		out[i] = h[i] + o[i]
	}
	return out
}

// ReportRepository runs the aggregate queries behind the dashboard
type ReportRepository interface {
	// CountEntities counts all rows of the given entity
	CountEntities(ctx context.Context, entity Entity) (int64, error)

	// CountCustomersByTier counts customers in a tier
	CountCustomersByTier(ctx context.Context, tier string) (int64, error)

	// CustomerYears returns the distinct creation years of customers, newest first
	CustomerYears(ctx context.Context) ([]int, error)

	// MonthlyNewCustomers returns customers created per month of year; index 0 is January
	MonthlyNewCustomers(ctx context.Context, year int) ([12]int, error)

	// ContactOutcomes groups contacts by channel and outcome
	ContactOutcomes(ctx context.Context) ([]ContactOutcome, error)

	// ServiceScores counts service ratings per score
	ServiceScores(ctx context.Context) (Histogram, error)

	// StaffScores counts staff ratings per score; contacts without one are skipped
	StaffScores(ctx context.Context) (Histogram, error)
}

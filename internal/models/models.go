// Package models defines the core data types for the cost reconciliation
// pipeline: per-subscription period costs and the derived aggregate result.
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the presentation currency assumed across all documents.
// Currency is never parsed per record; mixed-currency exports are not
// supported.
const DefaultCurrency = "EUR"

// PeriodCost holds the reconciled total for one billing period of one
// subscription. SourceFile is set only when the total came from a structured
// cost export; fallback values derived from a diff report carry no source.
type PeriodCost struct {
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	SourceFile string          `json:"source_file,omitempty"`
}

// SubscriptionRecord accumulates everything known about one subscription
// across the two billing periods being compared. Records are created lazily
// the first time a file yields the identifier and refined as further files
// are processed; they are never deleted, so all-zero records stay visible in
// the report as zero-cost subscriptions.
type SubscriptionRecord struct {
	SubscriptionID string     `json:"subscription_id"`
	PeriodA        PeriodCost `json:"period_a"`
	PeriodB        PeriodCost `json:"period_b"`
	ComparisonFile string     `json:"comparison_file,omitempty"`
}

// NewSubscriptionRecord creates a fully-initialized record for an identifier.
// Totals default to zero until a structured export or fallback value is found.
func NewSubscriptionRecord(subscriptionID, currency string) *SubscriptionRecord {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &SubscriptionRecord{
		SubscriptionID: subscriptionID,
		PeriodA:        PeriodCost{Total: decimal.Zero, Currency: currency},
		PeriodB:        PeriodCost{Total: decimal.Zero, Currency: currency},
	}
}

// Validate performs basic validation on the SubscriptionRecord
func (r *SubscriptionRecord) Validate() error {
	if strings.TrimSpace(r.SubscriptionID) == "" {
		return fmt.Errorf("subscription ID cannot be empty")
	}
	if r.PeriodA.Currency != r.PeriodB.Currency {
		return fmt.Errorf("period currencies differ: %s vs %s", r.PeriodA.Currency, r.PeriodB.Currency)
	}
	return nil
}

// Change returns the absolute month-over-month change (period B − period A).
func (r *SubscriptionRecord) Change() decimal.Decimal {
	return r.PeriodB.Total.Sub(r.PeriodA.Total)
}

// PercentChange returns the month-over-month change as a percentage of the
// period A total, or zero when period A is exactly zero.
func (r *SubscriptionRecord) PercentChange() decimal.Decimal {
	if r.PeriodA.Total.IsZero() {
		return decimal.Zero
	}
	return r.Change().Div(r.PeriodA.Total).Mul(decimal.NewFromInt(100))
}

// String returns a string representation of the SubscriptionRecord
func (r *SubscriptionRecord) String() string {
	return fmt.Sprintf("SubscriptionRecord{ID: %s, PeriodA: %s, PeriodB: %s}",
		r.SubscriptionID, r.PeriodA.Total.String(), r.PeriodB.Total.String())
}

// ParseMoney parses a monetary figure from a report cell, stripping thousands
// separators and surrounding whitespace (e.g. "9,499.42" -> 9499.42).
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

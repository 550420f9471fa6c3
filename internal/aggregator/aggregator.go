// Package aggregator reduces the per-subscription record mapping into grand
// totals and summary statistics. It is a pure one-pass reduction over an
// already-fully-populated mapping; nothing here touches the filesystem.
package aggregator

import (
	"github.com/shopspring/decimal"

	"azure-cost-reconciler/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the aggregate month-over-month comparison across all
// reconciled subscriptions.
type Summary struct {
	PeriodATotal  decimal.Decimal `json:"period_a_total"`
	PeriodBTotal  decimal.Decimal `json:"period_b_total"`
	Change        decimal.Decimal `json:"change"`
	PercentChange decimal.Decimal `json:"percent_change"`

	SubscriptionCount int `json:"subscription_count"`
	Increased         int `json:"increased"`
	Decreased         int `json:"decreased"`
	Unchanged         int `json:"unchanged"`

	PeriodAMean decimal.Decimal `json:"period_a_mean"`
	PeriodBMean decimal.Decimal `json:"period_b_mean"`
}

// Direction classifies the overall cost movement.
type Direction string

const (
	DirectionIncreased Direction = "INCREASED"
	DirectionDecreased Direction = "DECREASED"
	DirectionUnchanged Direction = "UNCHANGED"
)

// Direction returns the overall movement of the aggregate change.
func (s *Summary) Direction() Direction {
	switch {
	case s.Change.IsPositive():
		return DirectionIncreased
	case s.Change.IsNegative():
		return DirectionDecreased
	default:
		return DirectionUnchanged
	}
}

// Aggregate computes grand totals, the absolute and percentage delta, strict
// movement counts and per-subscription means. The percentage is defined as
// zero when the period A total is exactly zero. The caller guarantees at
// least one record; aggregation is skipped entirely for empty runs.
func Aggregate(records map[string]*models.SubscriptionRecord) *Summary {
	summary := &Summary{
		PeriodATotal:      decimal.Zero,
		PeriodBTotal:      decimal.Zero,
		Change:            decimal.Zero,
		PercentChange:     decimal.Zero,
		PeriodAMean:       decimal.Zero,
		PeriodBMean:       decimal.Zero,
		SubscriptionCount: len(records),
	}

	for _, record := range records {
		summary.PeriodATotal = summary.PeriodATotal.Add(record.PeriodA.Total)
		summary.PeriodBTotal = summary.PeriodBTotal.Add(record.PeriodB.Total)

		switch record.PeriodB.Total.Cmp(record.PeriodA.Total) {
		case 1:
			summary.Increased++
		case -1:
			summary.Decreased++
		default:
			summary.Unchanged++
		}
	}

	summary.Change = summary.PeriodBTotal.Sub(summary.PeriodATotal)
	if !summary.PeriodATotal.IsZero() {
		summary.PercentChange = summary.Change.Div(summary.PeriodATotal).Mul(hundred)
	}

	if summary.SubscriptionCount > 0 {
		count := decimal.NewFromInt(int64(summary.SubscriptionCount))
		summary.PeriodAMean = summary.PeriodATotal.Div(count)
		summary.PeriodBMean = summary.PeriodBTotal.Div(count)
	}

	return summary
}

package extract

import (
	"fmt"
	"os"
	"regexp"

	"azure-cost-reconciler/internal/models"
	"azure-cost-reconciler/pkg/errors"
	"azure-cost-reconciler/pkg/logger"

	"github.com/shopspring/decimal"
)

// ComparisonExtractor scrapes the grand-total row out of a free-text diff
// report. The row grammar is deliberately narrow and is the single fragile
// piece of parsing in the tool:
//
//	| TOTAL COSTS | 9,499.42 EUR | 1,620.68 EUR | ...
//
// The label and the currency suffix must appear verbatim; amounts carry
// optional thousands separators and exactly two decimal places. Surrounding
// markdown table decoration is tolerated. Any reformatting of the report
// defeats extraction, which is why the grammar lives in one place under a
// dedicated unit test rather than inline in the reconciliation loop.
type ComparisonExtractor struct {
	pattern  *regexp.Regexp
	currency string
	logger   logger.Logger
}

// NewComparisonExtractor creates an extractor for diff reports using the
// given currency code as the literal amount suffix.
func NewComparisonExtractor(currency string) *ComparisonExtractor {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	ccy := regexp.QuoteMeta(currency)
	pattern := regexp.MustCompile(
		fmt.Sprintf(`\|\s*TOTAL COSTS\s*\|\s*([\d,]+\.\d{2})\s*%s\s*\|\s*([\d,]+\.\d{2})\s*%s`, ccy, ccy))

	return &ComparisonExtractor{
		pattern:  pattern,
		currency: currency,
		logger:   logger.GetGlobalLogger().WithComponent("comparison_extractor"),
	}
}

// Currency returns the literal currency code the extractor matches against.
func (e *ComparisonExtractor) Currency() string {
	return e.currency
}

// TotalsPair extracts the (source, target) period totals from the diff
// report at path. It returns ok=false when the file cannot be opened or no
// line matches the TOTAL COSTS grammar; the caller then has no fallback for
// either period.
func (e *ComparisonExtractor) TotalsPair(path string) (source, target decimal.Decimal, ok bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		e.warn(errors.FileError(errors.CodeFileUnreadable, path, err))
		return decimal.Zero, decimal.Zero, false
	}

	match := e.pattern.FindSubmatch(content)
	if match == nil {
		e.warn(errors.ParseError(errors.CodePatternUnmatched, path, "", nil))
		return decimal.Zero, decimal.Zero, false
	}

	source, err = models.ParseMoney(string(match[1]))
	if err != nil {
		e.warn(errors.ParseError(errors.CodeInvalidAmount, path, string(match[1]), err))
		return decimal.Zero, decimal.Zero, false
	}

	target, err = models.ParseMoney(string(match[2]))
	if err != nil {
		e.warn(errors.ParseError(errors.CodeInvalidAmount, path, string(match[2]), err))
		return decimal.Zero, decimal.Zero, false
	}

	return source, target, true
}

func (e *ComparisonExtractor) warn(err *errors.CostReconError) {
	e.logger.WithFields(logger.Fields{
		"file": err.Context["file_path"],
		"code": err.Code,
	}).Warnf("Could not parse diff report: %s", err.Message)
}

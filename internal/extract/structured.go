package extract

import (
	"encoding/json"
	"os"

	"azure-cost-reconciler/pkg/errors"
	"azure-cost-reconciler/pkg/logger"

	"github.com/shopspring/decimal"
)

// costExport mirrors the subset of the JSON cost export schema this tool
// reads. Pointers distinguish an absent field from a zero value.
type costExport struct {
	Totals *struct {
		TotalCostInTimeframe *json.Number `json:"totalCostInTimeframe"`
	} `json:"totals"`
}

// StructuredExtractor reads period totals from JSON cost exports.
type StructuredExtractor struct {
	logger logger.Logger
}

// NewStructuredExtractor creates an extractor for structured cost exports.
func NewStructuredExtractor() *StructuredExtractor {
	return &StructuredExtractor{
		logger: logger.GetGlobalLogger().WithComponent("structured_extractor"),
	}
}

// TotalCost reads the totals.totalCostInTimeframe field from the export at
// path. It returns ok=false when the file cannot be opened, the content is
// not valid JSON, or the field is absent. All failures are warnings; no
// partial value is ever substituted.
func (e *StructuredExtractor) TotalCost(path string) (decimal.Decimal, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		e.warn(errors.FileError(errors.CodeFileUnreadable, path, err))
		return decimal.Zero, false
	}

	var export costExport
	if err := json.Unmarshal(data, &export); err != nil {
		e.warn(errors.ParseError(errors.CodeDecodeFailed, path, err.Error(), err))
		return decimal.Zero, false
	}

	if export.Totals == nil || export.Totals.TotalCostInTimeframe == nil {
		e.warn(errors.ParseError(errors.CodeFieldMissing, path, "totals.totalCostInTimeframe", nil))
		return decimal.Zero, false
	}

	total, err := decimal.NewFromString(export.Totals.TotalCostInTimeframe.String())
	if err != nil {
		e.warn(errors.ParseError(errors.CodeInvalidAmount, path, export.Totals.TotalCostInTimeframe.String(), err))
		return decimal.Zero, false
	}

	return total, true
}

func (e *StructuredExtractor) warn(err *errors.CostReconError) {
	e.logger.WithFields(logger.Fields{
		"file": err.Context["file_path"],
		"code": err.Code,
	}).Warnf("Could not parse cost export: %s", err.Message)
}

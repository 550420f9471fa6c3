// Package extract pulls subscription identity and cost totals out of the
// loosely-structured artifacts of an Azure cost export directory.
//
// Three extractors are provided:
//   - SubscriptionID: derives a canonical subscription identifier from a
//     filename (pure, no IO).
//   - StructuredExtractor: reads the single total from a JSON cost export
//     exposing totals.totalCostInTimeframe.
//   - ComparisonExtractor: scrapes the TOTAL COSTS row out of a free-text
//     diff report, yielding the source and target period totals.
//
// Every extractor is best-effort: failures are logged as warnings and
// reported as "unavailable" to the caller, which applies fallback precedence.
// Nothing in this package aborts a run.
package extract

package faq

import (
	"context"
	"errors"
)

// CostTable converts token counts into an estimated request cost in USD.
// Rates are fixed at configuration time; changing them never rewrites
// rows that were already recorded.
type CostTable struct {
	PromptUSDPerMillion     float64
	CompletionUSDPerMillion float64
}

// Estimate returns the cost of one request in USD.
func (t CostTable) Estimate(tokensPrompt, tokensCompletion int) float64 {
	promptCost := float64(tokensPrompt) / 1_000_000 * t.PromptUSDPerMillion
	completionCost := float64(tokensCompletion) / 1_000_000 * t.CompletionUSDPerMillion
	return promptCost + completionCost
}

// MultiRecorder fans one metrics record out to several sinks. Every sink
// is attempted; the joined error reports the ones that failed.
type MultiRecorder []MetricsRecorder

func (m MultiRecorder) Record(ctx context.Context, metrics RequestMetrics) error {
	var errs []error
	for _, rec := range m {
		if err := rec.Record(ctx, metrics); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package token estimates token counts for aggregated text and labels
// which counting strategy produced a number.
package token

import "math"

// Counter tags identifying how a token count was produced. An empty tag is
// treated as a rough estimate.
const (
	CounterEstimate     = "estimate"
	CounterTiktokenO200 = "tiktoken-o200k"
	CounterGeminiApprox = "gemini-approx"
)

// Estimate approximates token count with the rule of thumb that one token
// is about four characters, padded by 10%.
func Estimate(s string) int {
	return int(math.Ceil(float64(len(s)) / 4.0 * 1.1))
}

// Prefix returns the display prefix for a token count: measured counters
// show the bare number, estimates are marked as such.
func Prefix(counter string) string {
	switch counter {
	case CounterTiktokenO200, CounterGeminiApprox:
		return ""
	case CounterEstimate, "":
		return "est. "
	default:
		return ""
	}
}

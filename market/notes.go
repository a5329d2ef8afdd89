package market

import "strings"

// Notes are canned journal notes offered as suggestions.
var Notes = []string{
	// performance
	"Very Good", "Good", "Excellent", "Perfect", "Bad", "Poor", "Terrible",
	// execution
	"Followed Plan", "Did Not Follow Plan", "Emotional Trade", "Revenge Trade",
	"FOMO Trade", "Overtrading", "Good Entry", "Bad Entry", "Good Exit", "Bad Exit",
	// conditions
	"Trend Following", "Counter Trend", "Range Trading", "Breakout", "Reversal",
	"High Volatility", "Low Volatility", "News Event", "Economic Data",
	// analysis
	"Technical Analysis", "Fundamental Analysis", "Price Action", "Support/Resistance",
	"Moving Average", "RSI Signal", "MACD Signal", "Fibonacci",
	// lessons
	"Cut Losses Early", "Let Winners Run", "Risk Management", "Position Sizing",
	"Timing Issue", "Patience Needed", "Discipline", "Greed", "Fear",
	// sessions
	"London Session", "New York Session", "Asian Session", "Overlap Session",
	// style
	"Scalping", "Day Trading", "Swing Trading", "Position Trading",
	"Requires Review", "Needs Improvement", "Well Executed", "Rushed Decision",
}

// SuggestNote returns canned notes containing the typed text.
func SuggestNote(typed string) []string {
	q := strings.ToLower(strings.TrimSpace(typed))
	var out []string
	for _, n := range Notes {
		if q == "" || strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
		}
	}
	return out
}

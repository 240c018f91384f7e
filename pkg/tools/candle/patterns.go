package candle

import (
	"github.com/quantarc/perpsim/pkg/common"
	"github.com/quantarc/perpsim/pkg/utility/fixed"
)

func IsBullish(bar common.Bar) bool {
	return bar.Close.Gt(bar.Open)
}

func IsBearish(bar common.Bar) bool {
	return bar.Close.Lt(bar.Open)
}

// PatternStats summarizes how often a directional candle pattern occurred
// and what followed it.
type PatternStats struct {
	TotalMatches   int
	BullishNextPct fixed.Point
	BearishNextPct fixed.Point
}

// ScanPattern counts occurrences of a bullish/bearish sequence (true means
// bullish) and the direction of the candle immediately after each match. A
// doji terminates a match on either element or follow-up.
func ScanPattern(candles []common.Bar, pattern []bool) PatternStats {
	var stats PatternStats
	if len(pattern) == 0 || len(candles) <= len(pattern) {
		return stats
	}

	bullishNext := 0
	bearishNext := 0

	for i := 0; i+len(pattern) < len(candles); i++ {
		if !matchesAt(candles, pattern, i) {
			continue
		}

		stats.TotalMatches++
		next := candles[i+len(pattern)]
		switch {
		case IsBullish(next):
			bullishNext++
		case IsBearish(next):
			bearishNext++
		}
	}

	if stats.TotalMatches > 0 {
		stats.BullishNextPct = fixed.FromInt(bullishNext, 0).DivInt(stats.TotalMatches).MulInt64(100)
		stats.BearishNextPct = fixed.FromInt(bearishNext, 0).DivInt(stats.TotalMatches).MulInt64(100)
	}
	return stats
}

func matchesAt(candles []common.Bar, pattern []bool, offset int) bool {
	for j, wantBullish := range pattern {
		bar := candles[offset+j]
		if wantBullish && !IsBullish(bar) {
			return false
		}
		if !wantBullish && !IsBearish(bar) {
			return false
		}
	}
	return true
}

// Streak returns the length of the directional run ending at the last
// candle: positive for consecutive bullish candles, negative for bearish,
// zero when the last candle is a doji.
func Streak(candles []common.Bar) int {
	if len(candles) == 0 {
		return 0
	}

	last := candles[len(candles)-1]
	switch {
	case IsBullish(last):
		run := 0
		for i := len(candles) - 1; i >= 0 && IsBullish(candles[i]); i-- {
			run++
		}
		return run
	case IsBearish(last):
		run := 0
		for i := len(candles) - 1; i >= 0 && IsBearish(candles[i]); i-- {
			run++
		}
		return -run
	default:
		return 0
	}
}

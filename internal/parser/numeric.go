package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Metric cell value patterns
var (
	// "8-12" rep ranges; the lower bound is the value
	rangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*\d+(?:\.\d+)?$`)
	// "7%" fatigue-percent adjustments on RPE cells
	percentPattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*%$`)
)

// parseNumeric interprets one metric cell. ok is false only for values the
// grammar does not recognize at all; recognized values that resolve to
// nothing (a percent adjustment with no previous RPE) return a nil value
// with ok true.
//
// Accepted forms: plain numbers, "lo-hi" ranges (lower bound wins), "BW" in
// weight cells (configured default bodyweight), and "n%" in RPE cells, which
// adjusts the previous set's completed RPE down by 2 when the magnitude is
// at least 7, by 1 when at least 5, and not at all otherwise.
func (p *Parser) parseNumeric(raw string, prevRPE *float64, allowBW, isRPE bool) (*float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}

	if isRPE {
		if m := percentPattern.FindStringSubmatch(s); m != nil {
			pct, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, false
			}
			if prevRPE == nil {
				return nil, true
			}
			adjusted := *prevRPE
			switch mag := abs(pct); {
			case mag >= 7:
				adjusted -= 2
			case mag >= 5:
				adjusted -= 1
			}
			return &adjusted, true
		}
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return &lo, true
	}

	if allowBW && strings.EqualFold(s, "BW") {
		v := p.DefaultBodyweight
		return &v, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

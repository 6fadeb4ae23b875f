package score

// Band is one of the four ordered quality tiers.
type Band int

const (
	Poor Band = iota
	Average
	Good
	Excellent
)

const (
	averageFrom   = 60
	goodFrom      = 75
	excellentFrom = 90
)

func (b Band) String() string {
	switch b {
	case Poor:
		return "poor"
	case Average:
		return "average"
	case Good:
		return "good"
	case Excellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// Classify maps a score onto its band. Thresholds are half-open, so 60, 75
// and 90 land in the higher band.
func Classify(s float64) Band {
	switch {
	case s >= excellentFrom:
		return Excellent
	case s >= goodFrom:
		return Good
	case s >= averageFrom:
		return Average
	default:
		return Poor
	}
}

// ClassifyOptional reports false for a missing score so the caller can show
// a placeholder instead of a band.
func ClassifyOptional(s *float64) (Band, bool) {
	if s == nil {
		return Poor, false
	}
	return Classify(*s), true
}

package disaster

import "strings"

// RiskLevel describes disaster severity for a location/category pair.
type RiskLevel string

const (
	RiskUnknown RiskLevel = "unknown"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// Rank orders levels as unknown < low < medium < high.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// Max returns the more severe of two levels. Ties keep a.
func Max(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ParseRiskLevel maps free text such as " High " to a known level.
func ParseRiskLevel(raw string) (RiskLevel, bool) {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case RiskLow:
		return RiskLow, true
	case RiskMedium:
		return RiskMedium, true
	case RiskHigh:
		return RiskHigh, true
	case RiskUnknown:
		return RiskUnknown, true
	default:
		return "", false
	}
}

// NormalizeKey turns a user supplied location or category into a fixture key.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

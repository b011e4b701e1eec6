package types

import "fmt"

// SeverityLevel is the perceived or assessed severity of a complaint
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

// DefaultSeverityLevel is preselected in the symptom checker form
const DefaultSeverityLevel = SeverityMedium

// AllSeverityLevels returns all valid severity levels in ascending order
func AllSeverityLevels() []SeverityLevel {
	return []SeverityLevel{
		SeverityLow,
		SeverityMedium,
		SeverityHigh,
		SeverityCritical,
	}
}

// IsValid checks if the severity level is valid
func (s SeverityLevel) IsValid() bool {
	switch s {
	case SeverityLow,
		SeverityMedium,
		SeverityHigh,
		SeverityCritical:
		return true
	default:
		return false
	}
}

// Label returns the human readable label
func (s SeverityLevel) Label() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return string(s)
	}
}

// String returns the string representation of the severity level
func (s SeverityLevel) String() string {
	return string(s)
}

// ParseSeverityLevel parses a string into a SeverityLevel
func ParseSeverityLevel(s string) (SeverityLevel, error) {
	level := SeverityLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid severity level: %s", s)
	}
	return level, nil
}

package enums

import (
	"fmt"
	"strings"
)

// ConditionLevel rates one of the three risk axes attached to a store.
type ConditionLevel string

const (
	ConditionUnset    ConditionLevel = ""
	ConditionLow      ConditionLevel = "low"
	ConditionMedium   ConditionLevel = "medium"
	ConditionHigh     ConditionLevel = "high"
	ConditionCritical ConditionLevel = "critical"
)

var validConditionLevels = []ConditionLevel{
	ConditionUnset,
	ConditionLow,
	ConditionMedium,
	ConditionHigh,
	ConditionCritical,
}

// String implements fmt.Stringer.
func (c ConditionLevel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionLevel.
func (c ConditionLevel) IsValid() bool {
	for _, candidate := range validConditionLevels {
		if candidate == c {
			return true
		}
	}
	return false
}

// AtLeast reports whether c is rated at or above other. Unset ranks lowest.
func (c ConditionLevel) AtLeast(other ConditionLevel) bool {
	return c.rank() >= other.rank()
}

func (c ConditionLevel) rank() int {
	switch c {
	case ConditionLow:
		return 1
	case ConditionMedium:
		return 2
	case ConditionHigh:
		return 3
	case ConditionCritical:
		return 4
	}
	return 0
}

// ParseConditionLevel converts raw input into a ConditionLevel.
func ParseConditionLevel(value string) (ConditionLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validConditionLevels {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition level %q", value)
}

// ConditionAxis names one of the three independent risk dimensions.
type ConditionAxis string

const (
	AxisEconomic      ConditionAxis = "economic"
	AxisPolitical     ConditionAxis = "political"
	AxisEnvironmental ConditionAxis = "environmental"
)

// Allows reports whether the level may be assigned on this axis.
// Critical is only offered for environmental issues.
func (a ConditionAxis) Allows(level ConditionLevel) bool {
	if !level.IsValid() {
		return false
	}
	if level == ConditionCritical {
		return a == AxisEnvironmental
	}
	return true
}

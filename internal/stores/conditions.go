package stores

import (
	"fmt"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
)

// Condition field names as they appear on the wire.
const (
	FieldEconomicConditions   = "economic_conditions"
	FieldEconomicNotes        = "economic_notes"
	FieldPoliticalInstability = "political_instability"
	FieldPoliticalNotes       = "political_notes"
	FieldEnvironmentalIssues  = "environmental_issues"
	FieldEnvironmentalNotes   = "environmental_notes"
)

// Conditions is the editable risk sub-record of a store.
type Conditions struct {
	EconomicConditions   enums.ConditionLevel `json:"economic_conditions"`
	EconomicNotes        string               `json:"economic_notes"`
	PoliticalInstability enums.ConditionLevel `json:"political_instability"`
	PoliticalNotes       string               `json:"political_notes"`
	EnvironmentalIssues  enums.ConditionLevel `json:"environmental_issues"`
	EnvironmentalNotes   string               `json:"environmental_notes"`
}

// Levels returns the three ratings in economic, political, environmental order.
func (c Conditions) Levels() [3]enums.ConditionLevel {
	return [3]enums.ConditionLevel{c.EconomicConditions, c.PoliticalInstability, c.EnvironmentalIssues}
}

// IsConditionField reports whether field names part of the conditions sub-record.
func IsConditionField(field string) bool {
	switch field {
	case FieldEconomicConditions, FieldEconomicNotes,
		FieldPoliticalInstability, FieldPoliticalNotes,
		FieldEnvironmentalIssues, FieldEnvironmentalNotes:
		return true
	}
	return false
}

// Set assigns one field. Level fields are validated against their axis.
func (c *Conditions) Set(field, value string) error {
	switch field {
	case FieldEconomicConditions:
		return setLevel(&c.EconomicConditions, enums.AxisEconomic, value)
	case FieldPoliticalInstability:
		return setLevel(&c.PoliticalInstability, enums.AxisPolitical, value)
	case FieldEnvironmentalIssues:
		return setLevel(&c.EnvironmentalIssues, enums.AxisEnvironmental, value)
	case FieldEconomicNotes:
		c.EconomicNotes = value
	case FieldPoliticalNotes:
		c.PoliticalNotes = value
	case FieldEnvironmentalNotes:
		c.EnvironmentalNotes = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown condition field %q", field))
	}
	return nil
}

func setLevel(dst *enums.ConditionLevel, axis enums.ConditionAxis, value string) error {
	level, err := enums.ParseConditionLevel(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition level").
			WithDetails(map[string]any{"axis": string(axis), "value": value})
	}
	if !axis.Allows(level) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s conditions cannot be %s", axis, level)).
			WithDetails(map[string]any{"axis": string(axis), "value": value})
	}
	*dst = level
	return nil
}

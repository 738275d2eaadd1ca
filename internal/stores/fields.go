package stores

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
)

// ApplyField mutates a single top-level field of the record in place.
// Values arrive JSON-decoded, so numbers are float64 and absent coordinates are nil.
func ApplyField(rec *StoreRecord, field string, value any) error {
	if rec == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "nil store record")
	}
	if IsConditionField(field) {
		text, err := asString(field, value)
		if err != nil {
			return err
		}
		return rec.Conditions.Set(field, text)
	}

	switch field {
	case "store_name", "store_address", "store_phone", "store_email", "owner_name", "store_type":
		text, err := asString(field, value)
		if err != nil {
			return err
		}
		if field == "store_name" && strings.TrimSpace(text) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "store_name cannot be blank")
		}
		setText(rec, field, text)
	case "is_active":
		flag, ok := value.(bool)
		if !ok {
			return fieldTypeError(field, "a boolean", value)
		}
		rec.IsActive = flag
	case "latitude":
		coord, err := asCoordinate(field, value, 90)
		if err != nil {
			return err
		}
		rec.Latitude = coord
	case "longitude":
		coord, err := asCoordinate(field, value, 180)
		if err != nil {
			return err
		}
		rec.Longitude = coord
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("field %q is not editable", field))
	}
	return nil
}

func setText(rec *StoreRecord, field, text string) {
	switch field {
	case "store_name":
		rec.Name = text
	case "store_address":
		rec.Address = text
	case "store_phone":
		rec.Phone = text
	case "store_email":
		rec.Email = text
	case "owner_name":
		rec.OwnerName = text
	case "store_type":
		rec.StoreType = text
	}
}

func asString(field string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return "", fieldTypeError(field, "a string", value)
}

func asCoordinate(field string, value any, limit float64) (*float64, error) {
	var coord float64
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		coord = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fieldTypeError(field, "a number", value)
		}
		coord = parsed
	default:
		return nil, fieldTypeError(field, "a number", value)
	}
	if math.IsNaN(coord) || math.Abs(coord) > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be within ±%g", field, limit))
	}
	return &coord, nil
}

func fieldTypeError(field, want string, got any) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be %s", field, want)).
		WithDetails(map[string]any{"field": field, "type": fmt.Sprintf("%T", got)})
}

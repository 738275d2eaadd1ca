package orders

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the draft before it is sent upstream.
func (d OrderDraft) Validate() error {
	err := draftValidator().Struct(d)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order draft is invalid").WithDetails(fields)
}

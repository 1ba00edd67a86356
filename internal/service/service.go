package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
)

// Clock supplies the current time. Injected so tests control openedAt,
// markedAt and closedAt deterministically.
type Clock func() time.Time

func defaultClock() time.Time { return time.Now() }

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			fields[i] = fe.Field()
		}
		return appErrors.Clone(appErrors.ErrValidation, "missing or invalid fields: "+strings.Join(fields, ", "))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation failed")
}

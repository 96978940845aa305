package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "required" accepts whitespace-only strings, names must not be blank after trimming
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		// same acceptance as ParseId
		"id": func(fl validator.FieldLevel) bool {
			_, err := uuid.Parse(strings.TrimSpace(fl.Field().String()))
			return err == nil
		},
		"known": func(fl validator.FieldLevel) bool {
			k, ok := fl.Field().Interface().(interface{ Known() bool })
			return ok && k.Known()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("can't register %s validation: %v", tag, err))
		}
	}
	return v
}

// Struct checks the validate tags of a *CreationData / *UpdateData value and
// reports the first failing field, in declaration order:
// notblank as *errors.MissingRequiredFieldError, id as
// *errors.InvalidIdentifierError and known as *errors.InvalidValueError.
func Struct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		switch fe.Tag() {
		case "notblank", "required":
			return &nferrors.MissingRequiredFieldError{Field: fe.Field()}
		case "id":
			return &nferrors.InvalidIdentifierError{Field: fe.Field(), Value: fmt.Sprint(fe.Value())}
		case "known":
			return &nferrors.InvalidValueError{Field: fe.Field(), Value: fmt.Sprint(fe.Value())}
		}
		return fmt.Errorf("field %s failed %q validation", fe.Field(), fe.Tag())
	}
	return err
}

func NotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &nferrors.MissingRequiredFieldError{Field: field}
	}
	return nil
}

// ParseId parses an externally supplied identifier.
func ParseId(field, value string) (domain.Id, error) {
	if err := NotBlank(field, value); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &nferrors.InvalidIdentifierError{Field: field, Value: value}
	}
	return id, nil
}

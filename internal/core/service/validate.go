package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

const dateLayout = "2006-01-02"

type loginInput struct {
	UserKey  string `name:"userKey" validate:"required"`
	Password string `name:"password" validate:"required"`
}

type dateRange struct {
	DateFrom string `name:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `name:"date_to" validate:"required,datetime=2006-01-02"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("name")
	})
	return v
}

// check runs struct validation and returns an InvalidArgument error with one
// readable message per failing field.
func check(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.InvalidArgument(err.Error())
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return domain.InvalidArgument(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return fmt.Sprintf("%s must use the YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// checkDates validates both dates and their order. Well-formed dates compare
// correctly as strings.
func checkDates(v *validator.Validate, from, to string) error {
	if err := check(v, dateRange{DateFrom: from, DateTo: to}); err != nil {
		return err
	}
	if from > to {
		return domain.InvalidArgument(fmt.Sprintf("date_from %s is after date_to %s", from, to))
	}
	return nil
}

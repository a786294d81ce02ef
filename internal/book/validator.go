package book

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"booksapi/internal/calendar"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const publishedDateField = "publishedDate"

var (
	validate      *validator.Validate
	beDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("bedate", validateBEDate)
}

func validateBEDate(fl validator.FieldLevel) bool {
	return beDatePattern.MatchString(fl.Field().String())
}

// Validate checks a submission against today's date and converts its
// Buddhist Era date. Every failing field is reported, one message per field,
// as ValidationErrors.
func Validate(sub Submission, today time.Time) (ValidatedBook, error) {
	var errs ValidationErrors
	dateWellFormed := true

	if err := validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return ValidatedBook{}, err
		}
		for _, fe := range fieldErrs {
			if fe.Field() == publishedDateField {
				dateWellFormed = false
			}
			errs = append(errs, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
		}
	}

	var published calendar.Date
	if dateWellFormed {
		d, err := calendar.FromBuddhistEra(sub.PublishedDate, today)
		if err != nil {
			errs = append(errs, FieldError{Field: publishedDateField, Message: dateMessage(err)})
		}
		published = d
	}

	if len(errs) > 0 {
		return ValidatedBook{}, errs
	}
	return ValidatedBook{
		Title:         sub.Title,
		Author:        sub.Author,
		PublishedDate: published,
	}, nil
}

func ruleMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s must not be empty", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "bedate":
		return fmt.Sprintf("%s must match yyyy-MM-dd", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func dateMessage(err error) string {
	switch {
	case errors.Is(err, calendar.ErrYearTooEarly):
		return fmt.Sprintf("%s year must be after %d AD", publishedDateField, calendar.MinYear)
	case errors.Is(err, calendar.ErrYearInFuture):
		return fmt.Sprintf("%s must not be in the future", publishedDateField)
	default:
		return fmt.Sprintf("%s is not a valid calendar date", publishedDateField)
	}
}

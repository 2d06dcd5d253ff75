package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/St1cky1/task-manager/internal/entity"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", notBlank)
	_ = validate.RegisterValidation("titlepatch", titlePatch)
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// titlePatch accepts a blank title (kept as is by the update) or one of 3 to 100 characters.
func titlePatch(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	title := field.String()
	if strings.TrimSpace(title) == "" {
		return true
	}
	n := utf8.RuneCountInString(title)
	return n >= 3 && n <= 100
}

var errorMessages = map[string]string{
	"required":   "The field '%s' is required.",
	"notblank":   "The field '%s' must not be blank.",
	"min":        "The field '%s' must be at least %s characters long.",
	"max":        "The field '%s' must be no longer than %s characters.",
	"oneof":      "The field '%s' must be one of [%s].",
	"titlepatch": "The field '%s' must be between 3 and 100 characters long.",
}

func parseMessage(jsonTag string, e validator.FieldError) string {
	if msg, ok := errorMessages[e.Tag()]; ok {
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, jsonTag, e.Param())
		}
		return fmt.Sprintf(msg, jsonTag)
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", jsonTag, e.Tag())
}

// ValidateStruct validates a struct pointer and returns a map of JSON field names to messages.
// An empty map means the value is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for _, e := range validationErrs {
		jsonTag := e.StructField()
		if field, ok := structType.FieldByName(e.StructField()); ok {
			if tag := strings.Split(field.Tag.Get("json"), ",")[0]; tag != "" {
				jsonTag = tag
			}
		}
		if _, exists := validationErrors[jsonTag]; !exists {
			validationErrors[jsonTag] = parseMessage(jsonTag, e)
		}
	}

	return validationErrors
}

// Validate wraps ValidateStruct into an *entity.ValidationError, or nil when s is valid.
func Validate(s any) error {
	if fields := ValidateStruct(s); len(fields) > 0 {
		return &entity.ValidationError{Fields: fields}
	}
	return nil
}

package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"gymhub/internal/domain/apperr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Decode reads a JSON body into dst and runs its validate tags.
// Every failure comes back as an apperr validation error.
func Decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("body", "is too large")
		case errors.Is(err, io.EOF):
			return apperr.Invalid("body", "is required")
		default:
			return apperr.Invalid("body", "must be valid JSON: "+err.Error())
		}
	}
	return Validate(dst)
}

// DecodeOptional is Decode for endpoints where an empty body is allowed.
func DecodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return Validate(dst)
	}
	err := Decode(r, dst)
	var verr *apperr.ValidationError
	if errors.As(err, &verr) && len(verr.Issues) == 1 && verr.Issues[0].Reason == "is required" && verr.Issues[0].Field == "body" {
		return Validate(dst)
	}
	return err
}

func Validate(dst any) error {
	err := validatorInstance().Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Invalid("body", err.Error())
	}
	var issues apperr.Issues
	for _, fe := range fieldErrs {
		issues.Add(fieldPath(fe.Namespace()), reason(fe))
	}
	return issues.Err()
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must match " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Package validation registers the domain rules on a go-playground validator
// and turns its errors into field-keyed messages.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"tkphotos/internal/lib/slug"

	"github.com/go-playground/validator/v10"
)

var (
	filenameRe    = regexp.MustCompile(`^[A-Za-z0-9._-]{1,200}$`)
	relativeKeyRe = regexp.MustCompile(`^[A-Za-z0-9/._-]{3,400}$`)
	httpURLRe     = regexp.MustCompile(`(?i)^https?://`)
	whitespaceRe  = regexp.MustCompile(`\s`)
)

const DateLayout = "2006-01-02"

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"slug":       func(fl validator.FieldLevel) bool { return slug.Valid(fl.Field().String()) },
		"accesskey":  func(fl validator.FieldLevel) bool { return slug.AccessKeyPattern.MatchString(fl.Field().String()) },
		"filename":   func(fl validator.FieldLevel) bool { return filenameRe.MatchString(fl.Field().String()) },
		"storagekey": func(fl validator.FieldLevel) bool { return ValidStorageKey(fl.Field().String()) },
		"eventdate":  func(fl validator.FieldLevel) bool { return ValidDate(fl.Field().String()) },
		"coverimage": func(fl validator.FieldLevel) bool { return ValidCoverImage(fl.Field().String()) },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// IsHTTPURL reports whether s starts with http:// or https://, any case.
func IsHTTPURL(s string) bool {
	return httpURLRe.MatchString(s)
}

// ValidStorageKey accepts a full http(s) URL or a relative object path with no ".." segments.
func ValidStorageKey(s string) bool {
	if IsHTTPURL(s) {
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Host != ""
	}
	return relativeKeyRe.MatchString(s) && !strings.Contains(s, "..")
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidCoverImage accepts a URL or any storage reference without whitespace.
func ValidCoverImage(s string) bool {
	if IsHTTPURL(s) {
		_, err := url.ParseRequestURI(s)
		return err == nil
	}
	return s != "" && !whitespaceRe.MatchString(s)
}

// FieldErrors maps a field name to the messages of the rules it broke.
type FieldErrors map[string][]string

type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds a single-field validation error.
func NewError(field, msg string) *Error {
	return &Error{Fields: FieldErrors{field: {msg}}}
}

// FromValidator converts validator errors into *Error. Other errors pass through.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}

	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "slug":
		return "must contain lowercase letters, digits and single hyphens"
	case "accesskey":
		return "must be 6-64 letters or digits"
	case "filename":
		return "may only contain letters, digits, dot, underscore and hyphen (max 200)"
	case "storagekey":
		return "must be an http(s) URL or a relative path without '..'"
	case "eventdate":
		return "must be a date in YYYY-MM-DD format"
	case "coverimage":
		return "must be a URL or a storage reference without spaces"
	case "uuid4":
		return "must be a UUID v4"
	}
	return "is invalid"
}

package apiutil

import (
	"encoding/json"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterJSONTagNames makes gin's validator report fields by their JSON
// names, so problem bodies say "name" rather than "Name".
func RegisterJSONTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// BindingError converts an error from ShouldBindJSON into an Invalid error
// that lists the offending fields.
func BindingError(err error) *errors.Error {
	var fieldsErr validator.ValidationErrors
	if errors.As(err, &fieldsErr) {
		invalid := errors.Invalid.Explain("request body failed validation")
		for _, fieldErr := range fieldsErr {
			invalid = invalid.WithField(fieldErr.Tag(), fieldErr.Field(), fieldMessage(fieldErr))
		}
		return invalid
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errors.Invalid.Explain("request body failed validation").
			WithField("type", typeErr.Field, "must be a "+typeErr.Type.String())
	}

	if errors.Is(err, io.EOF) {
		return errors.Invalid.Explain("request body is empty")
	}
	return errors.Invalid.Explain("request body is not valid JSON")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

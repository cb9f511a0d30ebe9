package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// registerValidators adds the notblank rule to gin's validator engine and
// makes field errors use json names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindingMessage turns a bind error into a client-facing message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Request body is invalid"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must not be negative", fe.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

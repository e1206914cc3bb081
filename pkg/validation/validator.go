package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

const (
	msgInvalidJSON = "request body must be valid JSON"
	msgInvalid     = "invalid payload"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for common validations.
// - Rejects unknown JSON fields.
func Init() {
	initOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

var initOnce sync.Once

// Register installs tag names, aliases and custom rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	v.RegisterAlias("pwd", "min="+strconv.Itoa(MinPasswordLength))
	v.RegisterAlias("nonzero", "required")
	_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1
	})
}

// BindJSON decodes the request body into dst and validates it.
// An empty body is validated as an empty object so missing fields are reported by name.
func BindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	return err
}

// ToMessages converts validation and binding errors into client-facing messages,
// one per failing field, in struct order.
func ToMessages(err error) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fe.Field()+" "+formatFieldError(fe))
		}
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return []string{fmt.Sprintf("%s must be a %s", ute.Field, jsonKind(ute.Type))}
		}
		return []string{msgInvalidJSON}
	}

	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []string{msgInvalidJSON}
	}

	// encoding/json reports unknown fields only as text.
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return []string{"property " + strings.Trim(name, `"`) + " should not exist"}
	}

	return []string{msgInvalid}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "nonzero":
		return "should not be empty"
	case "email":
		return "must be an email"
	case "pwd":
		return fmt.Sprintf("must be longer than or equal to %d characters", MinPasswordLength)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must not be less than " + param
		}
		return "must be longer than or equal to " + param + " characters"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must not be greater than " + param
		}
		return "must be shorter than or equal to " + param + " characters"
	case "len":
		return "must be exactly " + param + " characters long"
	case "oneof":
		return "must be one of the following values: " + strings.Join(strings.Fields(param), ", ")
	case "posint":
		return "must be a positive integer"
	case "numeric", "number":
		return "must be a number string"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "mongodb":
		return "must be a mongodb id"
	case "boolean":
		return "must be a boolean value"
	default:
		if param != "" {
			return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), param)
		}
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch {
	case t.Kind() == reflect.String:
		return "string"
	case t.Kind() == reflect.Bool:
		return "boolean value"
	case isNumberKind(t.Kind()):
		return "number"
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

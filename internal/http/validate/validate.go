// Package validate adapts Gin's binding layer to the tagged-fault model.
// Handlers call the generic helpers instead of ShouldBind directly, and every
// malformed payload comes back as a single validation fault carrying
// per-field issues, never as a raw binding error.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/casafolio/go-property-backend/internal/faults"
)

func init() {
	// Report validation issues under the wire name (json/form tag), not the
	// Go field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range [...]string{"json", "form", "uri"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// Body binds and validates a JSON request body.
func Body[T any](c *gin.Context) (*T, error) {
	var v T
	if err := c.ShouldBindJSON(&v); err != nil {
		return nil, toFault(err, "request body is invalid")
	}
	return &v, nil
}

// Query binds and validates query-string parameters.
func Query[T any](c *gin.Context) (*T, error) {
	var v T
	if err := c.ShouldBindQuery(&v); err != nil {
		return nil, toFault(err, "query parameters are invalid")
	}
	return &v, nil
}

// Params binds and validates URI path parameters (uri tags).
func Params[T any](c *gin.Context) (*T, error) {
	var v T
	if err := c.ShouldBindUri(&v); err != nil {
		return nil, toFault(err, "path parameters are invalid")
	}
	return &v, nil
}

// UUIDParam returns the named path parameter, requiring it to be a UUID.
// Rejecting malformed IDs here keeps garbage out of the data layer and gives
// the caller a field-level issue instead of a blanket 404.
func UUIDParam(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", faults.Invalid("path parameters are invalid", faults.Issue{
			Path:    name,
			Message: "must be a valid UUID",
			Code:    "uuid",
		})
	}
	return raw, nil
}

// toFault converts the zoo of binding failures into one validation fault.
func toFault(err error, msg string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]faults.Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, faults.Issue{
				Path:    fieldPath(fe),
				Message: constraintMessage(fe),
				Code:    fe.Tag(),
			})
		}
		return faults.Invalid(msg, issues...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return faults.Invalid(msg, faults.Issue{
			Path:    typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
			Code:    "type",
		})
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return faults.Invalid(msg, faults.Issue{
			Message: fmt.Sprintf("%q is not a valid number", numErr.Num),
			Code:    "type",
		})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return faults.Invalid("request body is not valid JSON")
	}

	return faults.Invalid(msg)
}

// fieldPath strips the root struct name from the validator's namespace, so
// "PropertyCreate.address.city" reports as "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// constraintMessage renders a human-readable message for the common
// constraint tags; anything unrecognized falls back to naming the tag.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gtefield":
		return "must not be before " + fe.Param()
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	default:
		return "failed the " + fe.Tag() + " constraint"
	}
}

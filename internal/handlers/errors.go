package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"todo_list"
	"todo_list/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// User-facing messages.
const (
	errCredentials     = "Could not validate credentials"
	errLoginFailed     = "Incorrect username or password"
	errTaskNotFound    = "Task not found"
	errUsernameTaken   = "Username already registered"
	errEmailTaken      = "Email already registered"
	errValidation      = "Validation failed"
	errInvalidBody     = "Invalid request body"
	errInternal        = "Internal server error"
	errMustBeInteger   = "must be an integer"
	authenticateHeader = "WWW-Authenticate"
	authenticateBearer = "Bearer"
	bodyField          = "body"
	queryField         = "query"
	authFailureToken   = "invalid_token"
	authFailureLogin   = "bad_credentials"
)

var registerTagNamesOnce sync.Once

// registerValidatorTagNames makes validator report json/form names instead of Go field names.
func registerValidatorTagNames() {
	registerTagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// unauthorized writes the uniform authentication failure.
func (h *Handler) unauthorized(c *gin.Context, msg, reason string) {
	h.metrics.AuthFailure(reason)
	c.Header(authenticateHeader, authenticateBearer)
	c.AbortWithStatusJSON(http.StatusUnauthorized, todo_list.ErrorResponse{Error: msg})
}

func (h *Handler) validationFailed(c *gin.Context, details ...todo_list.FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, todo_list.ErrorResponse{Error: errValidation, Details: details})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestIDFrom(c)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.AbortWithStatusJSON(httpCode, todo_list.ErrorResponse{Error: userMsg})
}

// respondError maps a service error onto its HTTP response. Anything
// unrecognised is logged under logKey and reported as a bare 500.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		h.validationFailed(c, todo_list.FieldError{Field: ve.Field, Message: ve.Message})
	case errors.Is(err, service.ErrInvalidToken):
		h.unauthorized(c, errCredentials, authFailureToken)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.unauthorized(c, errLoginFailed, authFailureLogin)
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, todo_list.ErrorResponse{Error: errTaskNotFound})
	case errors.Is(err, service.ErrUsernameTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, todo_list.ErrorResponse{Error: errUsernameTaken})
	case errors.Is(err, service.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, todo_list.ErrorResponse{Error: errEmailTaken})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// bindJSONOrBadRequest binds the request body into dst. Broken JSON is a 400,
// well-formed JSON with bad fields is a 422. Returns false if the request was
// already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	h.log.Infow("bad_request_body", "err", err, "path", c.FullPath())

	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		h.validationFailed(c, fieldErrors(verrs)...)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		h.validationFailed(c, todo_list.FieldError{Field: field, Message: "must be of type " + jsonTypeName(typeErr.Type)})
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, todo_list.ErrorResponse{Error: errInvalidBody + ": empty"})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, todo_list.ErrorResponse{Error: errInvalidBody})
	}
	return false
}

// bindOrUnprocessable binds query or form input with b. Every failure is a 422.
func (h *Handler) bindOrUnprocessable(c *gin.Context, dst any, b binding.Binding, field string) bool {
	err := c.ShouldBindWith(dst, b)
	if err == nil {
		return true
	}

	var (
		verrs  validator.ValidationErrors
		numErr *strconv.NumError
	)
	switch {
	case errors.As(err, &verrs):
		h.validationFailed(c, fieldErrors(verrs)...)
	case errors.As(err, &numErr):
		h.validationFailed(c, todo_list.FieldError{Field: field, Message: errMustBeInteger})
	default:
		h.validationFailed(c, todo_list.FieldError{Field: field, Message: err.Error()})
	}
	return false
}

func fieldErrors(verrs validator.ValidationErrors) []todo_list.FieldError {
	out := make([]todo_list.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, todo_list.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	}
	return "failed on " + fe.Tag()
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.String()
}

// pathID parses the :id path parameter; on failure it writes a 422.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.validationFailed(c, todo_list.FieldError{Field: "id", Message: errMustBeInteger})
		return 0, false
	}
	return id, true
}

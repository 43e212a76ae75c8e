package handler // handler defines the HTTP handlers of the storefront API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/middleware"
	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

// DefaultTimeout bounds the storage work of a single request when the
// handler was built without an explicit timeout.
const DefaultTimeout = 5 * time.Second

// RequestValidator adapts go-playground/validator to echo.Validator.  Field
// names in errors are the JSON names of the request DTO.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate returns a *service.ValidationError listing every failing field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &service.ValidationError{Fields: fields}
}

// bindAndValidate decodes the body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &service.ValidationError{Fields: []string{"body"}}
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// respondError writes err as a {success:false, error} body with the status
// its kind maps to.  Unrecognised errors are logged and hidden behind a
// generic 500.
func respondError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrUnknownProduct) {
		err = &service.ValidationError{Fields: []string{"product_ids"}}
	}
	status, msg := errorStatus(err)
	body := echo.Map{"success": false, "error": msg}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	if status == http.StatusInternalServerError {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Printf("http: %s %s request_id=%s: %v", c.Request().Method, c.Path(), rid, err)
	}
	return c.JSON(status, body)
}

func errorStatus(err error) (int, string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOfferNotFound),
		errors.Is(err, repository.ErrPackNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, service.ErrDuplicateEmail.Error()
	case errors.Is(err, service.ErrDuplicateSlug), errors.Is(err, repository.ErrSlugExists):
		return http.StatusConflict, service.ErrDuplicateSlug.Error()
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Fields: []string{name}}
	}
	return id, nil
}

// currentUser returns the user attached by the session middleware, or nil.
func currentUser(c echo.Context) *model.User {
	return middleware.CurrentUser(c)
}

// requestCtx derives the storage context of a request.
func requestCtx(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// trimPtr trims *s and turns an empty result into nil, so partial updates
// keep the stored value for blank fields.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "marketlens/internal/errors"
	"marketlens/internal/sheets"
	"marketlens/pkg/contracts/domain"
)

const defaultMaxBodySize = 10 << 20

// ValidationMiddleware checks request bodies before they reach handlers:
// a syntactic JSON gate on the way in, and tag-driven struct validation
// via ValidateStruct once the handler has decoded the payload.
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	v := validator.New()
	v.RegisterValidation("iso8601", isISO8601)
	v.RegisterValidation("dataset", isValidDataset)
	v.RegisterValidation("spreadsheet", isValidSpreadsheet)

	// Report fields under their JSON names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger.With(slog.String("component", "validation_middleware")),
		errorHandler: errorHandler,
		maxBodySize:  defaultMaxBodySize,
	}
}

// ValidateRequest rejects oversized and syntactically invalid JSON
// bodies. The body is re-buffered so downstream decoders see it intact.
// Read-only methods pass straight through.
func (m *ValidationMiddleware) ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > m.maxBodySize {
			m.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				"Request body exceeds maximum allowed size",
				map[string]interface{}{
					"max_size": m.maxBodySize,
					"size":     r.ContentLength,
				},
			))
			return
		}

		if r.Body != nil && r.ContentLength > 0 {
			body, err := io.ReadAll(io.LimitReader(r.Body, m.maxBodySize))
			if err != nil {
				m.logger.ErrorContext(r.Context(), "failed to read request body",
					slog.String("error", err.Error()),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				m.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if len(body) > 0 && !json.Valid(body) {
				m.errorHandler.HandleError(w, r, apierrors.New(
					http.StatusBadRequest,
					"INVALID_JSON",
					"Request body contains invalid JSON",
				))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateStruct runs tag validation on a decoded payload and converts
// any failures into an APIError carrying per-field details.
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fields []apierrors.ValidationError
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: describeFailure(fe),
		})
	}
	return apierrors.NewValidationErrors(fields)
}

// ContentTypeValidator answers 415 for bodies in a media type outside
// the allowed set, and 400 when a body arrives with no Content-Type at
// all. Requests without a body are never rejected.
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyless := r.Method == http.MethodGet || r.Method == http.MethodHead ||
				r.Method == http.MethodDelete || r.ContentLength <= 0
			if bodyless {
				next.ServeHTTP(w, r)
				return
			}

			ct := r.Header.Get("Content-Type")
			if ct == "" {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			for _, allowed := range contentTypes {
				if strings.HasPrefix(ct, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			render.Status(r, http.StatusUnsupportedMediaType)
			render.JSON(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported content type",
				map[string]interface{}{
					"content_type": ct,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// failureMessages holds the templates for tags whose message takes the
// field name and the tag parameter, in that order.
var failureMessages = map[string]string{
	"min": "%s must be at least %s",
	"max": "%s must be at most %s",
	"len": "%s must be exactly %s characters",
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"gt":  "%s must be greater than %s",
	"lt":  "%s must be less than %s",
}

func describeFailure(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "iso8601":
		return fmt.Sprintf("%s must be a valid ISO8601 date", field)
	case "dataset":
		return fmt.Sprintf("%s must be a known dataset name", field)
	case "spreadsheet":
		return fmt.Sprintf("%s must be a spreadsheet ID or URL", field)
	}
	if tmpl, ok := failureMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func isISO8601(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isValidDataset(fl validator.FieldLevel) bool {
	return domain.Dataset(fl.Field().String()).Valid()
}

// isValidSpreadsheet accepts a bare spreadsheet ID or a full sheet URL.
func isValidSpreadsheet(fl validator.FieldLevel) bool {
	_, err := sheets.ExtractSpreadsheetID(fl.Field().String())
	return err == nil
}

package utils

import (
	"net/http"
	"strconv"

	"github.com/ecommkit/storefront/internal/errors"
	"github.com/ecommkit/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))

		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		response.Error(w, errors.ValidationError("Invalid input data").WithDetail(err.Error()))

		return false
	}

	return true
}

// ParseUUID reads a path value as a UUID. Malformed identifiers are a
// validation problem, not a 404.
func ParseUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, errors.AddValidationError(name, "is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.AddValidationError(name, "must be a valid UUID").WithError(err)
	}

	return id, nil
}

func ParseInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, errors.AddValidationError(name, "is required")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.AddValidationError(name, "must be an integer").WithError(err)
	}

	return id, nil
}

// ParsePagination clamps page/size query params to the configured bounds.
func ParsePagination(r *http.Request, defaultSize, maxSize int) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 {
		size = defaultSize
	}

	if size > maxSize {
		size = maxSize
	}

	return page, size
}

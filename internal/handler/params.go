package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/shareit/internal/domain"
	"github.com/pkordes/shareit/internal/middleware"
)

// callerID binds the X-Sharer-User-Id header. Every booking route requires it.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(middleware.CallerHeader)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: header %s is required", domain.ErrValidation, middleware.CallerHeader)
	}

	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", middleware.CallerHeader, raw, &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: header %s must be a UUID", domain.ErrValidation, middleware.CallerHeader)
	}
	return id, nil
}

// pathUUID binds a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: path parameter %s must be a UUID", domain.ErrValidation, name)
	}
	return id, nil
}

// listParams binds ?state=&from=&size=. A missing state means ALL and a
// missing size means defaultSize.
func listParams(r *http.Request, defaultSize int) (string, domain.PageRequest, error) {
	var (
		state      *string
		from, size *int
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "state", q, &state); err != nil {
		return "", domain.PageRequest{}, fmt.Errorf("%w: invalid query parameter state", domain.ErrValidation)
	}
	if err := runtime.BindQueryParameter("form", true, false, "from", q, &from); err != nil {
		return "", domain.PageRequest{}, fmt.Errorf("%w: from must be an integer", domain.ErrValidation)
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", q, &size); err != nil {
		return "", domain.PageRequest{}, fmt.Errorf("%w: size must be an integer", domain.ErrValidation)
	}

	page, err := domain.NewPageRequest(from, size, defaultSize)
	if err != nil {
		return "", domain.PageRequest{}, err
	}
	category := ""
	if state != nil {
		category = *state
	}
	return category, page, nil
}

// approvedParam binds the required ?approved= boolean.
func approvedParam(r *http.Request) (bool, error) {
	if !r.URL.Query().Has("approved") {
		return false, fmt.Errorf("%w: query parameter approved is required", domain.ErrValidation)
	}
	var approved bool
	if err := runtime.BindQueryParameter("form", true, true, "approved", r.URL.Query(), &approved); err != nil {
		return false, fmt.Errorf("%w: approved must be true or false", domain.ErrValidation)
	}
	return approved, nil
}

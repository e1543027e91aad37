package http

import (
	"errors"
	"net/http"

	catalog "github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/export_products"
	identity "github.com/light-bringer/procat-web/internal/app/identity/domain"
	siteconfig "github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrImageNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidSlug),
		errors.Is(err, catalog.ErrNotAnImage),
		errors.Is(err, catalog.ErrInvalidBulkAction),
		errors.Is(err, catalog.ErrNoProductsSelected),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrEmptyName),
		errors.Is(err, identity.ErrInvalidRole),
		errors.Is(err, identity.ErrPasswordTooShort),
		errors.Is(err, identity.ErrSelfDelete),
		errors.Is(err, identity.ErrSelfDeactivate),
		errors.Is(err, siteconfig.ErrUnknownKey),
		errors.Is(err, siteconfig.ErrNoValues),
		errors.Is(err, export_products.ErrUnknownFormat):
		return http.StatusBadRequest

	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, catalog.ErrSlugExhausted):
		return http.StatusConflict

	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrUserInactive):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

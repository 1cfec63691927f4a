package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// currentUser returns the authenticated user id, writing a 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return "", false
	}
	return userID, true
}

// pathID reads a required path parameter, writing a 400 when blank.
func pathID(w http.ResponseWriter, r *http.Request, logg *logger.Logger, key string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, key))
	if id == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, key+" is required").
			WithDetails(map[string]string{key: "is required"}))
		return "", false
	}
	return id, true
}

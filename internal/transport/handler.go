package transport

import (
	"fmt"
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/logger"
	"rekraft-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware is the chi middleware shape handlers accept for protected groups.
type Middleware func(http.Handler) http.Handler

// base carries what every handler needs to answer a request.
type base struct {
	logger     *zap.Logger
	production bool
}

func (b base) log(r *http.Request) *zap.Logger {
	return logger.FromContext(r.Context(), b.logger)
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	b.log(r).Debug("Request rejected", zap.Error(err))
	middleware.RespondWithServiceError(w, r, err, b.production)
}

// caller returns the authenticated identity. Routes using it sit behind the
// auth middleware, so a miss is answered as unauthorized.
func (b base) caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		b.log(r).Error("Identity not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}

// pathID parses a UUID route parameter. A malformed id cannot name an
// existing resource, so it is reported as not found.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("resource not found: %w", domain.ErrNotFound)
	}
	return id, nil
}

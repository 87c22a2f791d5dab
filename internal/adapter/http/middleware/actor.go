package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/logging"
	"github.com/openbooks/yearend/internal/usecase"
)

// ActorHeader carries the ID of the user on whose behalf a request runs.
const ActorHeader = "X-User-ID"

// Actor puts the requesting user on the context. Requests without the header
// run as the system user.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := domain.ValidateID(actor); err != nil {
			http.Error(w, "invalid "+ActorHeader+" header", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(usecase.WithActor(r.Context(), actor)))
	})
}

// Company validates the {companyID} route parameter and tags the context
// with it.
func Company(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companyID := chi.URLParam(r, "companyID")
		if err := domain.ValidateID(companyID); err != nil {
			http.Error(w, "invalid company id", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(logging.WithCompanyID(r.Context(), companyID)))
	})
}

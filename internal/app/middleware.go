package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the token of the Authorization header to a user. Requests
// without the header continue as AnonymousUser.
func (app *Application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		header := r.Header.Get("Authorization")
		if header == "" {
			r = app.contextSetUser(r, AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || (scheme != "Token" && scheme != "Bearer") || strings.TrimSpace(token) == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		user, err := app.userRepo.GetByToken(r.Context(), domain.HashToken(strings.TrimSpace(token)), domain.AuthenticationScope)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrRecordNotFound):
				app.invalidAuthenticationTokenResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}

			return
		}

		r = app.contextSetUser(r, user)

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAnonymous(app.contextGetUser(r)) {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

type contextKey string

const userContextKey = contextKey("user")

// AnonymousUser is placed in the request context when no token was presented.
var AnonymousUser = &domain.User{}

func isAnonymous(u *domain.User) bool {
	return u == AnonymousUser
}

func (app *Application) contextSetUser(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *Application) contextGetUser(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userContextKey).(*domain.User)
	if !ok {
		return AnonymousUser
	}

	return user
}

func (app *Application) contextGetUserId(r *http.Request) int {
	return app.contextGetUser(r).ID
}

// contextGetLogger returns the application logger annotated with the request ID
// and, for authenticated requests, the user ID.
func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger := app.logger.With("request_id", middleware.GetReqID(r.Context()))

	if user := app.contextGetUser(r); !isAnonymous(user) {
		logger = logger.With("user_id", user.ID)
	}

	return logger
}

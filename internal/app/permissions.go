package app

import "net/http"

func (app *Application) requireStaff(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if !app.contextGetUser(r).IsStaff {
			app.contextGetLogger(r).Warn("non-staff user attempted a staff operation", "method", r.Method, "uri", r.URL.RequestURI())
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	}

	return app.requireAuthentication(http.HandlerFunc(fn))
}

// readOnlyUnlessStaff lets any authenticated user read and only staff write.
func (app *Application) readOnlyUnlessStaff(next http.Handler) http.Handler {
	staffOnly := app.requireStaff(next)
	authenticated := app.requireAuthentication(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			authenticated.ServeHTTP(w, r)
		default:
			staffOnly.ServeHTTP(w, r)
		}
	})
}

package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
)

const mediaURLPrefix = "/media/"

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.authenticate)

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Get("/healthcheck", app.GetHealth)
	r.Get("/openapi.json", app.GetOpenAPI)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Method(http.MethodGet, mediaURLPrefix+"*", app.images.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", app.RegisterUser)
		r.Post("/token", app.CreateAuthenticationToken)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication)

			r.Get("/me", app.GetCurrentUser)
			r.Patch("/me", app.UpdateCurrentUser)
		})
	})

	r.Route("/api/theatre", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(app.readOnlyUnlessStaff)

			r.Get("/genres", app.ListGenres)
			r.Post("/genres", app.CreateGenre)

			r.Get("/actors", app.ListActors)
			r.Post("/actors", app.CreateActor)

			r.Get("/theatre-halls", app.ListTheatreHalls)
			r.Post("/theatre-halls", app.CreateTheatreHall)

			r.Get("/plays", app.ListPlays)
			r.Post("/plays", app.CreatePlay)
			r.Get("/plays/{id}", app.GetPlay)
			r.Post("/plays/{id}/upload-image", app.UploadPlayImage)

			r.Get("/performances", app.ListPerformances)
			r.Post("/performances", app.CreatePerformance)
			r.Get("/performances/{id}", app.GetPerformance)
			r.Put("/performances/{id}", app.UpdatePerformance)
			r.Delete("/performances/{id}", app.DeletePerformance)

			r.Get("/tickets", app.ListTickets)
			r.Post("/tickets", app.CreateTicket)
			r.Get("/tickets/{id}", app.GetTicket)
			r.Put("/tickets/{id}", app.UpdateTicket)
			r.Patch("/tickets/{id}", app.PatchTicket)
			r.Delete("/tickets/{id}", app.DeleteTicket)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuthentication)

			r.Get("/reservations", app.ListReservations)
			r.Post("/reservations", app.CreateReservation)
		})
	})

	return r
}

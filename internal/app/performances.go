package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/booking"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

func (app *Application) ListPerformances(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	params, err := bindListPerformancesParams(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	filters := toPerformanceFilters(params)

	performances, err := app.performanceRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.PerformanceListItem, len(performances))

	for i, p := range performances {
		available, err := booking.Available(p.HallCapacity, p.TicketsSold)
		if err != nil {
			logger.Error("inconsistent seat availability", "performance_id", p.ID, "error", err)
			app.serverErrorResponse(w, r, err)
			return
		}

		resp[i] = api.PerformanceListItem{
			Id:                  p.ID,
			PlayTitle:           p.PlayTitle,
			PlayImage:           p.PlayImage,
			TheatreHallName:     p.HallName,
			TheatreHallCapacity: p.HallCapacity,
			TicketsAvailable:    available,
			ShowTime:            p.ShowTime,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetPerformance(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	performance, err := app.performanceRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	available, err := app.booking.AvailableSeats(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.PerformanceDetail{
		Id:               performance.ID,
		ShowTime:         performance.ShowTime,
		Play:             toApiPlay(performance.Play),
		TheatreHall:      toApiTheatreHall(performance.Hall),
		TicketsAvailable: available,
		TakenPlaces:      make([]api.SeatPosition, len(performance.TakenPlaces)),
	}

	for i, p := range performance.TakenPlaces {
		resp.TakenPlaces[i] = api.SeatPosition{Row: p.Row, Seat: p.Seat}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	var input api.PerformanceRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	performance := domain.Performance{
		PlayID:        input.Play,
		TheatreHallID: input.TheatreHall,
		ShowTime:      input.ShowTime,
	}

	err = app.performanceRepo.Create(r.Context(), &performance)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidReference):
			app.badRequestResponse(w, r, errors.New(ErrInvalidReferencedItem))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiPerformance(performance), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input api.PerformanceRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	performance := domain.Performance{
		ID:            id,
		PlayID:        input.Play,
		TheatreHallID: input.TheatreHall,
		ShowTime:      input.ShowTime,
	}

	err = app.booking.UpdatePerformance(r.Context(), &performance)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiPerformance(performance), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.performanceRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bookingErrorResponse maps the errors of the booking service to responses.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *booking.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.bookingValidationResponse(w, r, validationErr)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrInvalidReference):
		app.badRequestResponse(w, r, errors.New(ErrInvalidReferencedItem))
	case errors.Is(err, domain.ErrIntegrityConflict):
		app.contextGetLogger(r).Warn("booking conflict", "error", err)
		app.conflictResponse(w, r, ErrSeatsConflict)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func toApiPerformance(p domain.Performance) api.Performance {
	return api.Performance{
		Id:          p.ID,
		Play:        p.PlayID,
		TheatreHall: p.TheatreHallID,
		ShowTime:    p.ShowTime,
	}
}

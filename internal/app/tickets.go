package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

func (app *Application) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := app.ticketRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.Ticket, len(tickets))
	for i, t := range tickets {
		resp[i] = toApiTicket(t)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := app.readTicket(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, toApiTicket(*ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var input api.TicketRequest

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

	ticket := domain.Ticket{
		Row:           input.Row,
		Seat:          input.Seat,
		PerformanceID: input.Performance,
		ReservationID: input.Reservation,
	}

	err = app.booking.CreateTicket(r.Context(), &ticket)
	if err != nil {
		app.ticketErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := app.readTicket(w, r)
	if !ok {
		return
	}

	var input api.TicketRequest

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

	ticket.Row = input.Row
	ticket.Seat = input.Seat
	ticket.PerformanceID = input.Performance
	ticket.ReservationID = input.Reservation

	app.saveTicket(w, r, ticket)
}

func (app *Application) PatchTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := app.readTicket(w, r)
	if !ok {
		return
	}

	var input api.TicketPatchRequest

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

	if input.Row != nil {
		ticket.Row = *input.Row
	}
	if input.Seat != nil {
		ticket.Seat = *input.Seat
	}
	if input.Performance != nil {
		ticket.PerformanceID = *input.Performance
	}
	if input.Reservation != nil {
		ticket.ReservationID = *input.Reservation
	}

	app.saveTicket(w, r, ticket)
}

func (app *Application) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.ticketRepo.Delete(r.Context(), id)
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

func (app *Application) saveTicket(w http.ResponseWriter, r *http.Request, ticket *domain.Ticket) {
	err := app.booking.UpdateTicket(r.Context(), ticket)
	if err != nil {
		app.ticketErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(*ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readTicket loads the ticket named by the URL and writes the error response
// when it cannot.
func (app *Application) readTicket(w http.ResponseWriter, r *http.Request) (*domain.Ticket, bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	ticket, err := app.ticketRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return nil, false
	}

	return ticket, true
}

// ticketErrorResponse treats a missing reservation as a missing resource.
func (app *Application) ticketErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidReference) {
		app.notFoundResponse(w, r)
		return
	}

	app.bookingErrorResponse(w, r, err)
}

func toApiTicket(t domain.Ticket) api.Ticket {
	return api.Ticket{
		Id:          t.ID,
		Row:         t.Row,
		Seat:        t.Seat,
		Performance: t.PerformanceID,
		Reservation: t.ReservationID,
	}
}

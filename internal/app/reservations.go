package app

import (
	"context"
	"net/http"
	"time"

	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/booking"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
)

const reservationMailTemplate = "reservation_confirmation.tmpl"

type mailTicket struct {
	PlayTitle string
	HallName  string
	ShowTime  string
	Row       int
	Seat      int
}

func (app *Application) ListReservations(w http.ResponseWriter, r *http.Request) {
	params, err := bindListReservationsParams(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination, err := toPagination(params)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	reservations, metadata, err := app.reservationRepo.GetByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ReservationListResponse{
		Reservations: make([]api.Reservation, len(reservations)),
		Metadata:     toApiMetadata(metadata),
	}

	for i, reservation := range reservations {
		resp.Reservations[i] = toApiReservation(reservation)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateReservation(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ReservationRequest

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

	user := app.contextGetUser(r)

	requests := make([]booking.TicketRequest, len(input.Tickets))
	for i, t := range input.Tickets {
		requests[i] = booking.TicketRequest{
			PerformanceID: t.Performance,
			Row:           t.Row,
			Seat:          t.Seat,
		}
	}

	created, err := app.booking.CreateReservation(r.Context(), user.ID, requests)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetByIdAndUserId(r.Context(), created.ID, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("reservation created", "reservation_id", reservation.ID, "tickets", len(reservation.Tickets))

	go func(ctx context.Context) {
		// new logger for this goroutine, inheriting context from the request
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending reservation mail", "panic", err)
			}
		}()

		data := map[string]any{
			"reservationID": reservation.ID,
			"tickets":       toMailTickets(reservation.Tickets),
		}

		err := app.mailer.Send(user.Email, reservationMailTemplate, data)
		if err != nil {
			gLogger.Error("failed to send reservation confirmation email", "error", err)
		} else {
			gLogger.Info("reservation confirmation email sent successfully")
		}
	}(context.WithoutCancel(r.Context()))

	err = app.writeJSON(w, http.StatusCreated, toApiReservation(*reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMailTickets(tickets []domain.Ticket) []mailTicket {
	result := make([]mailTicket, len(tickets))

	for i, t := range tickets {
		result[i] = mailTicket{Row: t.Row, Seat: t.Seat}

		if t.Performance != nil {
			result[i].PlayTitle = t.Performance.PlayTitle
			result[i].HallName = t.Performance.TheatreHallName
			result[i].ShowTime = t.Performance.ShowTime.Format(time.DateTime)
		}
	}

	return result
}

func toApiReservation(r domain.Reservation) api.Reservation {
	reservation := api.Reservation{
		Id:        r.ID,
		CreatedAt: r.CreatedAt,
		Tickets:   make([]api.ReservationTicket, len(r.Tickets)),
	}

	for i, t := range r.Tickets {
		ticket := api.ReservationTicket{
			Id:   t.ID,
			Row:  t.Row,
			Seat: t.Seat,
		}

		if t.Performance != nil {
			ticket.Performance = api.TicketPerformance{
				Id:              t.Performance.ID,
				PlayTitle:       t.Performance.PlayTitle,
				TheatreHallName: t.Performance.TheatreHallName,
				ShowTime:        t.Performance.ShowTime,
			}
		} else {
			ticket.Performance.Id = t.PerformanceID
		}

		reservation.Tickets[i] = ticket
	}

	return reservation
}

func toApiMetadata(m *domain.Metadata) api.Metadata {
	return api.Metadata{
		CurrentPage:  m.CurrentPage,
		FirstPage:    m.FirstPage,
		LastPage:     m.LastPage,
		PageSize:     m.PageSize,
		TotalRecords: m.TotalRecords,
	}
}

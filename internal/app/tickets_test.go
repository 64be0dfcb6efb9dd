package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TicketsTestSuite struct {
	suite.Suite
	app             *Application
	ticketRepo      *mocks.MockTicketRepo
	performanceRepo *mocks.MockPerformanceRepo
	hall            domain.TheatreHall
}

func (s *TicketsTestSuite) SetupTest() {
	s.ticketRepo = new(mocks.MockTicketRepo)
	s.performanceRepo = new(mocks.MockPerformanceRepo)
	s.hall = domain.TheatreHall{ID: 1, Name: "Studio", Rows: 2, SeatsInRow: 5}
	s.app = newTestApplication(func(a *Application) {
		a.ticketRepo = s.ticketRepo
		a.performanceRepo = s.performanceRepo
	})
}

func TestTicketsSuite(t *testing.T) {
	suite.Run(t, new(TicketsTestSuite))
}

func (s *TicketsTestSuite) TestCreateTicket() {
	tests := []struct {
		name       string
		input      api.TicketRequest
		setupMock  func()
		wantStatus int
		wantIssue  string
	}{
		{
			name:  "created",
			input: api.TicketRequest{Row: 1, Seat: 2, Performance: 4, Reservation: 10},
			setupMock: func() {
				s.performanceRepo.On("GetHalls", mock.Anything, []int{4}).Return(map[int]domain.TheatreHall{4: s.hall}, nil).Once()
				s.ticketRepo.On("GetByPerformanceIds", mock.Anything, []int{4}).Return([]domain.Ticket{}, nil).Once()
				s.ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Ticket).ID = 30
				}).Return(nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:  "seat outside the hall",
			input: api.TicketRequest{Row: 1, Seat: 6, Performance: 4, Reservation: 10},
			setupMock: func() {
				s.performanceRepo.On("GetHalls", mock.Anything, []int{4}).Return(map[int]domain.TheatreHall{4: s.hall}, nil).Once()
				s.ticketRepo.On("GetByPerformanceIds", mock.Anything, []int{4}).Return([]domain.Ticket{}, nil).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantIssue:  "seat must be in range [1, 5]",
		},
		{
			name:  "unknown reservation",
			input: api.TicketRequest{Row: 1, Seat: 3, Performance: 4, Reservation: 99},
			setupMock: func() {
				s.performanceRepo.On("GetHalls", mock.Anything, []int{4}).Return(map[int]domain.TheatreHall{4: s.hall}, nil).Once()
				s.ticketRepo.On("GetByPerformanceIds", mock.Anything, []int{4}).Return([]domain.Ticket{}, nil).Once()
				s.ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Return(domain.ErrInvalidReference).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.setupMock()

			w, r := executeRequest(s.T(), http.MethodPost, "/api/theatre/tickets", tt.input)

			s.app.CreateTicket(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var got api.Ticket
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
				want := api.Ticket{Id: 30, Row: 1, Seat: 2, Performance: 4, Reservation: 10}
				if diff := cmp.Diff(want, got); diff != "" {
					s.T().Errorf("CreateTicket() mismatch (-want +got):\n%s", diff)
				}
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantIssue,
			})
		})
	}

	s.ticketRepo.AssertExpectations(s.T())
}

func (s *TicketsTestSuite) TestPatchTicketKeepsOwnSeat() {
	s.ticketRepo.On("GetById", mock.Anything, 30).
		Return(&domain.Ticket{ID: 30, Row: 1, Seat: 2, PerformanceID: 4, ReservationID: 10}, nil).Once()
	s.performanceRepo.On("GetHalls", mock.Anything, []int{4}).Return(map[int]domain.TheatreHall{4: s.hall}, nil).Once()
	s.ticketRepo.On("GetByPerformanceIds", mock.Anything, []int{4}).
		Return([]domain.Ticket{{ID: 30, Row: 1, Seat: 2, PerformanceID: 4}}, nil).Once()
	s.ticketRepo.On("Update", mock.Anything, mock.MatchedBy(func(t *domain.Ticket) bool {
		return t.ID == 30 && t.Row == 2 && t.Seat == 2 && t.ReservationID == 10
	})).Return(nil).Once()

	w, r := executeRequest(s.T(), http.MethodPatch, "/api/theatre/tickets/30", api.TicketPatchRequest{Row: ptr(2)})
	r = withURLParams(r, map[string]string{"id": "30"})

	s.app.PatchTicket(w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	var got api.Ticket
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
	s.Equal(api.Ticket{Id: 30, Row: 2, Seat: 2, Performance: 4, Reservation: 10}, got)

	s.ticketRepo.AssertExpectations(s.T())
}

func (s *TicketsTestSuite) TestUpdateTicketTakenSeat() {
	s.ticketRepo.On("GetById", mock.Anything, 30).
		Return(&domain.Ticket{ID: 30, Row: 1, Seat: 2, PerformanceID: 4, ReservationID: 10}, nil).Once()
	s.performanceRepo.On("GetHalls", mock.Anything, []int{4}).Return(map[int]domain.TheatreHall{4: s.hall}, nil).Once()
	s.ticketRepo.On("GetByPerformanceIds", mock.Anything, []int{4}).
		Return([]domain.Ticket{{ID: 30, Row: 1, Seat: 2, PerformanceID: 4}, {ID: 31, Row: 2, Seat: 1, PerformanceID: 4}}, nil).Once()

	input := api.TicketRequest{Row: 2, Seat: 1, Performance: 4, Reservation: 10}

	w, r := executeRequest(s.T(), http.MethodPut, "/api/theatre/tickets/30", input)
	r = withURLParams(r, map[string]string{"id": "30"})

	s.app.UpdateTicket(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, struct {
		wantStatus     int
		wantErrMessage string
	}{http.StatusBadRequest, "seat already taken"})

	s.ticketRepo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *TicketsTestSuite) TestGetTicketInvalidID() {
	w, r := executeRequest(s.T(), http.MethodGet, "/api/theatre/tickets/abc", nil)
	r = withURLParams(r, map[string]string{"id": "abc"})

	s.app.GetTicket(w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TicketsTestSuite) TestDeleteTicket() {
	s.ticketRepo.On("Delete", mock.Anything, 30).Return(nil).Once()

	w, r := executeRequest(s.T(), http.MethodDelete, "/api/theatre/tickets/30", nil)
	r = withURLParams(r, map[string]string{"id": "30"})

	s.app.DeleteTicket(w, r)

	s.Equal(http.StatusNoContent, w.Code)
	s.ticketRepo.AssertExpectations(s.T())
}

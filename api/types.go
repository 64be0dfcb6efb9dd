// Package api holds the request and response bodies of the HTTP interface and
// the OpenAPI document describing it.
package api

import "time"

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type Genre struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type ActorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

type Actor struct {
	Id        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type TheatreHallRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Rows       int    `json:"rows" validate:"required,min=1"`
	SeatsInRow int    `json:"seats_in_row" validate:"required,min=1"`
}

type TheatreHall struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

type PlayRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Genres      []int  `json:"genres" validate:"dive,min=1"`
	Actors      []int  `json:"actors" validate:"dive,min=1"`
}

// PlayListItem is the compact play representation of the list view.
type PlayListItem struct {
	Id          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Actors      []string `json:"actors"`
	Image       string   `json:"image"`
}

type Play struct {
	Id          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Genres      []Genre `json:"genres"`
	Actors      []Actor `json:"actors"`
	Image       string  `json:"image"`
}

type PlayImageResponse struct {
	Id    int    `json:"id"`
	Image string `json:"image"`
}

type PerformanceRequest struct {
	Play        int       `json:"play" validate:"required,min=1"`
	TheatreHall int       `json:"theatre_hall" validate:"required,min=1"`
	ShowTime    time.Time `json:"show_time" validate:"required"`
}

type Performance struct {
	Id          int       `json:"id"`
	Play        int       `json:"play"`
	TheatreHall int       `json:"theatre_hall"`
	ShowTime    time.Time `json:"show_time"`
}

type PerformanceListItem struct {
	Id                  int       `json:"id"`
	PlayTitle           string    `json:"play_title"`
	PlayImage           string    `json:"play_image"`
	TheatreHallName     string    `json:"theatre_hall_name"`
	TheatreHallCapacity int       `json:"theatre_hall_capacity"`
	TicketsAvailable    int       `json:"tickets_available"`
	ShowTime            time.Time `json:"show_time"`
}

type SeatPosition struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type PerformanceDetail struct {
	Id               int            `json:"id"`
	ShowTime         time.Time      `json:"show_time"`
	Play             Play           `json:"play"`
	TheatreHall      TheatreHall    `json:"theatre_hall"`
	TicketsAvailable int            `json:"tickets_available"`
	TakenPlaces      []SeatPosition `json:"taken_places"`
}

type ReservationTicketRequest struct {
	Row         int `json:"row" validate:"required,min=1"`
	Seat        int `json:"seat" validate:"required,min=1"`
	Performance int `json:"performance" validate:"required,min=1"`
}

type ReservationRequest struct {
	Tickets []ReservationTicketRequest `json:"tickets" validate:"required,min=1,dive"`
}

type TicketPerformance struct {
	Id              int       `json:"id"`
	PlayTitle       string    `json:"play_title"`
	TheatreHallName string    `json:"theatre_hall_name"`
	ShowTime        time.Time `json:"show_time"`
}

type ReservationTicket struct {
	Id          int               `json:"id"`
	Row         int               `json:"row"`
	Seat        int               `json:"seat"`
	Performance TicketPerformance `json:"performance"`
}

type Reservation struct {
	Id        int                 `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Tickets   []ReservationTicket `json:"tickets"`
}

type ReservationListResponse struct {
	Reservations []Reservation `json:"reservations"`
	Metadata     Metadata      `json:"metadata"`
}

type TicketRequest struct {
	Row         int `json:"row" validate:"required,min=1"`
	Seat        int `json:"seat" validate:"required,min=1"`
	Performance int `json:"performance" validate:"required,min=1"`
	Reservation int `json:"reservation" validate:"required,min=1"`
}

// TicketPatchRequest updates only the fields that are present.
type TicketPatchRequest struct {
	Row         *int `json:"row" validate:"omitempty,min=1"`
	Seat        *int `json:"seat" validate:"omitempty,min=1"`
	Performance *int `json:"performance" validate:"omitempty,min=1"`
	Reservation *int `json:"reservation" validate:"omitempty,min=1"`
}

type Ticket struct {
	Id          int `json:"id"`
	Row         int `json:"row"`
	Seat        int `json:"seat"`
	Performance int `json:"performance"`
	Reservation int `json:"reservation"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,password"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Email     string    `json:"email"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

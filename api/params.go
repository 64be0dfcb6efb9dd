package api

import openapi_types "github.com/oapi-codegen/runtime/types"

// ListPlaysParams defines parameters for ListPlays.
type ListPlaysParams struct {
	// Title Case-insensitive substring of the play title
	Title *string `form:"title,omitempty" json:"title,omitempty"`

	// Genres Comma separated genre ids, e.g. 1,2
	Genres *[]int `form:"genres,omitempty" json:"genres,omitempty"`

	// Actors Comma separated actor ids, e.g. 1,2
	Actors *[]int `form:"actors,omitempty" json:"actors,omitempty"`
}

// ListPerformancesParams defines parameters for ListPerformances.
type ListPerformancesParams struct {
	// Play Comma separated play ids, e.g. 1,2
	Play *[]int `form:"play,omitempty" json:"play,omitempty"`

	// Date Calendar date of the show time (UTC)
	Date *openapi_types.Date `form:"date,omitempty" json:"date,omitempty"`
}

// ListReservationsParams defines parameters for ListReservations.
type ListReservationsParams struct {
	Page     *int `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int `form:"page_size,omitempty" json:"page_size,omitempty"`
}

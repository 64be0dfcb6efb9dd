package app

import (
	"math"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/oapi-codegen/runtime"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 3
	MaxPageSize     = 100

	// MaxPage keeps the row offset of the last page within an int.
	MaxPage = math.MaxInt / MaxPageSize
)

func bindListPlaysParams(qs url.Values) (api.ListPlaysParams, error) {
	var params api.ListPlaysParams

	qs = compactQuery(qs, "genres", "actors")

	err := bindQueryParameter(true, "title", qs, &params.Title)
	if err != nil {
		return params, err
	}

	err = bindIDList("genres", qs, &params.Genres)
	if err != nil {
		return params, err
	}

	err = bindIDList("actors", qs, &params.Actors)
	if err != nil {
		return params, err
	}

	return params, nil
}

func bindListPerformancesParams(qs url.Values) (api.ListPerformancesParams, error) {
	var params api.ListPerformancesParams

	qs = compactQuery(qs, "play")

	err := bindIDList("play", qs, &params.Play)
	if err != nil {
		return params, err
	}

	err = bindQueryParameter(true, "date", qs, &params.Date)
	if err != nil {
		return params, err
	}

	return params, nil
}

func bindListReservationsParams(qs url.Values) (api.ListReservationsParams, error) {
	var params api.ListReservationsParams

	qs = compactQuery(qs)

	err := bindQueryParameter(true, "page", qs, &params.Page)
	if err != nil {
		return params, err
	}

	err = bindQueryParameter(true, "page_size", qs, &params.PageSize)
	if err != nil {
		return params, err
	}

	return params, nil
}

func toPlayFilters(params api.ListPlaysParams) domain.PlayFilters {
	var filters domain.PlayFilters

	if params.Title != nil {
		filters.Title = strings.TrimSpace(*params.Title)
	}
	if params.Genres != nil {
		filters.GenreIDs = *params.Genres
	}
	if params.Actors != nil {
		filters.ActorIDs = *params.Actors
	}

	return filters
}

func toPerformanceFilters(params api.ListPerformancesParams) domain.PerformanceFilters {
	var filters domain.PerformanceFilters

	if params.Play != nil {
		filters.PlayIDs = *params.Play
	}
	if params.Date != nil {
		date := time.Date(params.Date.Year(), params.Date.Month(), params.Date.Day(), 0, 0, 0, 0, time.UTC)
		filters.Date = &date
	}

	return filters
}

// toPagination applies the defaults. A page_size above MaxPageSize is clamped,
// values below 1 and pages beyond MaxPage are rejected.
func toPagination(params api.ListReservationsParams) (domain.Pagination, error) {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		if *params.Page < 1 || *params.Page > MaxPage {
			return pagination, domain.NewFilterError("page", *params.Page)
		}
		pagination.Page = *params.Page
	}

	if params.PageSize != nil {
		if *params.PageSize < 1 {
			return pagination, domain.NewFilterError("page_size", *params.PageSize)
		}
		pagination.PageSize = min(*params.PageSize, MaxPageSize)
	}

	return pagination, nil
}

func bindQueryParameter(explode bool, name string, qs url.Values, dest any) error {
	err := runtime.BindQueryParameter("form", explode, false, name, qs, dest)
	if err != nil {
		return &domain.FilterError{Param: name, Value: qs.Get(name)}
	}

	return nil
}

// bindIDList binds a comma separated list of positive IDs such as "1,2,3".
func bindIDList(name string, qs url.Values, dest **[]int) error {
	err := bindQueryParameter(false, name, qs, dest)
	if err != nil {
		return err
	}

	if *dest == nil {
		return nil
	}

	for _, id := range **dest {
		if id < 1 {
			return domain.NewFilterError(name, id)
		}
	}

	return nil
}

// compactQuery drops blank parameters and the spaces around the separators of
// the list parameters, so "genres=" is the same as no filter and "1, 2" the same
// as "1,2".
func compactQuery(qs url.Values, lists ...string) url.Values {
	out := make(url.Values, len(qs))

	for key, values := range qs {
		isList := slices.Contains(lists, key)

		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				continue
			}

			if isList {
				parts := strings.Split(v, ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				v = strings.Join(parts, ",")
			}

			out[key] = append(out[key], v)
		}
	}

	return out
}

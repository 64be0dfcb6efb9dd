package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/storage"
	"golang.org/x/sync/errgroup"
)

const maxImageUploadBytes = 10 << 20

func (app *Application) ListPlays(w http.ResponseWriter, r *http.Request) {
	params, err := bindListPlaysParams(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	filters := toPlayFilters(params)

	plays, err := app.playRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.PlayListItem, len(plays))
	for i, p := range plays {
		resp[i] = toApiPlayListItem(p)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetPlay(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	play, err := app.playRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiPlay(*play), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreatePlay(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.PlayRequest

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

	var (
		genres []domain.Genre
		actors []domain.Actor
	)

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error
		genres, err = app.genreRepo.GetAll(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		actors, err = app.actorRepo.GetAll(ctx)
		return err
	})

	err = g.Wait()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	play := domain.Play{
		Title:       input.Title,
		Description: input.Description,
	}

	var invalid []api.ValidationError

	play.Genres, invalid = resolveReferences("genres", input.Genres, genres, func(g domain.Genre) int { return g.ID }, invalid)
	play.Actors, invalid = resolveReferences("actors", input.Actors, actors, func(a domain.Actor) int { return a.ID }, invalid)

	if len(invalid) > 0 {
		app.validationErrorResponse(w, r, invalid)
		return
	}

	err = app.playRepo.Create(r.Context(), &play)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidReference):
			logger.Warn("genre or actor removed while creating play", "error", err)
			app.badRequestResponse(w, r, errors.New(ErrInvalidReferencedItem))
		case errors.Is(err, domain.ErrDuplicateRecord):
			app.conflictResponse(w, r, ErrDuplicateRecord)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiPlay(play), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resolveReferences maps the requested IDs to the known records, dropping
// repeated IDs. Unknown IDs are appended to invalid.
func resolveReferences[T any](
	field string,
	ids []int,
	known []T,
	idOf func(T) int,
	invalid []api.ValidationError) ([]T, []api.ValidationError) {

	byID := make(map[int]T, len(known))
	for _, k := range known {
		byID[idOf(k)] = k
	}

	resolved := make([]T, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))

	for i, id := range ids {
		item, ok := byID[id]
		if !ok {
			invalid = append(invalid, api.ValidationError{
				Field: fmt.Sprintf("%s[%d]", field, i),
				Issue: fmt.Sprintf("%d does not exist", id),
			})
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		resolved = append(resolved, item)
	}

	return resolved, invalid
}

func (app *Application) UploadPlayImage(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	play, err := app.playRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &maxBytesError):
			app.badRequestResponse(w, r, fmt.Errorf("image must not be larger than %d bytes", maxBytesError.Limit))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			app.validationErrorResponse(w, r, []api.ValidationError{{Field: "image", Issue: "is required"}})
		default:
			app.badRequestResponse(w, r, err)
		}

		return
	}
	defer file.Close()

	url, err := app.images.Save(play.Title, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedImage):
			app.validationErrorResponse(w, r, []api.ValidationError{{Field: "image", Issue: ErrUnsupportedImage}})
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.playRepo.UpdateImage(r.Context(), id, url)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("play image uploaded", "play_id", id, "image", url)

	err = app.writeJSON(w, http.StatusOK, api.PlayImageResponse{Id: id, Image: url}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiPlayListItem(p domain.Play) api.PlayListItem {
	item := api.PlayListItem{
		Id:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Genres:      make([]string, len(p.Genres)),
		Actors:      make([]string, len(p.Actors)),
		Image:       p.Image,
	}

	for i, g := range p.Genres {
		item.Genres[i] = g.Name
	}

	for i, a := range p.Actors {
		item.Actors[i] = a.FullName()
	}

	return item
}

func toApiPlay(p domain.Play) api.Play {
	play := api.Play{
		Id:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Genres:      make([]api.Genre, len(p.Genres)),
		Actors:      make([]api.Actor, len(p.Actors)),
		Image:       p.Image,
	}

	for i, g := range p.Genres {
		play.Genres[i] = toApiGenre(g)
	}

	for i, a := range p.Actors {
		play.Actors[i] = toApiActor(a)
	}

	return play
}

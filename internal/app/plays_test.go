package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/mocks"
	"github.com/metinatakli/theatre-reservation-system/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type PlaysTestSuite struct {
	suite.Suite
	app      *Application
	playRepo *mocks.MockPlayRepo
}

func (s *PlaysTestSuite) SetupTest() {
	s.playRepo = new(mocks.MockPlayRepo)
	s.app = newTestApplication(func(a *Application) {
		a.playRepo = s.playRepo
		a.genreRepo = &mocks.MockGenreRepo{
			GetAllFunc: func(ctx context.Context) ([]domain.Genre, error) {
				return []domain.Genre{{ID: 1, Name: "Drama"}, {ID: 2, Name: "Comedy"}}, nil
			},
		}
		a.actorRepo = &mocks.MockActorRepo{
			GetAllFunc: func(ctx context.Context) ([]domain.Actor, error) {
				return []domain.Actor{{ID: 5, FirstName: "Judi", LastName: "Dench"}}, nil
			},
		}
		a.images = storage.NewLocalImageStore(s.T().TempDir(), mediaURLPrefix)
	})
}

func TestPlaysSuite(t *testing.T) {
	suite.Run(t, new(PlaysTestSuite))
}

func (s *PlaysTestSuite) TestListPlays() {
	tests := []struct {
		name           string
		query          string
		setupMock      func()
		wantStatus     int
		wantErrMessage string
		wantResponse   []api.PlayListItem
	}{
		{
			name:  "filters are passed to the repository",
			query: "?title=ham&genres=1,%202&actors=5",
			setupMock: func() {
				s.playRepo.On("GetAll", mock.Anything, domain.PlayFilters{
					Title:    "ham",
					GenreIDs: []int{1, 2},
					ActorIDs: []int{5},
				}).Return([]domain.Play{
					{
						ID:     1,
						Title:  "Hamlet",
						Genres: []domain.Genre{{ID: 1, Name: "Drama"}},
						Actors: []domain.Actor{{ID: 5, FirstName: "Judi", LastName: "Dench"}},
						Image:  "/media/uploads/plays/hamlet.png",
					},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantResponse: []api.PlayListItem{
				{
					Id:     1,
					Title:  "Hamlet",
					Genres: []string{"Drama"},
					Actors: []string{"Judi Dench"},
					Image:  "/media/uploads/plays/hamlet.png",
				},
			},
		},
		{
			name:           "malformed genre filter",
			query:          "?genres=1,drama",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `invalid value "1,drama" for query parameter "genres"`,
		},
		{
			name:           "non positive actor filter",
			query:          "?actors=0",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `invalid value "0" for query parameter "actors"`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.setupMock != nil {
				tt.setupMock()
			}

			w, r := executeRequest(s.T(), http.MethodGet, "/api/theatre/plays"+tt.query, nil)

			s.app.ListPlays(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var got []api.PlayListItem
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
				if diff := cmp.Diff(tt.wantResponse, got); diff != "" {
					s.T().Errorf("ListPlays() mismatch (-want +got):\n%s", diff)
				}
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})

			s.playRepo.AssertExpectations(s.T())
		})
	}
}

func (s *PlaysTestSuite) TestGetPlayNotFound() {
	s.playRepo.On("GetById", mock.Anything, 9).Return(nil, domain.ErrRecordNotFound).Once()

	w, r := executeRequest(s.T(), http.MethodGet, "/api/theatre/plays/9", nil)
	r = withURLParams(r, map[string]string{"id": "9"})

	s.app.GetPlay(w, r)

	s.Equal(http.StatusNotFound, w.Code)
	s.playRepo.AssertExpectations(s.T())
}

func (s *PlaysTestSuite) TestCreatePlay() {
	s.playRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Play) bool {
		return p.Title == "Hamlet" && len(p.Genres) == 2 && len(p.Actors) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Play).ID = 3
	}).Return(nil).Once()

	input := api.PlayRequest{Title: "Hamlet", Description: "A tragedy", Genres: []int{2, 1, 2}, Actors: []int{5}}

	w, r := executeRequest(s.T(), http.MethodPost, "/api/theatre/plays", input)

	s.app.CreatePlay(w, r)

	s.Require().Equal(http.StatusCreated, w.Code)

	var got api.Play
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))

	want := api.Play{
		Id:          3,
		Title:       "Hamlet",
		Description: "A tragedy",
		Genres:      []api.Genre{{Id: 2, Name: "Comedy"}, {Id: 1, Name: "Drama"}},
		Actors:      []api.Actor{{Id: 5, FirstName: "Judi", LastName: "Dench", FullName: "Judi Dench"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		s.T().Errorf("CreatePlay() mismatch (-want +got):\n%s", diff)
	}

	s.playRepo.AssertExpectations(s.T())
}

func (s *PlaysTestSuite) TestCreatePlayUnknownReferences() {
	input := api.PlayRequest{Title: "Hamlet", Genres: []int{1, 42}, Actors: []int{77}}

	w, r := executeRequest(s.T(), http.MethodPost, "/api/theatre/plays", input)

	s.app.CreatePlay(w, r)

	s.Require().Equal(http.StatusBadRequest, w.Code)

	var got api.ValidationErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))

	want := []api.ValidationError{
		{Field: "genres[1]", Issue: "42 does not exist"},
		{Field: "actors[0]", Issue: "77 does not exist"},
	}
	if diff := cmp.Diff(want, got.ValidationErrors); diff != "" {
		s.T().Errorf("validation errors mismatch (-want +got):\n%s", diff)
	}

	s.playRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *PlaysTestSuite) TestUploadPlayImage() {
	s.playRepo.On("GetById", mock.Anything, 3).Return(&domain.Play{ID: 3, Title: "Hamlet"}, nil).Once()
	s.playRepo.On("UpdateImage", mock.Anything, 3, mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, "/media/uploads/plays/hamlet-") && strings.HasSuffix(url, ".png")
	})).Return(nil).Once()

	w, r := newImageUploadRequest(s.T(), "image", pngHeader)
	r = withURLParams(r, map[string]string{"id": "3"})

	s.app.UploadPlayImage(w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	var got api.PlayImageResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
	s.Equal(3, got.Id)
	s.True(strings.HasPrefix(got.Image, "/media/uploads/plays/hamlet-"))

	s.playRepo.AssertExpectations(s.T())
}

func (s *PlaysTestSuite) TestUploadPlayImageRejectsText() {
	s.playRepo.On("GetById", mock.Anything, 3).Return(&domain.Play{ID: 3, Title: "Hamlet"}, nil).Once()

	w, r := newImageUploadRequest(s.T(), "image", []byte("just some text"))
	r = withURLParams(r, map[string]string{"id": "3"})

	s.app.UploadPlayImage(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, struct {
		wantStatus     int
		wantErrMessage string
	}{http.StatusBadRequest, ErrUnsupportedImage})

	s.playRepo.AssertNotCalled(s.T(), "UpdateImage", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PlaysTestSuite) TestUploadPlayImageMissingFile() {
	s.playRepo.On("GetById", mock.Anything, 3).Return(&domain.Play{ID: 3, Title: "Hamlet"}, nil).Once()

	w, r := newImageUploadRequest(s.T(), "poster", pngHeader)
	r = withURLParams(r, map[string]string{"id": "3"})

	s.app.UploadPlayImage(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, struct {
		wantStatus     int
		wantErrMessage string
	}{http.StatusBadRequest, "is required"})
}

func newImageUploadRequest(t *testing.T, field string, content []byte) (*httptest.ResponseRecorder, *http.Request) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/theatre/plays/3/upload-image", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	return httptest.NewRecorder(), r
}

func TestResolveReferences(t *testing.T) {
	known := []domain.Genre{{ID: 1, Name: "Drama"}, {ID: 2, Name: "Comedy"}}

	resolved, invalid := resolveReferences("genres", []int{2, 2, 3}, known, func(g domain.Genre) int { return g.ID }, nil)

	assert.Equal(t, []domain.Genre{{ID: 2, Name: "Comedy"}}, resolved)
	assert.Equal(t, []api.ValidationError{{Field: "genres[2]", Issue: "3 does not exist"}}, invalid)
}

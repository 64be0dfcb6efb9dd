package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/booking"
	"github.com/metinatakli/theatre-reservation-system/internal/domain"
	"github.com/metinatakli/theatre-reservation-system/internal/lock"
	"github.com/metinatakli/theatre-reservation-system/internal/mailer"
	"github.com/metinatakli/theatre-reservation-system/internal/mocks"
	"github.com/metinatakli/theatre-reservation-system/internal/storage"
	"github.com/metinatakli/theatre-reservation-system/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:          Config{Env: "test", TokenTTL: time.Hour},
		validator:       validator.NewValidator(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		mailer:          mailer.NewMockMailer(),
		images:          storage.NewLocalImageStore(os.TempDir(), mediaURLPrefix),
		userRepo:        &mocks.MockUserRepo{},
		tokenRepo:       &mocks.MockTokenRepo{},
		genreRepo:       &mocks.MockGenreRepo{},
		actorRepo:       &mocks.MockActorRepo{},
		hallRepo:        &mocks.MockTheatreHallRepo{},
		playRepo:        new(mocks.MockPlayRepo),
		performanceRepo: new(mocks.MockPerformanceRepo),
		reservationRepo: new(mocks.MockReservationRepo),
		ticketRepo:      new(mocks.MockTicketRepo),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.booking == nil {
		app.booking = booking.NewService(
			app.performanceRepo,
			app.hallRepo,
			app.reservationRepo,
			app.ticketRepo,
			lock.NewLocalLocker(time.Second),
			app.logger,
		)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader = http.NoBody

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withUser places user in the request context the way authenticate does.
func withUser(app *Application, r *http.Request, user *domain.User) *http.Request {
	return app.contextSetUser(r, user)
}

// withURLParams attaches chi URL parameters to a request that bypasses the router.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	var validationResp api.ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if len(validationResp.ValidationErrors) > 0 {
		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if tt.wantErrMessage != "" && !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

		return
	}

	if tt.wantErrMessage != "" && validationResp.Message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", validationResp.Message, tt.wantErrMessage)
	}
}

func ptr[T any](v T) *T {
	return &v
}

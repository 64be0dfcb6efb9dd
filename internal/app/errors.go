package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/theatre-reservation-system/api"
	"github.com/metinatakli/theatre-reservation-system/internal/booking"
	appvalidator "github.com/metinatakli/theatre-reservation-system/internal/validator"
)

const (
	ErrInternalServer        = "The server encountered a problem and could not process your request"
	ErrNotFound              = "The requested resource not found"
	ErrMethodNotAllowed      = "The %s method is not supported for this resource"
	ErrValidationFailed      = "One or more fields are invalid"
	ErrUnauthorizedAccess    = "You must be authenticated to access this resource"
	ErrInvalidToken          = "Invalid or missing authentication token"
	ErrInvalidCredentials    = "Invalid credentials. Please try again."
	ErrPermissionDenied      = "You do not have permission to perform this action"
	ErrEditConflict          = "Unable to update the record due to an edit conflict, please try again"
	ErrSeatsConflict         = "One or more seats were booked by a concurrent request, please try again"
	ErrDuplicateRecord       = "A record with the same value already exists"
	ErrUnsupportedImage      = "The uploaded file is not a supported image"
	ErrInvalidReferencedItem = "A referenced resource does not exist"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf(ErrMethodNotAllowed, r.Method))
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.conflictResponse(w, r, ErrEditConflict)
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Token")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorizedAccess)
}

func (app *Application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Token")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidToken)
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrPermissionDenied)
}

func (app *Application) validationErrorResponse(w http.ResponseWriter, r *http.Request, errs []api.ValidationError) {
	resp := api.ValidationErrorResponse{
		Message:          ErrValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: errs,
	}

	err := app.writeJSON(w, http.StatusBadRequest, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// failedValidationResponse reports the field errors of a request body rejected
// by the validator.
func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	errs := make([]api.ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		errs[i] = api.ValidationError{
			Field: fieldPath(fieldErr.Namespace()),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	app.validationErrorResponse(w, r, errs)
}

// bookingValidationResponse reports a seat that cannot be booked, pointing at the
// offending ticket of the request.
func (app *Application) bookingValidationResponse(w http.ResponseWriter, r *http.Request, err *booking.ValidationError) {
	field := err.Field
	if err.Index >= 0 {
		field = fmt.Sprintf("tickets[%d].%s", err.Index, err.Field)
	}

	app.validationErrorResponse(w, r, []api.ValidationError{{Field: field, Issue: err.Message}})
}

// fieldPath drops the struct name the validator puts in front of a namespace,
// e.g. "ReservationRequest.tickets[0].row" becomes "tickets[0].row".
func fieldPath(namespace string) string {
	for i, c := range namespace {
		if c == '.' {
			return namespace[i+1:]
		}
	}

	return namespace
}

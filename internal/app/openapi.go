package app

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/metinatakli/theatre-reservation-system/api"
)

var openAPIDocument = sync.OnceValues(func() ([]byte, error) {
	doc, err := api.LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	return json.Marshal(doc)
})

func (app *Application) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	js, err := openAPIDocument()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(js)
}

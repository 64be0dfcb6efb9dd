package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// response fields whose values differ between runs
var keysToIgnore = map[string]struct{}{
	"timestamp":  {},
	"requestId":  {},
	"created_at": {},
	"token":      {},
	"expiry":     {},
	"version":    {},
	"show_time":  {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))
	actual = clean(actual)

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func clean(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			v[k] = clean(v[k])
		}
		return v
	case []any:
		for i := range v {
			v[i] = clean(v[i])
		}
		return v
	default:
		return v
	}
}

func decodeBody[T any](t testing.TB, res *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))

	return out
}

func executeSQLFile(t testing.TB, testApp *TestApp, path string) {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// without arguments pgx uses the simple protocol, which accepts several statements
	_, err = testApp.DB.Exec(context.Background(), string(content))
	require.NoError(t, err)
}

func truncateAll(t testing.TB, testApp *TestApp) {
	t.Helper()

	_, err := testApp.DB.Exec(context.Background(), `
		TRUNCATE tickets, reservations, performances, play_actors, play_genres, plays,
			theatre_halls, actors, genres, tokens, users
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	require.NoError(t, testApp.RedisClient.FlushAll(context.Background()).Err())
	testApp.Mailer.Reset()
}

// resetBookings removes every reservation and ticket while keeping the catalogue
// and the users.
func resetBookings(t testing.TB, testApp *TestApp) {
	t.Helper()

	_, err := testApp.DB.Exec(context.Background(), "TRUNCATE tickets, reservations RESTART IDENTITY")
	require.NoError(t, err)

	testApp.Mailer.Reset()
}

func serve(testApp *TestApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)

	return rec
}

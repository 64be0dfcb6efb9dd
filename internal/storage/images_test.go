package storage

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header followed by arbitrary bytes is enough for content sniffing
var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestLocalImageStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocalImageStore(root, "/media/")

	url, err := store.Save("The Cherry Orchard!", bytes.NewReader(pngData))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/uploads/plays/the-cherry-orchard-"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)
}

func TestLocalImageStoreRejectsNonImages(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), "/media/")

	_, err := store.Save("play", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = store.Save("play", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "romeo-and-juliet", fileStem("Romeo & Juliet"))
	assert.Equal(t, "les-miserables", fileStem("Les Misérables"))
	assert.Equal(t, "play", fileStem("!!!"))
	assert.Equal(t, "a-b", fileStem("  A -- B  "))

	long := fileStem(strings.Repeat("ab ", 80))
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.False(t, strings.HasSuffix(long, "-"), long)
}

func TestLocalImageStoreHandler(t *testing.T) {
	store := NewLocalImageStore(t.TempDir(), "/media/")

	url, err := store.Save("Hamlet", bytes.NewReader(pngData))
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "stored image", path: url, wantStatus: http.StatusOK},
		{name: "media root", path: "/media/", wantStatus: http.StatusNotFound},
		{name: "upload directory", path: "/media/uploads/plays/", wantStatus: http.StatusNotFound},
		{name: "upload directory without slash", path: "/media/uploads", wantStatus: http.StatusNotFound},
		{name: "missing file", path: "/media/uploads/plays/missing.png", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			store.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, pngData, w.Body.Bytes())
			}
		})
	}
}

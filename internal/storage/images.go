// Package storage keeps uploaded play images on the local filesystem.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const uploadDir = "uploads/plays"

// ErrUnsupportedImage is returned for uploads that are not JPEG, PNG, GIF or WebP.
var ErrUnsupportedImage = errors.New("file is not a supported image")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageStore interface {
	// Save stores the image and returns the public URL path it is served under.
	Save(title string, r io.Reader) (string, error)
	// Handler serves the stored images below the URL prefix.
	Handler() http.Handler
}

type LocalImageStore struct {
	root      string
	urlPrefix string
}

// NewLocalImageStore stores files below root and reports them below urlPrefix,
// e.g. "/media/".
func NewLocalImageStore(root, urlPrefix string) *LocalImageStore {
	return &LocalImageStore{
		root:      root,
		urlPrefix: urlPrefix,
	}
}

func (s *LocalImageStore) Save(title string, r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", ErrUnsupportedImage
		}
		return "", err
	}
	head = head[:n]

	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	dir := filepath.Join(s.root, filepath.FromSlash(uploadDir))
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", fileStem(title), uuid.NewString(), ext)

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	_, err = io.Copy(f, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path.Join(s.urlPrefix, uploadDir, name), nil
}

// Handler serves the stored images. Directories are answered with 404 so the
// upload tree cannot be listed.
func (s *LocalImageStore) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix, http.FileServer(filesOnly{http.Dir(s.root)}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}

const maxSlugLength = 100

func fileStem(title string) string {
	stem := slug.Make(title)
	if len(stem) > maxSlugLength {
		stem = strings.TrimRight(stem[:maxSlugLength], "-")
	}

	if stem == "" {
		return "play"
	}

	return stem
}

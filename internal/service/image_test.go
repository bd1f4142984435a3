package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

// A 1x1 transparent PNG.
const testImageBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

const testImageDataURI = "data:image/png;base64," + testImageBase64

func newTestImageService(t *testing.T) (*service.ImageService, string) {
	t.Helper()
	dir := t.TempDir()
	store := service.NewLocalImageStore(dir, "/media/recipes")
	return service.NewImageService(store), dir
}

func TestDecodeAndStoreDataURI(t *testing.T) {
	svc, dir := newTestImageService(t)

	url, err := svc.DecodeAndStore(context.Background(), testImageDataURI)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(url), entries[0].Name())
}

func TestDecodeAndStoreBareBase64(t *testing.T) {
	svc, _ := newTestImageService(t)

	url, err := svc.DecodeAndStore(context.Background(), testImageBase64)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestDecodeAndStoreInvalidBase64(t *testing.T) {
	svc, _ := newTestImageService(t)

	_, err := svc.DecodeAndStore(context.Background(), "data:image/png;base64,not-base64!!!")
	assert.True(t, service.IsValidation(err))
}

func TestDecodeAndStoreNotAnImage(t *testing.T) {
	svc, _ := newTestImageService(t)

	// Valid base64, but the bytes are not a decodable image.
	_, err := svc.DecodeAndStore(context.Background(), "aGVsbG8gd29ybGQ=")
	assert.True(t, service.IsValidation(err))
}

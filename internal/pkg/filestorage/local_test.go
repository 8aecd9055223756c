package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fileHeader builds a multipart.FileHeader the way gin hands it to handlers
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("questionImage", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["questionImage"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "", 1024, nil)
	require.NoError(t, err)

	ref, err := ls.Save(context.Background(), fileHeader(t, "q1.png", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	path := filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), ref))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, ls.Delete(context.Background(), ref))
}

func TestLocalStorageBaseURL(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:3000/", 1024, nil)
	require.NoError(t, err)

	ref, err := ls.Save(context.Background(), fileHeader(t, "q.jpg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "http://localhost:3000/uploads/"))
	assert.NotEmpty(t, ls.fullPath(ref))
}

func TestLocalStorageRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "", 16, nil)
	require.NoError(t, err)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	_, err = ls.Save(context.Background(), fileHeader(t, "big.png", big))
	assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorageRejectsUnsupportedType(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", 1024, nil)
	require.NoError(t, err)

	// the extension does not matter, the content does
	_, err = ls.Save(context.Background(), fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestLocalStorageIgnoresForeignRefs(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", 1024, nil)
	require.NoError(t, err)

	assert.Empty(t, ls.fullPath(""))
	assert.Empty(t, ls.fullPath("https://example.com/a.png"))
	assert.Empty(t, ls.fullPath("/uploads/../secret"))
	assert.NoError(t, ls.Delete(context.Background(), "/uploads/../secret"))

	ref, err := ls.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ref)
}

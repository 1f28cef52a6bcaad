package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestFileName(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	name := FileName(at, ".png")
	assert.Regexp(t, regexp.MustCompile(`^1704164645000-[0-9a-f-]{36}\.png$`), name)
	assert.NotEqual(t, name, FileName(at, ".png"))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage(pngHeader))
	assert.False(t, IsImage([]byte("<html><body>hi</body></html>")))
	assert.False(t, IsImage(nil))
}

func TestDiskStore_Save(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 1<<10)
	require.NoError(t, err)

	tests := []struct {
		name    string
		file    string
		content []byte
		wantErr bool
	}{
		{name: "png", file: "logo.PNG", content: pngHeader},
		{name: "wrong extension", file: "logo.exe", content: pngHeader, wantErr: true},
		{name: "not an image", file: "logo.png", content: []byte("#!/bin/sh\necho hi"), wantErr: true},
		{name: "too large", file: "big.png", content: append(pngHeader, make([]byte, 2<<10)...), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := store.Save(fileHeader(t, tt.file, tt.content))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ".png", filepath.Ext(name))
			saved, err := os.ReadFile(filepath.Join(store.Dir(), name))
			require.NoError(t, err)
			assert.Equal(t, tt.content, saved)
		})
	}
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(fileField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File[fileField][0]
}

func Test_writeFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "ok.png")
	require.NoError(t, writeFile(path, bytes.NewReader(pngHeader)))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	t.Run("failed copy leaves no file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.png")
		r := io.MultiReader(bytes.NewReader(pngHeader), iotest.ErrReader(errors.New("connection reset")))
		err := writeFile(path, r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "got %v", err)
	})

	t.Run("existing name is kept", func(t *testing.T) {
		assert.Error(t, writeFile(path, bytes.NewReader(nil)))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, got)
	})
}

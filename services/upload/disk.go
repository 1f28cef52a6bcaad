package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
)

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

const fileField = "file"

// DiskStore writes uploaded images into a single directory.
type DiskStore struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

var _ core.FileStore = (*DiskStore)(nil)

func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	return &DiskStore{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

// Save checks the file is an image within the size limit and stores it under a fresh name.
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", fieldErr(fmt.Sprintf("file exceeds %d bytes", s.maxSize))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := imageExts[ext]; !ok {
		return "", fieldErr("only image files are allowed")
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrap(err, "reading upload")
	}
	if !IsImage(head[:n]) {
		return "", fieldErr("only image files are allowed")
	}

	name := FileName(s.now(), ext)
	if err = writeFile(filepath.Join(s.dir, name), io.MultiReader(bytes.NewReader(head[:n]), src)); err != nil {
		return "", err
	}
	return name, nil
}

// writeFile creates path from r. A partly written file is removed so it is never served.
func writeFile(path string, r io.Reader) (err error) {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer func() {
		if cerr := dst.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "closing file")
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err = io.Copy(dst, r); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

// FileName is "<unix millis>-<uuid><ext>"; names sort by upload time and never collide.
func FileName(at time.Time, ext string) string {
	return fmt.Sprintf("%d-%s%s", at.UnixNano()/int64(time.Millisecond), uuid.New().String(), ext)
}

// IsImage sniffs the first bytes of a file.
func IsImage(head []byte) bool {
	return strings.HasPrefix(http.DetectContentType(head), "image/")
}

func fieldErr(msg string) error {
	return core.NewValidationError(errors.New(msg), core.FieldError{Field: fileField, Error: msg})
}

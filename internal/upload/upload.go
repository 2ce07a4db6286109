package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
)

// allowed submission attachments: images, PDF and Word documents.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

type Saver struct {
	dir      string
	maxBytes int64
}

func NewSaver(dir string, maxBytes int64) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Saver{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Saver) Dir() string {
	return s.dir
}

// Save writes the uploaded file to disk under a generated name and returns
// the public /uploads reference stored on the submission. Durability of the
// file itself is outside the ledger/workflow contract; only the reference
// travels through the core.
func (s *Saver) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", ErrInvalidFileType
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%s-%d%s", uuid.NewString(), time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

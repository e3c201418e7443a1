package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sniffLen matches the amount of data mimetype inspects by default.
const sniffLen = 3072

// ErrNotImage is returned when an upload does not look like an image.
var ErrNotImage = errors.New("uploaded file is not an image")

// ImageStore saves article images under a key prefix.
type ImageStore struct {
	svc    Service
	prefix string
	log    *logrus.Logger
}

func NewImageStore(svc Service, keyPrefix string, logger *logrus.Logger) *ImageStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &ImageStore{
		svc:    svc,
		prefix: strings.Trim(keyPrefix, "/"),
		log:    logger,
	}
}

// Save sniffs r, rejects anything that is not an image and uploads it under
// a fresh random key. It returns the public URL of the stored object.
func (s *ImageStore) Save(ctx context.Context, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", ErrNotImage
	}

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	key := uuid.NewString() + mt.Extension()
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	location, err := s.svc.PutObject(ctx, key, body, mt.String())
	if err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"key": key, "content_type": mt.String()}).Info("stored article image")
	return location, nil
}

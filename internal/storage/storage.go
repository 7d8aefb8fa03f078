package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned when a key does not exist in the backend.
var ErrNotFound = errors.New("object not found")

// Object is an image read from storage.
type Object struct {
	// Key is the local path or object key that was read
	Key string

	Data []byte

	// MIMEType is sniffed from the content, e.g. "image/png"
	MIMEType string

	Size int64
}

// Storage is a read-only source of input images. Generated artifacts are
// never written back; the vendor hosts them.
type Storage interface {
	// Read loads the object stored under key
	Read(ctx context.Context, key string) (*Object, error)

	// Close releases backend resources
	Close() error

	// IsRemote returns true for S3, false for local files
	IsRemote() bool
}

// DetectMIME sniffs the content type of data, without parameters.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

func newObject(key string, data []byte) *Object {
	return &Object{
		Key:      key,
		Data:     data,
		MIMEType: DetectMIME(data),
		Size:     int64(len(data)),
	}
}

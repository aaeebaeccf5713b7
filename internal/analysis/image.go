package analysis

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Image is a report image to analyze. It is backed either by a file on
// disk or by bytes already in memory (an upload). Contents are read at
// most once.
type Image struct {
	name string
	path string
	size int64

	once sync.Once
	data []byte
	err  error
}

// NewFileImage references an image on disk. Only the size is read here.
func NewFileImage(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stat image: %s is a directory", path)
	}
	return &Image{
		name: filepath.Base(path),
		path: path,
		size: info.Size(),
	}, nil
}

// NewImageFromBytes wraps in-memory image data.
func NewImageFromBytes(name string, data []byte) *Image {
	img := &Image{
		name: name,
		size: int64(len(data)),
		data: data,
	}
	img.once.Do(func() {})
	return img
}

// Name returns the file name of the image.
func (i *Image) Name() string { return i.name }

// Path returns the file path, or "" for in-memory images.
func (i *Image) Path() string { return i.path }

// Size returns the image size in bytes without reading its contents.
func (i *Image) Size() int64 { return i.size }

// Bytes returns the image contents.
func (i *Image) Bytes() ([]byte, error) {
	i.once.Do(func() {
		i.data, i.err = os.ReadFile(i.path)
		if i.err != nil {
			i.err = fmt.Errorf("read image: %w", i.err)
		}
	})
	return i.data, i.err
}

// MIMEType sniffs the content type from magic bytes, defaulting to JPEG.
func (i *Image) MIMEType() string {
	data, err := i.Bytes()
	if err != nil {
		return "image/jpeg"
	}
	return detectMimeType(data)
}

// IsPDF reports whether the image is actually a PDF document.
func (i *Image) IsPDF() bool {
	return i.MIMEType() == "application/pdf"
}

// DataURI returns the contents as a base64 data URI.
func (i *Image) DataURI() (string, error) {
	data, err := i.Bytes()
	if err != nil {
		return "", err
	}
	return "data:" + detectMimeType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func detectMimeType(data []byte) string {
	if len(data) >= 4 && string(data[:4]) == "%PDF" {
		return "application/pdf"
	}
	if len(data) >= 8 && string(data[:4]) == "\x89PNG" {
		return "image/png"
	}
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return "image/jpeg"
}
